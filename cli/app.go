// Package cli wires forgelink's commands onto a kingpin application:
// each command declares its flags in setup and holds its logic in run.
package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/forgelink/forgelink/internal/logging"
)

var log = logging.GetContextLoggerFunc("cli")

// commandParent is the subset of *kingpin.Application / *kingpin.CmdClause
// a command needs to register itself, so commands don't depend on
// kingpin's concrete types directly.
type commandParent interface {
	Command(name, help string) *kingpin.CmdClause
}

// command is implemented by every forgelink subcommand.
type command interface {
	setup(app *App, parent commandParent)
}

// App owns the kingpin application and the commands registered on it.
type App struct {
	kp *kingpin.Application

	verbose bool
	ctx     context.Context
}

// NewApp builds the forgelink kingpin application with every subcommand
// registered.
func NewApp() *App {
	a := &App{
		kp: kingpin.New("forgelink", "A concurrent symbol-resolution linker scheduler."),
	}

	a.kp.Flag("verbose", "Enable verbose (debug) logging").Short('v').PreAction(func(*kingpin.ParseContext) error {
		logging.SetVerbose(true)
		return nil
	}).BoolVar(&a.verbose)

	commands := []command{
		&commandResolve{},
		&commandVersion{},
	}

	for _, c := range commands {
		c.setup(a, a.kp)
	}

	return a
}

// Run parses os.Args-equivalent arguments and executes the matched
// command's action with ctx.
func (a *App) Run(ctx context.Context, args []string) error {
	a.ctx = ctx

	cmd, err := a.kp.Parse(args)
	if err != nil {
		return err
	}

	log(ctx).Debugf("ran command %q", cmd)

	return nil
}

// action adapts a (ctx, ...) run method into the closure kingpin.Action
// expects, passing through the context Run was called with.
func (a *App) action(f func(ctx context.Context) error) func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		return f(a.ctx)
	}
}
