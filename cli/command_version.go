package cli

import (
	"context"
	"fmt"
)

// version is set at build time via -ldflags "-X ...cli.version=...";
// it defaults to a development marker when unset.
var version = "dev"

type commandVersion struct{}

func (c *commandVersion) setup(app *App, parent commandParent) {
	cmd := parent.Command("version", "Print the forgelink version")
	cmd.Action(app.action(c.run))
}

func (c *commandVersion) run(_ context.Context) error {
	fmt.Println("forgelink " + version)
	return nil
}
