package cli

import (
	"context"

	"github.com/alecthomas/units"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/pkg/profile"

	"github.com/forgelink/forgelink/config"
	"github.com/forgelink/forgelink/internal/objfile"
	"github.com/forgelink/forgelink/internal/resolve"
	"github.com/forgelink/forgelink/internal/runlock"
	"github.com/forgelink/forgelink/report"
)

type commandResolve struct {
	manifestPaths   []string
	configPath      string
	threads         int
	manifestWorkers int
	reportThreshold string
	outputDir       string
	jsonOutput      bool
	verboseOutput   bool
	cpuProfile      bool
}

func (c *commandResolve) setup(app *App, parent commandParent) {
	cmd := parent.Command("resolve", "Run symbol resolution and section loading over a link graph")
	cmd.Arg("manifest", "Path to a link-graph manifest JSON; repeat to link several together").Required().StringsVar(&c.manifestPaths)
	cmd.Flag("config", "Run configuration JSON; flags below override its values").StringVar(&c.configPath)
	cmd.Flag("threads", "Scheduler pool size (0 = GOMAXPROCS)").IntVar(&c.threads)
	cmd.Flag("manifest-workers", "Parallelism for loading multiple manifest files (0 = inline)").Default("4").IntVar(&c.manifestWorkers)
	cmd.Flag("report-threshold", "Suppress per-group section listings under this size").Default("0").StringVar(&c.reportThreshold)
	cmd.Flag("output-dir", "Directory for the run lock and CPU profile").StringVar(&c.outputDir)
	cmd.Flag("json", "Emit the report as JSON instead of text").BoolVar(&c.jsonOutput)
	cmd.Flag("dump", "Dump the full report with sanity-io/litter").BoolVar(&c.verboseOutput)
	cmd.Flag("cpuprofile", "Write a pprof CPU profile for this run").BoolVar(&c.cpuProfile)
	cmd.Action(app.action(c.run))
}

func (c *commandResolve) run(ctx context.Context) error {
	threshold, err := units.ParseBase2Bytes(c.reportThreshold)
	if err != nil {
		return errors.Wrap(err, "invalid --report-threshold")
	}

	flagCfg := config.Config{
		Threads:         c.threads,
		ReportThreshold: threshold,
		OutputDir:       c.outputDir,
	}

	cfg := flagCfg
	if c.configPath != "" {
		fileCfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}

		cfg = fileCfg.Override(flagCfg)
	}

	cfg = cfg.ApplyDefaults()
	ctx = config.WithContext(ctx, &cfg)

	if c.cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.OutputDir)).Stop()
	}

	lock, err := runlock.Acquire(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer lock.Release() //nolint:errcheck

	manifest, err := objfile.LoadManifestsParallel(c.manifestPaths, c.manifestWorkers)
	if err != nil {
		return err
	}

	layouts := manifest.Layouts()

	groups := make([]*resolve.GroupState, len(layouts))
	for i, files := range layouts {
		groups[i] = resolve.NewGroupState(i, files)
	}

	sched := resolve.NewScheduler(cfg.Threads, resolve.Process, resolve.NewMetrics(nil))

	result := sched.Run(ctx, groups, seedFromFiles, layouts)

	out := colorable.NewColorableStdout()
	rep := report.Build(result)

	switch {
	case c.jsonOutput:
		if err := report.WriteJSON(out, rep); err != nil {
			return errors.Wrap(err, "error writing report")
		}
	case c.verboseOutput:
		report.WriteVerbose(out, rep)
	default:
		report.WriteText(out, rep, config.FromContext(ctx).ReportThreshold)
	}

	return result.Err
}

// seedFromFiles is the resolve.SeedFunc used by the resolve command: it
// walks every symbol a file defines and enqueues a LoadGlobalSymbol for
// it, the same entry point a real linker uses for "this file is part of
// the link, resolve everything it provides."
func seedFromFiles(_ context.Context, file *objfile.FileLayout, gs *resolve.GroupState, _ *resolve.SharedResources) {
	for id := range file.Symbols {
		gs.Queue.Push(resolve.LoadGlobalSymbolItem(id))
	}
}
