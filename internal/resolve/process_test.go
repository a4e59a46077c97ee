package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/internal/objfile"
	"github.com/forgelink/forgelink/internal/resolve"
)

// seedGlobal pushes a LoadGlobalSymbol for every symbol a file defines,
// the same seed procedure cli/command_resolve.go uses for real runs.
func seedGlobal(_ context.Context, file *objfile.FileLayout, gs *resolve.GroupState, _ *resolve.SharedResources) {
	for id := range file.Symbols {
		gs.Queue.Push(resolve.LoadGlobalSymbolItem(id))
	}
}

func TestProcessAccumulatesRealResolutions(t *testing.T) {
	main := objfile.NewFileLayout("a.o")
	main.AddSymbol(&objfile.Symbol{
		ID:      "main",
		Section: "text.main",
		References: []objfile.SymbolRef{
			{Symbol: "helper", Group: 0},
		},
	})
	main.AddSymbol(&objfile.Symbol{
		ID:      "helper",
		Section: "text.helper",
		Dynamic: true,
	})

	gs := resolve.NewGroupState(0, []*objfile.FileLayout{main})
	layouts := [][]*objfile.FileLayout{{main}}

	sched := resolve.NewScheduler(2, resolve.Process, resolve.NewMetrics(nil))
	result := sched.Run(context.Background(), []*resolve.GroupState{gs}, seedGlobal, layouts)

	require.NoError(t, result.Err)
	require.Len(t, result.Groups, 1)

	acc := result.Groups[0].Acc
	require.Equal(t, 2, acc.GlobalSymbolsResolved, "main and helper should each count as a real resolution")
	require.Equal(t, []string{"text.helper", "text.main"}, acc.LoadedSections())
	require.Equal(t, []string{"helper"}, acc.ExportedSymbols())
}

func TestProcessCopyRelocateCountsOnce(t *testing.T) {
	file := objfile.NewFileLayout("a.o")
	file.AddSymbol(&objfile.Symbol{ID: "sym", Section: "text.sym"})

	gs := resolve.NewGroupState(0, []*objfile.FileLayout{file})
	layouts := [][]*objfile.FileLayout{{file}}

	seed := func(_ context.Context, _ *objfile.FileLayout, g *resolve.GroupState, _ *resolve.SharedResources) {
		g.Queue.Push(resolve.CopyRelocateSymbolItem("sym"))
		g.Queue.Push(resolve.CopyRelocateSymbolItem("sym"))
	}

	sched := resolve.NewScheduler(1, resolve.Process, resolve.NewMetrics(nil))
	result := sched.Run(context.Background(), []*resolve.GroupState{gs}, seed, layouts)

	require.NoError(t, result.Err)
	require.Equal(t, 1, result.Groups[0].Acc.SymbolsCopyRelocated)
}
