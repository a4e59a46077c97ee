package resolve

import (
	"context"
	"fmt"

	"github.com/forgelink/forgelink/internal/objfile"
)

// SymbolLookup resolves a symbol id to its definition within the owning
// group's files. In a real linker this walks the group's parsed symbol
// tables; here it is a direct map lookup since internal/objfile already
// keeps symbols keyed by id.
func (g *GroupState) SymbolLookup(id objfile.SymbolID) (*objfile.Symbol, bool) {
	for _, fl := range g.Files {
		if sym, ok := fl.Symbols[id]; ok {
			return sym, true
		}
	}

	return nil, false
}

// Process is the reference ProcessFunc: it resolves global symbols
// against the symbol database, marks referenced sections live, follows
// relocations and references to enqueue further work (same-group via
// queue, cross-group via shared.SendWork), and flags dynamic exports.
//
// The actual byte-level section load / copy relocation is out of scope:
// this records intent (which sections ended up live, which symbols were
// copy-relocated or exported) rather than performing real linker output
// mutation.
func Process(ctx context.Context, item WorkItem, gs *GroupState, queue *LocalWorkQueue, shared *SharedResources) error {
	switch item.Kind {
	case LoadGlobalSymbol:
		return processLoadGlobalSymbol(ctx, item, gs, queue, shared)
	case CopyRelocateSymbol:
		return processCopyRelocateSymbol(ctx, item, gs, shared)
	case LoadSection:
		return processLoadSection(gs, item)
	case ExportDynamic:
		return processExportDynamic(item, gs, shared)
	default:
		return fmt.Errorf("resolve: unknown work item kind %v", item.Kind)
	}
}

func processLoadGlobalSymbol(ctx context.Context, item WorkItem, gs *GroupState, queue *LocalWorkQueue, shared *SharedResources) error {
	definingGroup, ok := shared.Symbols().DefiningGroup(item.Symbol)
	if !ok {
		return fmt.Errorf("resolve: undefined symbol %q", item.Symbol)
	}

	if definingGroup != gs.ID {
		shared.SendWork(definingGroup, LoadGlobalSymbolItem(item.Symbol))
		return nil
	}

	if !shared.Symbols().MarkLive(item.Symbol) {
		// Already resolved by some other traversal path; nothing more to
		// do (idempotent re-visit, not an error).
		return nil
	}

	log(ctx).Debugf("resolved %v in group %d (defined in group %d)", item.Symbol, gs.ID, definingGroup)

	sym, ok := gs.SymbolLookup(item.Symbol)
	if !ok {
		return fmt.Errorf("resolve: symbol %q claimed by group %d but not found in its files", item.Symbol, gs.ID)
	}

	gs.Acc.GlobalSymbolsResolved++

	return enqueueSymbolFollowUps(queue, shared, gs.ID, sym)
}

func processCopyRelocateSymbol(ctx context.Context, item WorkItem, gs *GroupState, shared *SharedResources) error {
	definingGroup, ok := shared.Symbols().DefiningGroup(item.Symbol)
	if !ok {
		return fmt.Errorf("resolve: undefined symbol %q", item.Symbol)
	}

	if definingGroup != gs.ID {
		shared.SendWork(definingGroup, CopyRelocateSymbolItem(item.Symbol))
		return nil
	}

	if shared.Symbols().MarkCopyRelocated(item.Symbol) {
		gs.Acc.SymbolsCopyRelocated++
		log(ctx).Debugf("copy-relocated %v in group %d", item.Symbol, gs.ID)
	}

	return nil
}

func processLoadSection(gs *GroupState, item WorkItem) error {
	gs.MarkSectionLoaded(item.Section)
	return nil
}

func processExportDynamic(item WorkItem, gs *GroupState, shared *SharedResources) error {
	definingGroup, ok := shared.Symbols().DefiningGroup(item.Symbol)
	if !ok {
		return fmt.Errorf("resolve: undefined symbol %q", item.Symbol)
	}

	if definingGroup != gs.ID {
		shared.SendWork(definingGroup, ExportDynamicItem(item.Symbol))
		return nil
	}

	if shared.Symbols().MarkDynamicExport(item.Symbol) {
		gs.Acc.exportedSymbols.Add(string(item.Symbol))
	}

	return nil
}

// enqueueSymbolFollowUps emits the work a freshly resolved symbol
// generates: a LoadSection for its backing section (same group), a
// LoadGlobalSymbol for every symbol it references (possibly another
// group), and a LoadSection for every relocation target it names.
func enqueueSymbolFollowUps(queue *LocalWorkQueue, shared *SharedResources, ownerGroup int, sym *objfile.Symbol) error {
	queue.Push(LoadSectionItem(sym.Section))

	for _, ref := range sym.References {
		if ref.Group == ownerGroup {
			queue.Push(LoadGlobalSymbolItem(ref.Symbol))
		} else {
			shared.SendWork(ref.Group, LoadGlobalSymbolItem(ref.Symbol))
		}
	}

	for _, reloc := range sym.Relocations {
		if reloc.Group == ownerGroup {
			queue.Push(LoadSectionItem(reloc.Section))
		} else {
			shared.SendWork(reloc.Group, LoadSectionItem(reloc.Section))
		}
	}

	if sym.Dynamic {
		queue.Push(ExportDynamicItem(sym.ID))
	}

	return nil
}
