package resolve

import (
	"github.com/forgelink/forgelink/internal/objfile"
)

// Accumulator holds the per-group outputs of resolution. It is opaque to
// the scheduler (nothing in scheduler.go or slot.go reads it); only
// Process and the final report depend on its shape.
type Accumulator struct {
	GlobalSymbolsResolved int
	SymbolsCopyRelocated  int

	loadedSections  *sortedSet
	exportedSymbols *sortedSet
}

func newAccumulator() *Accumulator {
	return &Accumulator{
		loadedSections:  newSortedSet(),
		exportedSymbols: newSortedSet(),
	}
}

// LoadedSections returns every section id marked live, in sorted order.
func (a *Accumulator) LoadedSections() []string {
	return a.loadedSections.Items()
}

// ExportedSymbols returns every symbol id flagged for dynamic export, in
// sorted order.
func (a *Accumulator) ExportedSymbols() []string {
	return a.exportedSymbols.Items()
}

// GroupState owns one group's input files, its LocalWorkQueue, and its
// output accumulator. Exactly one goroutine may mutate a GroupState at a
// time; that exclusion is enforced structurally by the slot protocol
// (see slot.go), not by a lock on GroupState itself.
type GroupState struct {
	ID    int
	Files []*objfile.FileLayout

	Queue LocalWorkQueue
	Acc   *Accumulator

	// seenSections records the sections this group has already marked
	// loaded; it is GroupState-private, same exclusivity rules as
	// everything else here.
	seenSections map[objfile.SectionID]bool
}

// NewGroupState constructs an unactivated GroupState for the given files.
// Seeding its LocalWorkQueue is the job of Activation, not this
// constructor, since activation may itself run in parallel across groups.
func NewGroupState(id int, files []*objfile.FileLayout) *GroupState {
	return &GroupState{
		ID:           id,
		Files:        files,
		Acc:          newAccumulator(),
		seenSections: map[objfile.SectionID]bool{},
	}
}

// MarkSectionLoaded records that sec is now live for this group, reporting
// whether this is the first time (callers use this to avoid double work).
func (g *GroupState) MarkSectionLoaded(sec objfile.SectionID) bool {
	if g.seenSections[sec] {
		return false
	}

	g.seenSections[sec] = true
	g.Acc.loadedSections.Add(string(sec))

	return true
}
