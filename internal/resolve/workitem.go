package resolve

import "github.com/forgelink/forgelink/internal/objfile"

// Kind tags the four cases of WorkItem.
type Kind int

const (
	// LoadGlobalSymbol resolves a global symbol reference against the
	// symbol database and enqueues whatever following it requires.
	LoadGlobalSymbol Kind = iota
	// CopyRelocateSymbol performs (a stand-in for) the copy relocation of
	// a resolved symbol.
	CopyRelocateSymbol
	// LoadSection marks a section live so it is kept in the final output.
	LoadSection
	// ExportDynamic flags a symbol for inclusion in the dynamic symbol
	// table.
	ExportDynamic
)

// String renders k for logs and test failure messages.
func (k Kind) String() string {
	switch k {
	case LoadGlobalSymbol:
		return "LoadGlobalSymbol"
	case CopyRelocateSymbol:
		return "CopyRelocateSymbol"
	case LoadSection:
		return "LoadSection"
	case ExportDynamic:
		return "ExportDynamic"
	default:
		return "Unknown"
	}
}

// WorkItem is one unit of traversal work. It is cheap to copy and carries
// only an opaque identifier understood by Process; the scheduler never
// inspects Symbol or Section beyond routing the item to its owning group.
type WorkItem struct {
	Kind    Kind
	Symbol  objfile.SymbolID
	Section objfile.SectionID
}

// LoadGlobalSymbolItem builds a LoadGlobalSymbol work item.
func LoadGlobalSymbolItem(sym objfile.SymbolID) WorkItem {
	return WorkItem{Kind: LoadGlobalSymbol, Symbol: sym}
}

// CopyRelocateSymbolItem builds a CopyRelocateSymbol work item.
func CopyRelocateSymbolItem(sym objfile.SymbolID) WorkItem {
	return WorkItem{Kind: CopyRelocateSymbol, Symbol: sym}
}

// LoadSectionItem builds a LoadSection work item.
func LoadSectionItem(sec objfile.SectionID) WorkItem {
	return WorkItem{Kind: LoadSection, Section: sec}
}

// ExportDynamicItem builds an ExportDynamic work item.
func ExportDynamicItem(sym objfile.SymbolID) WorkItem {
	return WorkItem{Kind: ExportDynamic, Symbol: sym}
}
