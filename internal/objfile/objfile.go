// Package objfile models the output of a parsed input object file.
//
// Real parsing (ELF/Mach-O/PE symbol tables, section headers, relocation
// entries) is out of scope for this module: the scheduler only needs
// something concrete to own and traverse. FileLayout and friends are that
// something, built directly from the symbol and relocation references a
// group's files are seeded with.
package objfile

// SymbolID names a global symbol. It is opaque to the scheduler: two
// symbols with the same ID are the same symbol, nothing more is assumed.
type SymbolID string

// SectionID names a section within a file.
type SectionID string

// SymbolRef is a reference from one symbol to another, discovered while
// resolving or copy-relocating the referring symbol.
type SymbolRef struct {
	Symbol SymbolID
	Group  int
}

// Relocation names a section that must be loaded because some processed
// symbol requires it.
type Relocation struct {
	Section SectionID
	Group   int
}

// Symbol is the definition of one global symbol as it appears in a
// FileLayout: which section backs it, what it references, and whether it
// is also requested for dynamic export.
type Symbol struct {
	ID          SymbolID
	Section     SectionID
	References  []SymbolRef
	Relocations []Relocation
	Dynamic     bool
}

// FileLayout is the minimal parsed representation of one input object
// file: the symbols it defines and the sections it contains.
type FileLayout struct {
	// Name is a human-readable label for diagnostics (e.g. "libfoo.o").
	Name string

	// Symbols are the global symbols defined in this file, keyed by ID
	// for the seed procedure's convenience.
	Symbols map[SymbolID]*Symbol

	// Sections lists every section this file contributes, independent of
	// whether any symbol ends up requiring it.
	Sections []SectionID
}

// NewFileLayout returns an empty FileLayout ready to have symbols added.
func NewFileLayout(name string) *FileLayout {
	return &FileLayout{
		Name:    name,
		Symbols: map[SymbolID]*Symbol{},
	}
}

// AddSymbol registers sym as defined in this file.
func (f *FileLayout) AddSymbol(sym *Symbol) {
	f.Symbols[sym.ID] = sym
	f.Sections = append(f.Sections, sym.Section)
}
