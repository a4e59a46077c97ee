package objfile

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Manifest is the on-disk description of a link graph: real object-file
// parsing is out of scope, so forgelink's input is a JSON document naming
// the same data a parser would have produced.
type Manifest struct {
	Groups []ManifestGroup `json:"groups"`
}

// ManifestGroup is one group's files as they appear in a Manifest.
type ManifestGroup struct {
	Files []ManifestFile `json:"files"`
}

// ManifestFile is one FileLayout as it appears in a Manifest.
type ManifestFile struct {
	Name    string           `json:"name"`
	Symbols []ManifestSymbol `json:"symbols"`
}

// ManifestSymbol is one Symbol as it appears in a Manifest. References and
// Relocations name a symbol/section together with the group that owns it,
// as an absolute index into the manifest's groups; an omitted group
// decodes as 0, the first group.
type ManifestSymbol struct {
	ID          SymbolID        `json:"id"`
	Section     SectionID       `json:"section"`
	Dynamic     bool            `json:"dynamic,omitempty"`
	References  []ManifestRef   `json:"references,omitempty"`
	Relocations []ManifestReloc `json:"relocations,omitempty"`
}

// ManifestRef names a cross- or same-group symbol reference.
type ManifestRef struct {
	Symbol SymbolID `json:"symbol"`
	Group  int      `json:"group"`
}

// ManifestReloc names a cross- or same-group relocation target.
type ManifestReloc struct {
	Section SectionID `json:"section"`
	Group   int       `json:"group"`
}

// LoadManifest reads and decodes a Manifest from filename.
func LoadManifest(filename string) (*Manifest, error) {
	f, err := os.Open(filename) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "error opening manifest")
	}
	defer f.Close() //nolint:errcheck,gosec

	var m Manifest

	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "error decoding manifest json")
	}

	return &m, nil
}

// Layouts converts the manifest into per-group FileLayout slices, in the
// shape the scheduler's activation and symbol database expect.
func (m *Manifest) Layouts() [][]*FileLayout {
	out := make([][]*FileLayout, len(m.Groups))

	for gi, g := range m.Groups {
		files := make([]*FileLayout, len(g.Files))

		for fi, mf := range g.Files {
			fl := NewFileLayout(mf.Name)

			for _, ms := range mf.Symbols {
				fl.AddSymbol(&Symbol{
					ID:          ms.ID,
					Section:     ms.Section,
					Dynamic:     ms.Dynamic,
					References:  convertRefs(ms.References),
					Relocations: convertRelocs(ms.Relocations),
				})
			}

			files[fi] = fl
		}

		out[gi] = files
	}

	return out
}

func convertRefs(refs []ManifestRef) []SymbolRef {
	out := make([]SymbolRef, len(refs))
	for i, r := range refs {
		out[i] = SymbolRef{Symbol: r.Symbol, Group: r.Group}
	}

	return out
}

func convertRelocs(relocs []ManifestReloc) []Relocation {
	out := make([]Relocation, len(relocs))
	for i, r := range relocs {
		out[i] = Relocation{Section: r.Section, Group: r.Group}
	}

	return out
}
