package objfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/internal/objfile"
)

const sampleManifest = `{
  "groups": [
    {
      "files": [
        {
          "name": "a.o",
          "symbols": [
            {"id": "main", "section": "text.main", "references": [{"symbol": "helper", "group": 1}]}
          ]
        }
      ]
    },
    {
      "files": [
        {
          "name": "b.o",
          "symbols": [
            {"id": "helper", "section": "text.helper", "dynamic": true}
          ]
        }
      ]
    }
  ]
}`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	m, err := objfile.LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Groups, 2)

	layouts := m.Layouts()
	require.Len(t, layouts, 2)
	require.Len(t, layouts[0], 1)

	main, ok := layouts[0][0].Symbols["main"]
	require.True(t, ok)
	require.Equal(t, objfile.SectionID("text.main"), main.Section)

	if diff := cmp.Diff([]objfile.SymbolRef{{Symbol: "helper", Group: 1}}, main.References); diff != "" {
		t.Errorf("references mismatch (-want +got):\n%s", diff)
	}

	helper, ok := layouts[1][0].Symbols["helper"]
	require.True(t, ok)
	require.True(t, helper.Dynamic)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := objfile.LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadManifestInvalidJSON(t *testing.T) {
	path := writeManifest(t, "{not json")

	_, err := objfile.LoadManifest(path)
	require.Error(t, err)
}
