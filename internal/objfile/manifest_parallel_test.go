package objfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/internal/objfile"
)

const manifestA = `{"groups":[{"files":[{"name":"a.o","symbols":[{"id":"a_main","section":"text.a"}]}]}]}`
const manifestB = `{"groups":[{"files":[{"name":"b.o","symbols":[{"id":"b_main","section":"text.b"}]}]}]}`

func TestLoadManifestsParallelMerges(t *testing.T) {
	dir := t.TempDir()

	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(pathA, []byte(manifestA), 0o600))
	require.NoError(t, os.WriteFile(pathB, []byte(manifestB), 0o600))

	merged, err := objfile.LoadManifestsParallel([]string{pathA, pathB}, 4)
	require.NoError(t, err)
	require.Len(t, merged.Groups, 2)

	layouts := merged.Layouts()
	require.Len(t, layouts, 2)
	_, ok := layouts[0][0].Symbols["a_main"]
	require.True(t, ok)
	_, ok = layouts[1][0].Symbols["b_main"]
	require.True(t, ok)
}

func TestLoadManifestsParallelInlineWithZeroWorkers(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(path, []byte(manifestA), 0o600))

	merged, err := objfile.LoadManifestsParallel([]string{path}, 0)
	require.NoError(t, err)
	require.Len(t, merged.Groups, 1)
}

func TestLoadManifestsParallelReportsErrors(t *testing.T) {
	merged, err := objfile.LoadManifestsParallel([]string{filepath.Join(t.TempDir(), "missing.json")}, 2)
	require.Error(t, err)
	require.Nil(t, merged)
}
