package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/units"
	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/config"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := config.DefaultPath(dir)

	want := &config.Config{
		Threads:         4,
		ReportThreshold: units.Base2Bytes(1024),
		OutputDir:       dir,
		Verbose:         true,
	}

	require.NoError(t, config.Save(path, want))

	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestApplyDefaults(t *testing.T) {
	c := config.Config{}.ApplyDefaults()

	require.NotZero(t, c.Threads)
	require.Equal(t, ".", c.OutputDir)
}

func TestOverride(t *testing.T) {
	base := config.Config{Threads: 2, OutputDir: "/base"}
	over := config.Config{Threads: 8}

	merged := base.Override(over)

	require.Equal(t, 8, merged.Threads)
	require.Equal(t, "/base", merged.OutputDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestWithContextRoundTrip(t *testing.T) {
	require.Nil(t, config.FromContext(context.Background()))

	c := &config.Config{Threads: 3}
	ctx := config.WithContext(context.Background(), c)

	require.Same(t, c, config.FromContext(ctx))
}
