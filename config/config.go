// Package config loads and saves forgelink's run configuration: pool
// size, the report threshold, the output directory, and logging
// verbosity.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alecthomas/units"
	"github.com/pkg/errors"

	"github.com/forgelink/forgelink/internal/atomicfile"
)

// Config is forgelink's persisted run configuration.
type Config struct {
	// Threads is the size of the scheduler's goroutine pool. Zero means
	// "use GOMAXPROCS" (see ApplyDefaults).
	Threads int `json:"threads,omitempty"`

	// ReportThreshold suppresses the per-group loaded-sections line of the
	// text report for groups whose section weight (the summed length of
	// their loaded section ids) is smaller than this many bytes; the
	// group's summary line is always printed.
	ReportThreshold units.Base2Bytes `json:"reportThreshold,omitempty"`

	// OutputDir is where the run lock file (and, with --cpuprofile, the CPU
	// profile) is written. The report itself goes to standard output.
	OutputDir string `json:"outputDir,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// ApplyDefaults returns a copy of c with zero-valued fields filled out.
func (c Config) ApplyDefaults() Config {
	if c.Threads == 0 {
		c.Threads = runtime.GOMAXPROCS(0)
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	return c
}

// Override returns a copy of c with any field set in other taking
// precedence over c, left to right.
func (c Config) Override(other Config) Config {
	if other.Threads != 0 {
		c.Threads = other.Threads
	}

	if other.ReportThreshold != 0 {
		c.ReportThreshold = other.ReportThreshold
	}

	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}

	if other.Verbose {
		c.Verbose = other.Verbose
	}

	return c
}

// Load reads a Config from the given JSON file.
func Load(filename string) (*Config, error) {
	f, err := os.Open(filename) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "error loading config file")
	}
	defer f.Close() //nolint:errcheck,gosec

	var c Config

	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "error decoding config json")
	}

	return &c, nil
}

// Save writes c to the given JSON file atomically.
func Save(filename string, c *Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding config json")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o700); err != nil {
		return errors.Wrap(err, "unable to create config directory")
	}

	return atomicfile.Write(filename, bytes.NewReader(b))
}

// DefaultPath returns the default config file location under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "forgelink.config.json")
}

// contextKey is unexported to keep WithContext/FromContext the sole
// accessors, following the same pattern as internal/logging.
type contextKey struct{}

// WithContext attaches c to ctx for handlers that need ambient access to
// run configuration (e.g. report formatting deep in a call stack).
func WithContext(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the Config attached by WithContext, or nil if
// none was attached.
func FromContext(ctx context.Context) *Config {
	c, _ := ctx.Value(contextKey{}).(*Config)
	return c
}
