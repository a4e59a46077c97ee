// Package logging provides context-scoped structured loggers shared by
// every package in this module, backed by go.uber.org/zap.
//
// Callers declare one package-level logger function per package:
//
//	var log = logging.GetContextLoggerFunc("resolve")
//
// and log through it using the context in scope:
//
//	log(ctx).Debugf("dispatching %v for group %v", item, groupID)
package logging

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type contextKeyType string

const contextKey contextKeyType = "forgelink-logger"

var (
	baseMu sync.RWMutex
	base   = mustNewBase()
)

func mustNewBase() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on malformed config,
		// which cannot happen with the defaults above.
		panic(err)
	}

	return l
}

// WithContext returns a copy of ctx carrying l, to be picked up by every
// context-scoped logger obtained via GetContextLoggerFunc.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey, l)
}

// GetContextLoggerFunc returns a function that, given a context, returns a
// SugaredLogger scoped to the named module. If the context carries no
// logger (WithContext was never called), the module-level default is used.
func GetContextLoggerFunc(module string) func(ctx context.Context) *zap.SugaredLogger {
	return func(ctx context.Context) *zap.SugaredLogger {
		if ctx != nil {
			if l, ok := ctx.Value(contextKey).(*zap.Logger); ok && l != nil {
				return l.Named(module).Sugar()
			}
		}

		baseMu.RLock()
		defer baseMu.RUnlock()

		return base.Named(module).Sugar()
	}
}

// SetVerbose reconfigures the process-wide base logger to emit debug-level
// output, as requested by the --verbose CLI flag.
func SetVerbose(verbose bool) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
		cfg.Encoding = "console"
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	baseMu.Lock()
	base = l
	baseMu.Unlock()
}
