package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/forgelink/forgelink/internal/logging"
)

func TestGetContextLoggerFuncUsesAttachedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	ctx := logging.WithContext(context.Background(), l)

	log := logging.GetContextLoggerFunc("widget")
	log(ctx).Infof("hello %s", "world")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "widget", logs.All()[0].LoggerName)
}

func TestGetContextLoggerFuncFallsBackWithoutContext(t *testing.T) {
	log := logging.GetContextLoggerFunc("widget")
	require.NotPanics(t, func() {
		log(context.Background()).Debugf("no attached logger")
	})
}
