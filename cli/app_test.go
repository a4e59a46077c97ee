package cli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/cli"
)

func TestVersionCommandRuns(t *testing.T) {
	app := cli.NewApp()

	err := app.Run(context.Background(), []string{"version"})
	require.NoError(t, err)
}

func TestResolveCommandRequiresManifestArg(t *testing.T) {
	app := cli.NewApp()

	err := app.Run(context.Background(), []string{"resolve"})
	require.Error(t, err)
}
