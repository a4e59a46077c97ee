// Command forgelink runs the concurrent symbol-resolution scheduler over
// a link-graph manifest.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/forgelink/forgelink/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "forgelink:", err)
		os.Exit(1)
	}
}
