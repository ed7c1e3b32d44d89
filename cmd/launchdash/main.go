// launchdash serves the SpaceX launch records dashboard.
//
// Usage:
//
//	launchdash serve [--config <file>] [--data <dataset>] [--addr <host:port>] [--step <kg>]
//	launchdash summary [--data <dataset>] [--site <site>] [--lo <kg>] [--hi <kg>]
//	launchdash validate [--data <dataset>]
//	launchdash test <scenarios-dir> [--update] [--filter <glob>]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/launchdash/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Command errors were already reported through the output formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
