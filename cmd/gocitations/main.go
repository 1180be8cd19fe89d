// Package main is the entry point for the gocitations CLI.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/yaklabco/gocitations/internal/cli"
	"github.com/yaklabco/gocitations/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Default()

	// The fix worker pool defaults to GOMAXPROCS; match it to the CPU quota.
	undo, err := maxprocs.Set(maxprocs.Logger(logger.Debugf))
	if err != nil {
		logger.Warn("failed to set GOMAXPROCS", logging.FieldError, err)
	}
	defer undo()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		if !cli.IsSignal(err) {
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
