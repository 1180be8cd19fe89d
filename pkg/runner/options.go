// Package runner rewrites many files concurrently through the plugin.
package runner

import (
	"github.com/yaklabco/gocitations/pkg/config"
	"github.com/yaklabco/gocitations/pkg/fsutil"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// when walking directories. Explicitly named files must match too.
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// IncludeVendored disables skipping of vendored directories such as
	// node_modules during directory walks.
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	// Each real directory is walked at most once, so link cycles end.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.GOMAXPROCS(0).
	Jobs int

	// DryRun computes diffs without writing.
	DryRun bool

	// Check reports files that would change without writing.
	Check bool

	// Backup configures backups made before each write.
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes a file before writing it back.
	StrictRaceDetection bool
}

// OptionsFromConfig builds run options from resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:          paths,
		Extensions:     cfg.Extensions,
		ExcludeGlobs:   cfg.Ignore,
		Jobs:           cfg.Jobs,
		FollowSymlinks: cfg.FollowSymlinks,
		DryRun:         cfg.DryRun,
		Check:          cfg.Check,
		Backup: fsutil.BackupConfig{
			Enabled: cfg.BackupsEnabled(),
			Mode:    fsutil.BackupMode(cfg.Backups.Mode),
		},
		StrictRaceDetection: true,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// writes reports whether changed files are written back.
func (o Options) writes() bool {
	return !o.DryRun && !o.Check
}
