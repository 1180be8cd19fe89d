package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gocitations/internal/configloader"
	"github.com/yaklabco/gocitations/pkg/fsutil"
	"github.com/yaklabco/gocitations/pkg/plugin"
	"github.com/yaklabco/gocitations/pkg/runner"
)

// Exit codes for gocitations.
const (
	// ExitSuccess indicates nothing needed changing or all changes were written.
	ExitSuccess = 0

	// ExitChangesNeeded indicates --check found files that would change, or
	// some files could not be processed.
	ExitChangesNeeded = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors that select an exit code.
var (
	// ErrChangesNeeded signals that --check found pending changes.
	ErrChangesNeeded = errors.New("changes needed")

	// ErrFilesFailed signals that at least one file could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrUsage wraps command-line usage errors.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrChangesNeeded), errors.Is(err, ErrFilesFailed):
		return ExitChangesNeeded
	case errors.Is(err, ErrUsage),
		errors.Is(err, plugin.ErrUnknownTrigger),
		errors.Is(err, plugin.ErrTriggerUnavailable):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, runner.ErrWriteFailure):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSignal reports whether err only carries an exit status and should not be
// logged as a failure.
func IsSignal(err error) bool {
	return errors.Is(err, ErrChangesNeeded)
}
