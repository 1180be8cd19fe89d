// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldFlavor       = "flavor"
	FieldPreserveCode = "preserve_code"
	FieldDryRun       = "dry_run"
	FieldCheck        = "check"
	FieldJobs         = "jobs"
	FieldTrigger      = "trigger"
	FieldPlatform     = "platform"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesErrored    = "files_errored"
	FieldSubstitutions   = "substitutions"
	FieldBackup          = "backup"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
