// Package config defines the configuration types for gocitations.
// These are pure data structures; discovery and merging live in configloader.
package config

// BackupMode names where backups are written.
type BackupMode string

const (
	BackupModeSidecar BackupMode = "sidecar"
	BackupModeNone    BackupMode = "none"
)

// BackupsConfig controls backup behavior when rewriting files.
type BackupsConfig struct {
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Mode    BackupMode `json:"mode"    yaml:"mode"`
}

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Flavor is the Markdown dialect used to find code when PreserveCode is set.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid reports whether f is a known flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// Config is the root configuration structure.
type Config struct {
	// Extensions lists the file extensions rewritten when walking directories.
	Extensions []string `json:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `json:"ignore" yaml:"ignore"`

	// PreserveCode leaves code blocks, code spans and raw HTML untouched.
	PreserveCode bool `json:"preserve_code" yaml:"preserve_code"`

	// Flavor selects the Markdown dialect for PreserveCode.
	Flavor Flavor `json:"flavor" yaml:"flavor"`

	// Backups configures backups of rewritten files.
	Backups BackupsConfig `json:"backups" yaml:"backups"`

	// SettingsFile overrides where plugin settings are stored.
	SettingsFile string `json:"settings_file,omitempty" yaml:"settings_file,omitempty"`

	// CLI-level options (not persisted to config files).

	// DryRun prints the diff without writing.
	DryRun bool `json:"-" yaml:"-"`

	// Check reports files that would change without writing.
	Check bool `json:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `json:"-" yaml:"-"`

	// Jobs is the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `json:"-" yaml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `json:"-" yaml:"-"`

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool `json:"-" yaml:"-"`
}

// DefaultExtensions returns the extensions rewritten by default.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".txt"}
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: DefaultExtensions(),
		Ignore:     nil,
		Flavor:     FlavorCommonMark,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupModeSidecar,
		},
		Format: FormatText,
		Jobs:   0,
	}
}

// BackupsEnabled reports whether rewrites should leave a backup behind.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != BackupModeNone
}
