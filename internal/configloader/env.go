package configloader

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/yaklabco/gocitations/pkg/config"
)

// envVarPrefix is the prefix for all gocitations environment variables.
const envVarPrefix = "GOCITATIONS_"

// envOverlay holds the settable environment variables. Pointer and empty
// values mean the variable was not set.
type envOverlay struct {
	Extensions     []string `env:"EXTENSIONS"      envSeparator:","`
	Ignore         []string `env:"IGNORE"          envSeparator:","`
	PreserveCode   *bool    `env:"PRESERVE_CODE"`
	Flavor         string   `env:"FLAVOR"`
	BackupsEnabled *bool    `env:"BACKUPS_ENABLED"`
	BackupsMode    string   `env:"BACKUPS_MODE"`
	SettingsFile   string   `env:"SETTINGS_FILE"`
	Jobs           *int     `env:"JOBS"`
}

// LoadFromEnv applies GOCITATIONS_* overrides to cfg. A nil environ reads
// the process environment.
func LoadFromEnv(cfg *config.Config, environ map[string]string) error {
	if cfg == nil {
		return nil
	}

	var overlay envOverlay
	opts := env.Options{Prefix: envVarPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&overlay, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	overlay.apply(cfg)
	return nil
}

func (o *envOverlay) apply(cfg *config.Config) {
	if o.Extensions != nil {
		cfg.Extensions = trimAll(o.Extensions)
	}
	if o.Ignore != nil {
		cfg.Ignore = trimAll(o.Ignore)
	}
	if o.PreserveCode != nil {
		cfg.PreserveCode = *o.PreserveCode
	}
	if o.Flavor != "" {
		cfg.Flavor = config.Flavor(o.Flavor)
	}
	if o.BackupsEnabled != nil {
		cfg.Backups.Enabled = *o.BackupsEnabled
	}
	if o.BackupsMode != "" {
		cfg.Backups.Mode = config.BackupMode(o.BackupsMode)
	}
	if o.SettingsFile != "" {
		cfg.SettingsFile = o.SettingsFile
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
}

// ListEnvVars returns every supported environment variable with a description.
func ListEnvVars() map[string]string {
	return map[string]string{
		envVarPrefix + "EXTENSIONS":      "Comma-separated file extensions to rewrite",
		envVarPrefix + "IGNORE":          "Comma-separated list of ignore patterns",
		envVarPrefix + "PRESERVE_CODE":   "Leave code and raw HTML untouched: true or false",
		envVarPrefix + "FLAVOR":          "Markdown flavor: commonmark or gfm",
		envVarPrefix + "BACKUPS_ENABLED": "Enable backups when rewriting: true or false",
		envVarPrefix + "BACKUPS_MODE":    "Backup mode: sidecar or none",
		envVarPrefix + "SETTINGS_FILE":   "Path of the plugin settings file",
		envVarPrefix + "JOBS":            "Number of parallel workers (0 = auto)",
	}
}
