package configloader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocitations/pkg/config"
)

// overlayFile decodes the YAML file at path over a copy of base. Keys present
// in the file replace base values, false and empty lists included; absent
// keys keep the base value.
func overlayFile(base *config.Config, path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result := base.Clone()
	if err := yaml.Unmarshal(content, result); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return result, nil
}

// merge combines two configurations, with override taking precedence.
// It is used for the CLI layer, where only explicitly set flags matter:
//   - Scalars: override wins if non-zero
//   - Booleans: override wins only if true
//   - Slices: override replaces base if non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.SettingsFile != "" {
		result.SettingsFile = override.SettingsFile
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	if override.PreserveCode {
		result.PreserveCode = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Check {
		result.Check = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return result
}

// trimAll trims whitespace from each element and drops empty ones.
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
