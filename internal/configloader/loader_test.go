package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gocitations/pkg/config"
)

func isolatedOptions(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		Environment:        map[string]string{},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, result.Config.Flavor)
	}
	if len(result.Config.Extensions) != 3 {
		t.Errorf("expected default extensions, got %v", result.Config.Extensions)
	}
	if !result.Config.Backups.Enabled {
		t.Error("backups should be enabled by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gocitations.yml"), `
flavor: gfm
preserve_code: true
extensions: [".md"]
backups:
  enabled: false
`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor gfm, got %q", cfg.Flavor)
	}
	if !cfg.PreserveCode {
		t.Error("expected preserve_code from project config")
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".md" {
		t.Errorf("expected [.md], got %v", cfg.Extensions)
	}
	if cfg.Backups.Enabled {
		t.Error("a config file must be able to disable backups")
	}
	if cfg.Backups.Mode != config.BackupModeSidecar {
		t.Errorf("absent keys keep defaults, got mode %q", cfg.Backups.Mode)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected one loaded file, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfigSearchesUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ".gocitations.yml"), "preserve_code: true\n")

	nested := filepath.Join(root, "docs", "kapitel")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolatedOptions(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !result.Config.PreserveCode {
		t.Error("expected project config found in ancestor directory")
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gocitations.yml"), "flavor: gfm\nignore: [\"a/**\"]\n")

	explicit := filepath.Join(tmpDir, "explicit.yml")
	writeFile(t, explicit, "flavor: commonmark\nbackups:\n  mode: none\n")

	opts := isolatedOptions(tmpDir)
	opts.ExplicitPath = explicit
	opts.Environment = map[string]string{
		"GOCITATIONS_IGNORE": "b/**, c/**",
		"GOCITATIONS_JOBS":   "3",
	}
	opts.CLIConfig = &config.Config{Jobs: 7, DryRun: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Flavor != config.FlavorCommonMark {
		t.Errorf("explicit config should override project, got %q", cfg.Flavor)
	}
	if cfg.Backups.Mode != config.BackupModeNone {
		t.Errorf("expected backup mode none, got %q", cfg.Backups.Mode)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "b/**" || cfg.Ignore[1] != "c/**" {
		t.Errorf("environment should override files, got %v", cfg.Ignore)
	}
	if cfg.Jobs != 7 {
		t.Errorf("CLI should override environment, got jobs=%d", cfg.Jobs)
	}
	if !cfg.DryRun {
		t.Error("expected dry run from CLI")
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != explicit {
		t.Errorf("unexpected load order %v", result.LoadedFrom)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gocitations.yml"), "flavor: markdown\n")

	_, err := Load(context.Background(), isolatedOptions(tmpDir))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "flavor" {
		t.Errorf("expected flavor field, got %q", validationErr.Field)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gocitations.yml"), "extensions: [\n")

	if _, err := Load(context.Background(), isolatedOptions(tmpDir)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yml")

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := LoadFromEnv(cfg, map[string]string{
		"GOCITATIONS_EXTENSIONS":      ".md,.txt",
		"GOCITATIONS_PRESERVE_CODE":   "true",
		"GOCITATIONS_FLAVOR":          "gfm",
		"GOCITATIONS_BACKUPS_ENABLED": "false",
		"GOCITATIONS_SETTINGS_FILE":   "/tmp/s.yml",
	})
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if len(cfg.Extensions) != 2 || cfg.Extensions[1] != ".txt" {
		t.Errorf("unexpected extensions %v", cfg.Extensions)
	}
	if !cfg.PreserveCode || cfg.Flavor != config.FlavorGFM {
		t.Error("expected preserve_code and gfm from env")
	}
	if cfg.Backups.Enabled {
		t.Error("expected backups disabled from env")
	}
	if cfg.Backups.Mode != config.BackupModeSidecar {
		t.Error("unset variables must not change config")
	}
	if cfg.SettingsFile != "/tmp/s.yml" {
		t.Errorf("unexpected settings file %q", cfg.SettingsFile)
	}
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := LoadFromEnv(cfg, map[string]string{"GOCITATIONS_JOBS": "many"})
	if err == nil {
		t.Fatal("expected error for non-integer jobs")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantField string
	}{
		{"valid defaults", func(*config.Config) {}, ""},
		{"bad format", func(c *config.Config) { c.Format = "sarif" }, "format"},
		{"negative jobs", func(c *config.Config) { c.Jobs = -1 }, "jobs"},
		{"bad backup mode", func(c *config.Config) { c.Backups.Mode = "xdg" }, "backups.mode"},
		{"extension without dot", func(c *config.Config) { c.Extensions = []string{"md"} }, "extensions[0]"},
		{"bad glob", func(c *config.Config) { c.Ignore = []string{"[a-"} }, "ignore[0]"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			testCase.mutate(cfg)
			result := Validate(cfg)

			if testCase.wantField == "" {
				if !result.Valid() {
					t.Fatalf("expected valid config, got %v", result.Errors)
				}
				return
			}
			if result.Valid() {
				t.Fatal("expected validation error")
			}
			if result.Errors[0].Field != testCase.wantField {
				t.Errorf("expected field %q, got %q", testCase.wantField, result.Errors[0].Field)
			}
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Flavor = "x"
	result := ValidateWithFile(cfg, "/etc/gocitations/config.yaml")
	if result.Valid() {
		t.Fatal("expected error")
	}
	if got := result.Errors[0].Error(); got != `/etc/gocitations/config.yaml: flavor: invalid flavor "x"; must be one of: commonmark, gfm` {
		t.Errorf("unexpected message %q", got)
	}
}

func TestMerge_CLILayer(t *testing.T) {
	t.Parallel()

	if merge(nil, nil) != nil {
		t.Error("merge(nil, nil) should be nil")
	}

	base := config.NewConfig()
	merged := merge(merge(base, &config.Config{Ignore: []string{"x/**"}}),
		&config.Config{Check: true, FollowSymlinks: true, Format: config.FormatJSON})
	if len(merged.Ignore) != 1 || !merged.Check || !merged.FollowSymlinks || merged.Format != config.FormatJSON {
		t.Errorf("unexpected merge result %+v", merged)
	}
	if merged.Flavor != config.FlavorCommonMark {
		t.Error("zero values must not override")
	}
	if base.Check || base.Ignore != nil {
		t.Error("merge must not modify its base")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	for _, name := range []string{
		"GOCITATIONS_EXTENSIONS", "GOCITATIONS_IGNORE", "GOCITATIONS_PRESERVE_CODE",
		"GOCITATIONS_FLAVOR", "GOCITATIONS_BACKUPS_ENABLED", "GOCITATIONS_BACKUPS_MODE",
		"GOCITATIONS_SETTINGS_FILE", "GOCITATIONS_JOBS",
	} {
		if vars[name] == "" {
			t.Errorf("missing description for %s", name)
		}
	}
	if len(vars) != 8 {
		t.Errorf("got %d variables, want 8", len(vars))
	}
}
