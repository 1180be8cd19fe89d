// Package settings holds the plugin's persisted settings.
//
// The only field, MySetting, is stored and reloaded but nothing reads it to
// change how documents are rewritten.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gocitations/pkg/fsutil"
)

// DefaultMySetting is the value used when nothing has been stored.
const DefaultMySetting = "default"

// DefaultFileName is the settings file name inside a settings directory.
const DefaultFileName = "data.yml"

// settingsDirPermissions is the mode for a newly created settings directory.
const settingsDirPermissions = 0o755

// ErrEmptyPath is returned by a FileStore without a path.
var ErrEmptyPath = errors.New("settings file path is empty")

// Settings is the persisted plugin state.
type Settings struct {
	MySetting string `yaml:"my_setting"`
}

// Default returns the settings used before anything is saved.
func Default() Settings {
	return Settings{MySetting: DefaultMySetting}
}

// Store loads and saves Settings.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// FileStore persists settings as YAML at Path.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the settings file. A missing file yields Default, and keys absent
// from the file keep their default values.
func (s *FileStore) Load(ctx context.Context) (Settings, error) {
	if s.Path == "" {
		return Settings{}, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", s.Path, err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", s.Path, err)
	}
	return loaded, nil
}

// Save writes the settings file atomically, creating its directory if needed.
func (s *FileStore) Save(ctx context.Context, settings Settings) error {
	if s.Path == "" {
		return ErrEmptyPath
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), settingsDirPermissions); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, s.Path, data, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// MemoryStore keeps settings in memory. The zero value is empty and loads
// Default.
type MemoryStore struct {
	mu     sync.Mutex
	stored *Settings
	saves  int
}

// Load returns the last saved settings, or Default.
func (m *MemoryStore) Load(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return Default(), nil
	}
	return *m.stored, nil
}

// Save records s.
func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = &s
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// DefaultPath returns the user-level settings file,
// $XDG_CONFIG_HOME/gocitations/data.yml (or ~/.config/gocitations/data.yml).
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gocitations", DefaultFileName), nil
}
