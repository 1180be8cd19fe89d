package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocitations/pkg/settings"
)

func TestFileStore_LoadMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()

	store := settings.NewFileStore(filepath.Join(t.TempDir(), "data.yml"))
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)
	assert.Equal(t, "default", got.MySetting)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "data.yml")
	store := settings.NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, settings.Settings{MySetting: "hemligt"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hemligt", got.MySetting)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "my_setting: hemligt")
}

func TestFileStore_MissingKeyKeepsDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.yml")
	require.NoError(t, os.WriteFile(path, []byte("other: value\n"), 0644))

	got, err := settings.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultMySetting, got.MySetting)
}

func TestFileStore_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.yml")
	require.NoError(t, os.WriteFile(path, []byte("my_setting: [unterminated\n"), 0644))

	_, err := settings.NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_EmptyPath(t *testing.T) {
	t.Parallel()

	store := settings.NewFileStore("")
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, settings.ErrEmptyPath)
	require.ErrorIs(t, store.Save(context.Background(), settings.Default()), settings.ErrEmptyPath)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	var store settings.MemoryStore
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)

	require.NoError(t, store.Save(ctx, settings.Settings{MySetting: "x"}))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got.MySetting)
	assert.Equal(t, 1, store.Saves())
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := settings.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gocitations", settings.DefaultFileName), path)
}
