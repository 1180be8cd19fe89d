package plugin_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocitations/pkg/mdscope"
	"github.com/yaklabco/gocitations/pkg/plugin"
	"github.com/yaklabco/gocitations/pkg/rewrite"
	"github.com/yaklabco/gocitations/pkg/settings"
)

func newLoaded(t *testing.T, opts plugin.Options) *plugin.Plugin {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = log.New(&bytes.Buffer{})
	}
	plug := plugin.New(opts)
	require.NoError(t, plug.Load(context.Background()))
	return plug
}

func TestFire_AllTriggersAgree(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Det sa han,''",
		`Det var en "bok"`,
		"Kalle's bil",
		"“hej”",
		`mamma,"sa hon"`,
	}

	plug := newLoaded(t, plugin.Options{Platform: plugin.PlatformDesktop})

	for _, input := range inputs {
		want, _ := rewrite.Apply(input)
		for _, trigger := range plugin.AllTriggers() {
			editor := plugin.NewBufferEditor(input)
			outcome, err := plug.Fire(context.Background(), trigger, plugin.NewStaticHost(editor))
			require.NoError(t, err)

			assert.Equal(t, want, editor.Value(), "trigger %s input %q", trigger, input)
			assert.True(t, outcome.Changed)
			assert.Equal(t, trigger, outcome.Trigger)
		}
	}
}

func TestFire_NoChangesNotifies(t *testing.T) {
	t.Parallel()

	plug := newLoaded(t, plugin.Options{})
	editor := plugin.NewBufferEditor("Kalles bil")
	host := plugin.NewStaticHost(editor)

	outcome, err := plug.Fire(context.Background(), plugin.TriggerCommand, host)
	require.NoError(t, err)

	assert.False(t, outcome.Changed)
	assert.Zero(t, outcome.Substitutions())
	assert.Equal(t, []string{plugin.NoChangesNotice}, host.Notices())
	assert.Zero(t, editor.Writes(), "unchanged documents are not written back")
}

func TestFire_ChangedDoesNotNotify(t *testing.T) {
	t.Parallel()

	plug := newLoaded(t, plugin.Options{})
	editor := plugin.NewBufferEditor("Kalle's bil")
	host := plugin.NewStaticHost(editor)

	outcome, err := plug.Fire(context.Background(), plugin.TriggerFileMenu, host)
	require.NoError(t, err)

	assert.True(t, outcome.Changed)
	assert.Equal(t, 1, outcome.Substitutions())
	assert.Empty(t, host.Notices())
	assert.Equal(t, 1, editor.Writes())
}

func TestFire_Errors(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		loaded  bool
		opts    plugin.Options
		trigger plugin.Trigger
		host    plugin.Host
		ctx     context.Context
		wantErr error
	}{
		{
			name:    "not loaded",
			trigger: plugin.TriggerCommand,
			host:    plugin.NewStaticHost(plugin.NewBufferEditor("x")),
			ctx:     context.Background(),
			wantErr: plugin.ErrNotLoaded,
		},
		{
			name:    "unknown trigger",
			loaded:  true,
			trigger: plugin.Trigger("hotkey"),
			host:    plugin.NewStaticHost(plugin.NewBufferEditor("x")),
			ctx:     context.Background(),
			wantErr: plugin.ErrUnknownTrigger,
		},
		{
			name:    "ribbon on mobile",
			loaded:  true,
			opts:    plugin.Options{Platform: plugin.PlatformMobile},
			trigger: plugin.TriggerRibbon,
			host:    plugin.NewStaticHost(plugin.NewBufferEditor("x")),
			ctx:     context.Background(),
			wantErr: plugin.ErrTriggerUnavailable,
		},
		{
			name:    "no active editor",
			loaded:  true,
			trigger: plugin.TriggerCommand,
			host:    plugin.NewStaticHost(nil),
			ctx:     context.Background(),
			wantErr: plugin.ErrNoActiveEditor,
		},
		{
			name:    "cancelled context",
			loaded:  true,
			trigger: plugin.TriggerCommand,
			host:    plugin.NewStaticHost(plugin.NewBufferEditor("x")),
			ctx:     cancelled,
			wantErr: context.Canceled,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := testCase.opts
			opts.Logger = log.New(&bytes.Buffer{})
			plug := plugin.New(opts)
			if testCase.loaded {
				require.NoError(t, plug.Load(context.Background()))
			}

			_, err := plug.Fire(testCase.ctx, testCase.trigger, testCase.host)
			require.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestLoad_Unload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	plug := plugin.New(plugin.Options{Logger: logger})

	assert.False(t, plug.Loaded())
	assert.Empty(t, plug.Triggers())

	require.NoError(t, plug.Load(context.Background()))
	require.NoError(t, plug.Load(context.Background()))
	assert.True(t, plug.Loaded())
	assert.Len(t, plug.Triggers(), 3)
	assert.Contains(t, buf.String(), "loading")

	plug.Unload()
	assert.False(t, plug.Loaded())
	assert.Empty(t, plug.Triggers())
	assert.Contains(t, buf.String(), "unloading")

	_, err := plug.Fire(context.Background(), plugin.TriggerCommand,
		plugin.NewStaticHost(plugin.NewBufferEditor("'")))
	require.ErrorIs(t, err, plugin.ErrNotLoaded)
}

func TestTriggers(t *testing.T) {
	t.Parallel()

	desktop := newLoaded(t, plugin.Options{Platform: plugin.PlatformDesktop}).Triggers()
	require.Len(t, desktop, 3)
	assert.Equal(t, plugin.TriggerCommand, desktop[0].Trigger)
	assert.Equal(t, "ersatt-typografiska tecken", desktop[0].ID)
	assert.Equal(t, plugin.TriggerRibbon, desktop[1].Trigger)
	assert.Equal(t, plugin.TriggerFileMenu, desktop[2].Trigger)
	for _, reg := range desktop {
		assert.Equal(t, "Ersätt typografiska tecken", reg.Title)
		assert.Equal(t, "quote-glyph", reg.Icon)
	}

	mobile := newLoaded(t, plugin.Options{Platform: plugin.PlatformMobile}).Triggers()
	require.Len(t, mobile, 2)
	assert.Equal(t, plugin.TriggerCommand, mobile[0].Trigger)
	assert.Equal(t, plugin.TriggerFileMenu, mobile[1].Trigger)
}

func TestParseTrigger(t *testing.T) {
	t.Parallel()

	trigger, err := plugin.ParseTrigger("file-menu")
	require.NoError(t, err)
	assert.Equal(t, plugin.TriggerFileMenu, trigger)

	_, err = plugin.ParseTrigger("Ribbon")
	require.ErrorIs(t, err, plugin.ErrUnknownTrigger)
}

func TestSettings(t *testing.T) {
	t.Parallel()

	store := &settings.MemoryStore{}
	plug := newLoaded(t, plugin.Options{Store: store})
	assert.Equal(t, settings.DefaultMySetting, plug.Settings().MySetting)

	require.NoError(t, plug.UpdateSetting(context.Background(), "annat"))
	assert.Equal(t, "annat", plug.Settings().MySetting)
	assert.Equal(t, 1, store.Saves())

	reloaded := newLoaded(t, plugin.Options{Store: store})
	assert.Equal(t, "annat", reloaded.Settings().MySetting)
}

func TestSettings_DoNotAffectRewriting(t *testing.T) {
	t.Parallel()

	plug := newLoaded(t, plugin.Options{})
	input := `Han sa,'' och hon sa "nej," igen`

	before := plugin.NewBufferEditor(input)
	_, err := plug.Rewrite(context.Background(), before)
	require.NoError(t, err)

	require.NoError(t, plug.UpdateSetting(context.Background(), "något helt annat"))

	after := plugin.NewBufferEditor(input)
	_, err = plug.Rewrite(context.Background(), after)
	require.NoError(t, err)

	assert.Equal(t, before.Value(), after.Value())
}

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) (settings.Settings, error) {
	return settings.Settings{}, f.err
}

func (f failingStore) Save(context.Context, settings.Settings) error { return f.err }

func TestSettings_StoreErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	storeErr := errors.New("disk full")
	plug := plugin.New(plugin.Options{
		Store:  failingStore{err: storeErr},
		Logger: log.New(&buf),
	})

	require.ErrorIs(t, plug.Load(context.Background()), storeErr)
	assert.False(t, plug.Loaded())
	assert.NotContains(t, buf.String(), "loading", "settings are read before the load is logged")

	err := plug.UpdateSetting(context.Background(), "x")
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, settings.DefaultMySetting, plug.Settings().MySetting)
}

func TestFire_WithCodeGuard(t *testing.T) {
	t.Parallel()

	guard := mdscope.New(rewrite.Default(), mdscope.FlavorGFM)
	plug := newLoaded(t, plugin.Options{Rewriter: guard})

	editor := plugin.NewBufferEditor("Kalle's `'kod'`\n")
	outcome, err := plug.Fire(context.Background(), plugin.TriggerRibbon, plugin.NewStaticHost(editor))
	require.NoError(t, err)

	assert.True(t, outcome.Changed)
	assert.Equal(t, "Kalle’s `'kod'`\n", editor.Value())
}
