// Package plugin models the editor-host integration: lifecycle, triggers,
// settings and the single rewrite entry point they all share.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gocitations/pkg/rewrite"
	"github.com/yaklabco/gocitations/pkg/settings"
)

// Sentinel errors returned by Fire.
var (
	ErrNotLoaded          = errors.New("plugin not loaded")
	ErrUnknownTrigger     = errors.New("unknown trigger")
	ErrTriggerUnavailable = errors.New("trigger not available on this platform")
	ErrNoActiveEditor     = errors.New("no active editor")
)

// Rewriter turns a document into its normalized form.
// Both *rewrite.Engine and *mdscope.Guard implement it.
type Rewriter interface {
	Rewrite(ctx context.Context, document string) (rewrite.Result, error)
}

// Options configures a Plugin. Zero values select defaults.
type Options struct {
	// Rewriter applies the substitutions. Defaults to rewrite.Default().
	Rewriter Rewriter

	// Store persists settings. Defaults to an empty MemoryStore.
	Store settings.Store

	// Logger receives lifecycle messages. Defaults to log.Default().
	Logger *log.Logger

	// Platform selects which triggers exist. Defaults to desktop.
	Platform Platform
}

// Outcome describes one rewrite of an editor buffer.
type Outcome struct {
	Trigger Trigger
	Changed bool
	Counts  []rewrite.RuleCount
}

// Substitutions returns the total number of substitutions made.
func (o Outcome) Substitutions() int {
	return rewrite.Result{Counts: o.Counts}.Substitutions()
}

// Plugin is one loaded instance inside a host.
type Plugin struct {
	rewriter Rewriter
	store    settings.Store
	logger   *log.Logger
	platform Platform

	mu       sync.RWMutex
	loaded   bool
	settings settings.Settings
	triggers map[Trigger]Registration
}

// New creates an unloaded plugin.
func New(opts Options) *Plugin {
	plug := &Plugin{
		rewriter: opts.Rewriter,
		store:    opts.Store,
		logger:   opts.Logger,
		platform: opts.Platform,
		settings: settings.Default(),
	}
	if plug.rewriter == nil {
		plug.rewriter = rewrite.Default()
	}
	if plug.store == nil {
		plug.store = &settings.MemoryStore{}
	}
	if plug.logger == nil {
		plug.logger = log.Default()
	}
	if plug.platform == "" {
		plug.platform = PlatformDesktop
	}
	return plug
}

// Load reads settings, then logs and registers the triggers for the platform.
// Calling Load on a loaded plugin does nothing.
func (p *Plugin) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	loaded, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	p.settings = loaded

	p.logger.Info("loading", "platform", p.platform)

	regs := registrationsFor(p.platform)
	p.triggers = make(map[Trigger]Registration, len(regs))
	for _, reg := range regs {
		p.triggers[reg.Trigger] = reg
		p.logger.Debug("registered trigger", "trigger", reg.Trigger)
	}

	p.loaded = true
	return nil
}

// Unload removes every trigger registration.
func (p *Plugin) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info("unloading")
	p.triggers = nil
	p.loaded = false
}

// Loaded reports whether Load has completed.
func (p *Plugin) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Triggers returns the registered triggers in registration order.
func (p *Plugin) Triggers() []Registration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	regs := make([]Registration, 0, len(p.triggers))
	for _, t := range AllTriggers() {
		if reg, ok := p.triggers[t]; ok {
			regs = append(regs, reg)
		}
	}
	return regs
}

// Fire handles a host event: it rewrites the active editor, or tells the
// user nothing needed replacing.
func (p *Plugin) Fire(ctx context.Context, trigger Trigger, host Host) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if err := p.checkTrigger(trigger); err != nil {
		return Outcome{}, err
	}

	editor, ok := host.ActiveEditor()
	if !ok || editor == nil {
		return Outcome{}, ErrNoActiveEditor
	}

	outcome, err := p.Rewrite(ctx, editor)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Trigger = trigger

	if !outcome.Changed {
		host.Notify(NoChangesNotice)
	}

	p.logger.Debug("rewrite finished",
		"trigger", trigger,
		"changed", outcome.Changed,
		"substitutions", outcome.Substitutions())

	return outcome, nil
}

func (p *Plugin) checkTrigger(trigger Trigger) error {
	if _, err := ParseTrigger(string(trigger)); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded {
		return ErrNotLoaded
	}
	if _, ok := p.triggers[trigger]; !ok {
		return fmt.Errorf("%w: %s on %s", ErrTriggerUnavailable, trigger, p.platform)
	}
	return nil
}

// Rewrite replaces the editor's text with its normalized form. The editor is
// written only when the text changed.
func (p *Plugin) Rewrite(ctx context.Context, editor Editor) (Outcome, error) {
	result, err := p.rewriter.Rewrite(ctx, editor.Value())
	if err != nil {
		return Outcome{}, fmt.Errorf("rewriting document: %w", err)
	}

	if result.Changed {
		editor.SetValue(result.Text)
	}

	return Outcome{Changed: result.Changed, Counts: result.Counts}, nil
}

// Settings returns the current settings.
func (p *Plugin) Settings() settings.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// UpdateSetting stores a new MySetting value and saves it immediately.
// The in-memory value changes only if the save succeeds.
func (p *Plugin) UpdateSetting(ctx context.Context, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.settings
	next.MySetting = value

	if err := p.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	p.settings = next
	return nil
}
