package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gocitations/internal/configloader"
	"github.com/yaklabco/gocitations/internal/logging"
	"github.com/yaklabco/gocitations/pkg/config"
	"github.com/yaklabco/gocitations/pkg/mdscope"
	"github.com/yaklabco/gocitations/pkg/plugin"
	"github.com/yaklabco/gocitations/pkg/rewrite"
	"github.com/yaklabco/gocitations/pkg/settings"
)

// commandContext returns the command's context, or Background if unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for cmd with cliCfg as the top layer.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// settingsStore returns the store configured by cfg, or the user-level
// default location.
func settingsStore(cfg *config.Config) (*settings.FileStore, error) {
	path := cfg.SettingsFile
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return settings.NewFileStore(path), nil
}

// newRewriter returns the bare engine, or a code-preserving guard around it.
func newRewriter(cfg *config.Config) plugin.Rewriter {
	if cfg.PreserveCode {
		return mdscope.New(rewrite.Default(), string(cfg.Flavor))
	}
	return rewrite.Default()
}

// loadPlugin builds and loads a plugin for cfg on platform.
func loadPlugin(ctx context.Context, cfg *config.Config, platform plugin.Platform, logger *log.Logger) (*plugin.Plugin, error) {
	store, err := settingsStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve settings file: %w", err)
	}

	plug := plugin.New(plugin.Options{
		Rewriter: newRewriter(cfg),
		Store:    store,
		Logger:   logger,
		Platform: platform,
	})
	if err := plug.Load(ctx); err != nil {
		return nil, fmt.Errorf("load plugin: %w", err)
	}
	return plug, nil
}

// parsePlatform validates a --platform value.
func parsePlatform(name string) (plugin.Platform, error) {
	switch platform := plugin.Platform(name); platform {
	case plugin.PlatformDesktop, plugin.PlatformMobile:
		return platform, nil
	default:
		return "", fmt.Errorf("%w: unknown platform %q; valid platforms: desktop, mobile", ErrUsage, name)
	}
}
