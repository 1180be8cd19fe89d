package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocitations/internal/logging"
	"github.com/yaklabco/gocitations/pkg/config"
	"github.com/yaklabco/gocitations/pkg/plugin"
)

func newSettingsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the persisted plugin settings",
		Long: `Show or change the settings the plugin loads at startup.

Settings live in $XDG_CONFIG_HOME/gocitations/data.yml unless settings_file
is configured or --file is given. They are saved as soon as they change.
No setting alters how text is rewritten.`,
	}

	cmd.PersistentFlags().StringVar(&file, "file", "", "settings file to use")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			plug, err := settingsPlugin(cmd, file)
			if err != nil {
				return err
			}
			defer plug.Unload()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "my_setting: %s\n", plug.Settings().MySetting)
			return err
		},
	}

	set := &cobra.Command{
		Use:   "set <value>",
		Short: "Change my_setting and save it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plug, err := settingsPlugin(cmd, file)
			if err != nil {
				return err
			}
			defer plug.Unload()

			if err := plug.UpdateSetting(commandContext(cmd), args[0]); err != nil {
				return err
			}
			logging.Default().Debug("settings saved", "my_setting", args[0])

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "my_setting: %s\n", plug.Settings().MySetting)
			return err
		},
	}

	cmd.AddCommand(show, set)

	return cmd
}

// settingsPlugin loads a plugin whose store is the configured settings file,
// or file when it is set.
func settingsPlugin(cmd *cobra.Command, file string) (*plugin.Plugin, error) {
	cliCfg := &config.Config{SettingsFile: file}

	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return nil, err
	}

	return loadPlugin(commandContext(cmd), cfg, plugin.PlatformDesktop, logging.Default())
}
