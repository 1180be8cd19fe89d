package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocitations/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "gocitations", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, path := range [][]string{
		{"fix"}, {"rules"}, {"init"}, {"version"},
		{"settings"}, {"settings", "show"}, {"settings", "set"},
	} {
		subCmd, _, err := cmd.Find(path)
		require.NoError(t, err, "subcommand %v", path)
		assert.Equal(t, path[len(path)-1], subCmd.Name())
	}
}

func TestFixCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	fixCmd, _, err := cmd.Find([]string{"fix"})
	require.NoError(t, err)

	for _, name := range []string{
		"dry-run", "check", "format", "jobs", "ignore", "ext", "no-backups",
		"preserve-code", "flavor", "stdin", "trigger", "platform", "follow-symlinks",
	} {
		assert.NotNil(t, fixCmd.Flags().Lookup(name), "flag %q", name)
	}

	assert.Equal(t, "command", fixCmd.Flags().Lookup("trigger").DefValue)
	assert.Equal(t, "desktop", fixCmd.Flags().Lookup("platform").DefValue)
	assert.NoError(t, fixCmd.Args(fixCmd, []string{"a.md", "b.md", "docs/"}))
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"fix", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "gocitations fix [paths...]")
	assert.Contains(t, help, "--dry-run")
	assert.Contains(t, help, "--follow-symlinks")
	assert.Contains(t, help, "Global Flags:")
	assert.Contains(t, help, "Environment:")
	assert.Contains(t, help, "GOCITATIONS_PRESERVE_CODE")
	assert.Contains(t, help, "GOCITATIONS_SETTINGS_FILE")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"fix", "--no-such-flag"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}
