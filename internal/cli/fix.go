package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gocitations/internal/configloader"
	"github.com/yaklabco/gocitations/internal/logging"
	"github.com/yaklabco/gocitations/pkg/config"
	"github.com/yaklabco/gocitations/pkg/fix"
	"github.com/yaklabco/gocitations/pkg/plugin"
	"github.com/yaklabco/gocitations/pkg/reporter"
	"github.com/yaklabco/gocitations/pkg/runner"
)

// stdinPath names standard input in diffs.
const stdinPath = "<stdin>"

type fixFlags struct {
	format        string
	flavor        string
	ignore        []string
	extensions    []string
	trigger       string
	platform      string
	stdin         bool
	compact       bool
	showUnchanged bool
}

func newFixCommand() *cobra.Command {
	var cfg config.Config
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite quotation marks and apostrophes in files",
		Long:  fixLongDescription + "\n\n" + environmentHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, &cfg, flags)
		},
	}

	addFixFlags(cmd, &cfg, flags)

	return cmd
}

const fixLongDescription = `Rewrite straight quotation marks and apostrophes into typographic form.

By default, rewrites all .md, .markdown and .txt files in the current
directory and subdirectories. Specify paths to rewrite specific files or
directories. Each file is handed to the plugin as the active editor and the
chosen trigger is fired, exactly as an editor host would.

Examples:
  gocitations fix                       # Rewrite current directory
  gocitations fix docs/ README.md       # Rewrite selected paths
  gocitations fix --dry-run             # Show the diff without writing
  gocitations fix --check               # Exit 1 if any file would change
  gocitations fix --preserve-code       # Leave Markdown code untouched
  echo "Kalle's bil" | gocitations fix --stdin`

func addFixFlags(cmd *cobra.Command, cfg *config.Config, flags *fixFlags) {
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show changes as a diff without writing")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit 1 if any file would change; write nothing")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to rewrite (default .md,.markdown,.txt)")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not keep a backup of rewritten files")
	cmd.Flags().BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "walk into symlinked directories")
	cmd.Flags().BoolVar(&cfg.PreserveCode, "preserve-code", false, "leave Markdown code blocks, code spans and HTML untouched")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor for --preserve-code: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "rewrite standard input and print the result")
	cmd.Flags().StringVar(&flags.trigger, "trigger", string(plugin.TriggerCommand),
		"trigger to fire: command, ribbon, file-menu")
	cmd.Flags().StringVar(&flags.platform, "platform", string(plugin.PlatformDesktop),
		"host platform: desktop, mobile")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.showUnchanged, "show-unchanged", false, "list files that needed no replacements")
}

func runFix(cmd *cobra.Command, args []string, cfg *config.Config, flags *fixFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Only set values that were explicitly provided via CLI flags.
	cfg.Format = config.OutputFormat(flags.format)
	if cmd.Flags().Changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	cfg.Ignore = flags.ignore
	cfg.Extensions = flags.extensions

	trigger, err := plugin.ParseTrigger(flags.trigger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	platform, err := parsePlatform(flags.platform)
	if err != nil {
		return err
	}
	if flags.stdin && len(args) > 0 {
		return fmt.Errorf("%w: --stdin does not take paths", ErrUsage)
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldFlavor, finalCfg.Flavor,
		logging.FieldPreserveCode, finalCfg.PreserveCode,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldCheck, finalCfg.Check,
		logging.FieldJobs, finalCfg.Jobs,
	)

	plug, err := loadPlugin(ctx, finalCfg, platform, logger)
	if err != nil {
		return err
	}
	defer plug.Unload()

	if !hasTrigger(plug, trigger) {
		return fmt.Errorf("%w: %s on %s", plugin.ErrTriggerUnavailable, trigger, platform)
	}

	if flags.stdin {
		return runStdin(cmd, plug, trigger, finalCfg)
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldTrigger, trigger,
		logging.FieldPlatform, platform,
	)

	result, err := runner.New(plug, trigger).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("rewrite run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:        cmd.OutOrStdout(),
		ErrorWriter:   cmd.ErrOrStderr(),
		Format:        format,
		Color:         colorMode,
		ShowSummary:   true,
		ShowUnchanged: flags.showUnchanged,
		Pending:       finalCfg.DryRun || finalCfg.Check,
		Compact:       flags.compact,
		WorkingDir:    workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldSubstitutions, result.Stats.Substitutions,
	)

	switch {
	case result.HasErrors():
		return ErrFilesFailed
	case finalCfg.Check && result.HasChanges():
		return ErrChangesNeeded
	default:
		return nil
	}
}

// environmentHelp lists the GOCITATIONS_* variables for the command help.
func environmentHelp() string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var builder strings.Builder
	builder.WriteString("Environment:")
	for _, name := range names {
		fmt.Fprintf(&builder, "\n  %-*s  %s", width, name, vars[name])
	}
	return builder.String()
}

// hasTrigger reports whether trigger is registered on the loaded plugin.
func hasTrigger(plug *plugin.Plugin, trigger plugin.Trigger) bool {
	for _, reg := range plug.Triggers() {
		if reg.Trigger == trigger {
			return true
		}
	}
	return false
}

// runStdin rewrites standard input as a single editor buffer. The rewritten
// text goes to stdout; --dry-run prints a diff instead and --check prints
// nothing.
func runStdin(cmd *cobra.Command, plug *plugin.Plugin, trigger plugin.Trigger, cfg *config.Config) error {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return fmt.Errorf("%w: --stdin expects piped input, not a terminal", ErrUsage)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	original := string(data)
	editor := plugin.NewBufferEditor(original)
	host := plugin.NewStaticHost(editor)

	outcome, err := plug.Fire(commandContext(cmd), trigger, host)
	if err != nil {
		return err
	}

	for _, notice := range host.Notices() {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}

	out := cmd.OutOrStdout()
	switch {
	case cfg.Check:
		if outcome.Changed {
			return ErrChangesNeeded
		}
	case cfg.DryRun:
		if diff := fix.GenerateDiff(stdinPath, original, editor.Value()); diff.HasChanges() {
			fmt.Fprint(out, diff.String())
		}
	default:
		fmt.Fprint(out, editor.Value())
	}

	return nil
}
