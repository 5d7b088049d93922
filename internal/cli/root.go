package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petergi/cup-validator-cli/internal/config"
	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/rules"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// osExit is a copy of os.Exit that can be mocked in tests
var osExit = os.Exit

// RootFlags contains global flags shared across all commands
type RootFlags struct {
	Format    string
	Output    string
	Verbose   bool
	Color     bool
	RulesFile string
	LogLevel  string
	LogFormat string

	Config config.Config

	logger  *slog.Logger
	catalog *rules.Catalog
	out     io.Writer
}

func (f *RootFlags) stdout() io.Writer {
	if f.out == nil {
		return os.Stdout
	}
	return f.out
}

// Logger returns the logger configured by the persistent flags.
func (f *RootFlags) Logger() *slog.Logger {
	if f.logger == nil {
		return logging.Discard()
	}
	return f.logger
}

// Validator returns a validator for the active rule catalog.
func (f *RootFlags) Validator() *validator.Validator {
	return validator.New(f.catalog)
}

// setup builds the logger and loads the rule catalog.
func (f *RootFlags) setup(cmd *cobra.Command) error {
	f.out = cmd.OutOrStdout()

	level, err := logging.ParseLevel(f.LogLevel)
	if err != nil {
		return err
	}
	if f.Verbose {
		level = slog.LevelDebug
	}
	format, err := logging.ParseFormat(f.LogFormat)
	if err != nil {
		return err
	}
	f.logger = logging.New(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithFormat(format),
		logging.WithAttr(slog.String("command", cmd.Name())),
	)

	f.catalog = rules.Default()
	if f.RulesFile != "" {
		catalog, err := rules.LoadFile(f.RulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		f.catalog = catalog
		f.logger.Debug("loaded rule catalog", logging.File(f.RulesFile))
	}
	return nil
}

// NewRootCmd creates the root command for the CLI
func NewRootCmd() *cobra.Command {
	flags := &RootFlags{}

	cfg, cfgErr := config.Load()
	flags.Config = cfg
	if cfgErr != nil {
		flags.Config, _ = config.FromEnvironment(map[string]string{})
	}

	cmd := &cobra.Command{
		Use:   "cupv",
		Short: "Validate CUP XML print specifications",
		Long: `cupv - CUP XML print-spec validator

Check print-specification records against the production rules: binding,
paper, colour, route, trim size and paper compatibility.

  - Run without arguments to launch the interactive TUI.
  - Run with a file or directory path to quick-validate (e.g. 'cupv book.xml').
  - Use subcommands ('validate', 'batch', 'watch', 'rules') for specific operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Interactive TUI mode
  cupv

  # Single file
  cupv validate book.xml
  cupv validate book.xml --format json --output result.json
  cat book.xml | cupv validate - --summary

  # Batch operations
  cupv batch ./exports --save-dir ./reports
  cupv batch ./exports --failed-only --format markdown

  # Re-validate whenever files change
  cupv watch ./exports

  # Custom production rules
  cupv rules > rules.yaml
  cupv batch ./exports --rules rules.yaml`,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			return flags.setup(c)
		},
	}

	// Global flags available to all commands
	cmd.PersistentFlags().StringVarP(&flags.Format, "format", "f", flags.Config.Format, "Output format: text, json, markdown")
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "", "Write report to file instead of stdout")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.Color, "color", flags.Config.Color, "Enable colorized output")
	cmd.PersistentFlags().StringVar(&flags.RulesFile, "rules", flags.Config.RulesFile, "YAML rule catalog (default: built-in rules)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.Config.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.Config.LogFormat, "Log format: text, json")

	registerFlagCompletions(cmd)

	// Default run behavior: if args are provided, try to validate them
	cmd.Args = cobra.ArbitraryArgs
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			// Handled by main.go (TUI mode) when run from a terminal
			return c.Help()
		}

		target := args[0]
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("unknown command or file: %q\n\nRun 'cupv --help' for usage", target)
		}

		if info.IsDir() {
			return runBatch(c.Context(), target, defaultBatchFlags(flags.Config), flags)
		}

		return runValidate(c, target, &validateFlags{}, flags)
	}

	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newBatchCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newRulesCmd(flags))
	cmd.AddCommand(NewCompletionCmd(cmd))

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	return cmd
}

// Execute runs the CLI command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
