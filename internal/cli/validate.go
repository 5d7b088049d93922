package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
)

const stdinLabel = "<stdin>"

type validateFlags struct {
	summary bool
}

func newValidateCmd(rootFlags *RootFlags) *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate <file>|-",
		Short: "Validate a single CUP XML file",
		Long: `Validate one CUP XML record against the production rules.

The file can be provided as a path or read from stdin using '-'.
Every check runs; the exit status is 1 when any check fails.`,
		Example: `  # Validate a file
  cupv validate 9780000000000.xml

  # Validate with JSON output
  cupv validate book.xml --format json

  # Validate from stdin
  cat book.xml | cupv validate -

  # Print the copy-ready summary
  cupv validate book.xml --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], flags, rootFlags)
		},
	}

	cmd.Flags().BoolVar(&flags.summary, "summary", false, "Print the plain clipboard summary instead of a formatted report")

	return cmd
}

func runValidate(cmd *cobra.Command, target string, flags *validateFlags, rootFlags *RootFlags) error {
	opts, err := NewReportOptions(rootFlags)
	if err != nil {
		return fmt.Errorf("invalid report options: %w", err)
	}

	op := operations.NewValidateOperation(cmd.Context(), rootFlags.Validator()).
		WithLogger(rootFlags.Logger())

	var outcome report.Outcome
	if target == "-" {
		outcome, err = op.ExecuteInput(operations.ReadInput(stdinLabel, cmd.InOrStdin()))
	} else {
		outcome, err = op.Execute(target)
	}
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	rootFlags.Logger().Debug("validated record",
		logging.File(target),
		"label", outcome.Label(),
		"passed", outcome.Passed(),
	)

	if flags.summary {
		err = opts.write(report.FormatRecordSummary(outcome))
	} else {
		err = WriteOutcomeReport(outcome, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// Exit with non-zero if any check failed (but don't return error to avoid double printing)
	if !outcome.Passed() {
		osExit(1)
	}

	return nil
}
