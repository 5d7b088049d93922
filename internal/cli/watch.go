package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petergi/cup-validator-cli/internal/operations"
)

type watchFlags struct {
	batch    *batchFlags
	debounce time.Duration
}

func newWatchCmd(rootFlags *RootFlags) *cobra.Command {
	flags := &watchFlags{
		batch:    defaultBatchFlags(rootFlags.Config),
		debounce: 500 * time.Millisecond,
	}
	flags.batch.progress = "none"

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Re-validate a directory whenever its XML files change",
		Long: `Validate every XML file in a directory, then watch it and print a fresh
report each time files are added, changed or removed. Bursts of changes are
collapsed into one run after the debounce period. Stop with Ctrl+C.`,
		Example: `  # Watch an export folder
  cupv watch ./exports

  # Keep only the latest failures on screen, saving each report
  cupv watch ./exports --failed-only --save-dir ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], flags, rootFlags)
		},
	}

	cmd.Flags().DurationVar(&flags.debounce, "debounce", flags.debounce, "Quiet period before re-validating")
	cmd.Flags().BoolVarP(&flags.batch.recursive, "recursive", "r", flags.batch.recursive, "Watch subdirectories recursively")
	cmd.Flags().BoolVar(&flags.batch.summaryOnly, "summary-only", false, "Only print summary output")
	cmd.Flags().BoolVar(&flags.batch.failedOnly, "failed-only", false, "Only list failing records")
	cmd.Flags().StringVar(&flags.batch.saveDir, "save-dir", "", "Also save each text report into this directory")

	return cmd
}

func runWatch(ctx context.Context, dir string, flags *watchFlags, rootFlags *RootFlags) error {
	run := func(ctx context.Context) error {
		_, err := executeBatch(ctx, dir, flags.batch, rootFlags)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(rootFlags.stdout(), err)
		}
		return err
	}

	_ = run(ctx)

	return operations.Watch(ctx, operations.WatchConfig{
		Dir:        dir,
		Recursive:  flags.batch.recursive,
		Debounce:   flags.debounce,
		Extensions: flags.batch.extensions,
		Logger:     rootFlags.Logger(),
	}, run)
}
