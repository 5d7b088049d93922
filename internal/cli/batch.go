package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/petergi/cup-validator-cli/internal/config"
	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/operations"
	"github.com/petergi/cup-validator-cli/internal/report"
)

type batchFlags struct {
	jobs        int
	timeout     int
	recursive   bool
	maxDepth    int
	extensions  []string
	ignore      []string
	progress    string
	summaryOnly bool
	failedOnly  bool
	saveDir     string
}

func defaultBatchFlags(cfg config.Config) *batchFlags {
	return &batchFlags{
		jobs:      cfg.Jobs,
		timeout:   30,
		recursive: true,
		maxDepth:  -1,
		progress:  "auto",
	}
}

func newBatchCmd(rootFlags *RootFlags) *cobra.Command {
	flags := defaultBatchFlags(rootFlags.Config)

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Validate every CUP XML file in a directory",
		Long: `Validate all XML files in a directory and print the validation report.

Files are loaded by a worker pool (--jobs) and validated in discovery order,
so the report is identical whatever the worker count. A file that cannot be
read or parsed is reported as a failed record; it never stops the batch.`,
		Example: `  # Validate all files in a directory
  cupv batch ./exports

  # Save the report as cup_validation_summary_<date>.txt
  cupv batch ./exports --save-dir ./reports

  # Only list failing records, as Markdown
  cupv batch ./exports --failed-only --format markdown

  # Top-level files only, with 4 loaders
  cupv batch ./exports --recursive=false --jobs 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], flags, rootFlags)
		},
	}

	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", flags.jobs, "Number of concurrent file loaders")
	cmd.Flags().IntVar(&flags.timeout, "timeout", flags.timeout, "Seconds to wait for each file to be read before reporting it as a file error")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", flags.recursive, "Process subdirectories recursively")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", flags.maxDepth, "Maximum directory depth (-1 = unlimited)")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "File extensions to include (default: .xml)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "Glob patterns to ignore")
	cmd.Flags().StringVar(&flags.progress, "progress", flags.progress, "Progress output mode (auto, simple, none)")
	cmd.Flags().BoolVar(&flags.summaryOnly, "summary-only", false, "Only print summary output")
	cmd.Flags().BoolVar(&flags.failedOnly, "failed-only", false, "Only list failing records")
	cmd.Flags().StringVar(&flags.saveDir, "save-dir", "", "Also save the text report into this directory")
	_ = cmd.RegisterFlagCompletionFunc("progress", fixedValues("auto", "simple", "none"))

	return cmd
}

func runBatch(ctx context.Context, dir string, flags *batchFlags, rootFlags *RootFlags) error {
	result, err := executeBatch(ctx, dir, flags, rootFlags)
	if err != nil {
		return err
	}

	// Exit with non-zero if any files failed
	if result.Summary.Failed > 0 {
		osExit(1)
	}

	return nil
}

// executeBatch validates dir and writes the report.
func executeBatch(ctx context.Context, dir string, flags *batchFlags, rootFlags *RootFlags) (*operations.BatchResult, error) {
	logger := rootFlags.Logger()

	findOpts := operations.FindFilesOptions{
		Recursive:  flags.recursive,
		MaxDepth:   flags.maxDepth,
		Extensions: flags.extensions,
		Ignore:     flags.ignore,
	}
	files, err := operations.FindFiles(dir, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no matching files found in %s", dir)
	}
	logger.Debug("found files", "dir", dir, "count", len(files))

	batchConfig := operations.DefaultBatchConfig()
	if flags.jobs > 0 {
		batchConfig.NumWorkers = flags.jobs
	}
	if flags.timeout > 0 {
		batchConfig.Timeout = time.Duration(flags.timeout) * time.Second
	}
	batchConfig.Logger = logger
	processor := operations.NewBatchProcessor(ctx, batchConfig)

	done := trackProgress(processor, len(files), flags.progress, rootFlags.Color)
	result, err := processor.Run(files, rootFlags.Validator())
	<-done
	if err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	if flags.saveDir != "" {
		path, err := report.Save(flags.saveDir, result.Outcomes, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("saved report", logging.File(path), logging.RunID(result.RunID))
	}

	opts, err := NewReportOptions(rootFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid report options: %w", err)
	}
	opts.SummaryOnly = flags.summaryOnly
	opts.Filter.FailedOnly = flags.failedOnly

	if err := WriteBatchReport(&result, opts); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return &result, nil
}

// trackProgress renders processor progress on stderr until the progress
// channel closes. The returned channel is closed when rendering stops.
func trackProgress(processor *operations.BatchProcessor, total int, mode string, colorEnabled bool) <-chan struct{} {
	done := make(chan struct{})
	updates := processor.ProgressChannel()

	if mode == "none" {
		go func() {
			defer close(done)
			for range updates {
			}
		}()
		return done
	}

	if mode == "simple" || (mode == "auto" && !isTerminal()) {
		go func() {
			defer close(done)
			simpleProgress(os.Stderr, updates, 2*time.Second)
		}()
		return done
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Validating"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(colorEnabled),
	)

	go func() {
		defer close(done)
		for update := range updates {
			_ = bar.Set(update.Completed)
		}
		_ = bar.Finish()
	}()
	return done
}

// simpleProgress prints the latest update at most once per interval.
func simpleProgress(w io.Writer, updates <-chan operations.ProgressUpdate, interval time.Duration) {
	var last operations.ProgressUpdate
	printed := time.Time{}
	for update := range updates {
		last = update
		if time.Since(printed) >= interval {
			fmt.Fprintf(w, "Progress: %d/%d files completed...\n", update.Completed, update.Total)
			printed = time.Now()
		}
	}
	if last.Total > 0 {
		fmt.Fprintf(w, "Progress: %d/%d files completed.\n", last.Completed, last.Total)
	}
}

// isTerminal returns true if stderr is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
