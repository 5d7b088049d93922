package operations

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// BatchConfig configures batch processing behavior
type BatchConfig struct {
	NumWorkers   int           // Number of concurrent file loaders
	QueueSize    int           // Task queue buffer size
	ProgressRate time.Duration // Progress update frequency
	Timeout      time.Duration // Per-file read deadline; stalled reads are abandoned
	Logger       *slog.Logger
}

// FindFilesOptions configures file discovery for batch operations
type FindFilesOptions struct {
	Recursive  bool
	MaxDepth   int      // -1 for unlimited
	Extensions []string // defaults to .xml
	Ignore     []string // glob patterns
}

// FindFiles finds all matching files in the given directory based on options
func FindFiles(root string, opts FindFilesOptions) ([]string, error) {
	var files []string

	root = filepath.Clean(root)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		depth := 0
		if rel != "." {
			depth = len(strings.Split(rel, string(filepath.Separator)))
		}

		if opts.MaxDepth != -1 && depth > opts.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip directories if not recursive (beyond the root)
		if !opts.Recursive && d.IsDir() && path != root {
			return filepath.SkipDir
		}

		if path != root && ignored(opts.Ignore, path, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && matchesExtension(opts.Extensions, path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func ignored(patterns []string, path, name string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		// Also try matching the full path
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

func matchesExtension(extensions []string, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if len(extensions) == 0 {
		return ext == ".xml"
	}
	for _, target := range extensions {
		if !strings.HasPrefix(target, ".") {
			target = "." + target
		}
		if ext == strings.ToLower(target) {
			return true
		}
	}
	return false
}

// DefaultBatchConfig returns the sequential defaults: one loader, which
// matches the one-file-at-a-time processing of an interactive session.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		NumWorkers:   1,
		QueueSize:    100,
		ProgressRate: 100 * time.Millisecond,
		Timeout:      30 * time.Second,
	}
}

// Task represents a single file to load
type Task struct {
	Index    int
	FilePath string
}

type loaded struct {
	index int
	input Input
}

// ProgressUpdate contains progress information
type ProgressUpdate struct {
	Completed int
	Total     int
	Current   string
}

// BatchProcessor loads files concurrently and validates them in input order.
type BatchProcessor struct {
	config      BatchConfig
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
	taskQueue   chan Task
	resultQueue chan loaded
	progressCh  chan ProgressUpdate
	done        chan struct{}
	completed   atomic.Int64
	total       int
	currentFile atomic.Value // stores string
}

// NewBatchProcessor creates a new batch processor with the given parent context
func NewBatchProcessor(ctx context.Context, config BatchConfig) *BatchProcessor {
	ctx, cancel := context.WithCancel(ctx)

	if config.NumWorkers < 1 {
		config.NumWorkers = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}
	if config.ProgressRate <= 0 {
		config.ProgressRate = 100 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &BatchProcessor{
		config:      config,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		taskQueue:   make(chan Task, config.QueueSize),
		resultQueue: make(chan loaded, config.QueueSize),
		progressCh:  make(chan ProgressUpdate, 10),
		done:        make(chan struct{}),
	}
}

// Execute loads files and returns one Input per file, in the order given.
// Files not reached before cancellation are omitted. A processor runs one
// batch; create a new one for the next.
func (bp *BatchProcessor) Execute(files []string) []Input {
	bp.total = len(files)
	bp.completed.Store(0)

	var wg sync.WaitGroup
	for i := 0; i < bp.config.NumWorkers; i++ {
		wg.Add(1)
		go bp.worker(&wg)
	}

	go func() {
		defer close(bp.taskQueue)
		for i, file := range files {
			if bp.ctx.Err() != nil {
				return
			}
			select {
			case bp.taskQueue <- Task{Index: i, FilePath: file}:
			case <-bp.ctx.Done():
				return
			}
		}
	}()

	go bp.reportProgress()

	go func() {
		wg.Wait()
		close(bp.resultQueue)
		close(bp.done) // Stop progress reporting
	}()

	slots := make([]*Input, len(files))
	for res := range bp.resultQueue {
		in := res.input
		slots[res.index] = &in
	}

	inputs := make([]Input, 0, len(files))
	for _, in := range slots {
		if in != nil {
			inputs = append(inputs, *in)
		}
	}
	return inputs
}

// Run loads files, validates them with v and aggregates the outcomes.
// The processor is cancelled when Run returns.
func (bp *BatchProcessor) Run(files []string, v *validator.Validator) (BatchResult, error) {
	defer bp.Cancel()
	start := time.Now()

	inputs := bp.Execute(files)
	if err := bp.ctx.Err(); err != nil {
		return AggregateResults(nil, time.Since(start)), err
	}

	outcomes, err := RunBatch(bp.ctx, v, inputs)
	result := AggregateResults(outcomes, time.Since(start))
	bp.logger.Info("batch complete",
		logging.RunID(result.RunID),
		slog.Int("total", result.Summary.Total),
		slog.Int("passed", result.Summary.Passed),
		slog.Int("failed", result.Summary.Failed),
		slog.Duration("duration", result.Duration),
	)
	return result, err
}

func (bp *BatchProcessor) worker(wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-bp.ctx.Done():
			return
		case task, ok := <-bp.taskQueue:
			if !ok || bp.ctx.Err() != nil {
				return
			}

			in := bp.processTask(task)

			select {
			case bp.resultQueue <- loaded{index: task.Index, input: in}:
			case <-bp.ctx.Done():
				return
			}

			bp.completed.Add(1)
			bp.currentFile.Store(task.FilePath)
		}
	}
}

func (bp *BatchProcessor) processTask(task Task) Input {
	ctx := bp.ctx
	if bp.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(bp.ctx, bp.config.Timeout)
		defer cancel()
	}

	in := LoadInput(ctx, task.FilePath)
	if in.Err != nil {
		bp.logger.Warn("could not extract record", logging.File(task.FilePath), logging.Error(in.Err))
	} else {
		bp.logger.Debug("loaded record", logging.File(task.FilePath), slog.String("isbn", in.Record.ISBN))
	}
	return in
}

// reportProgress periodically sends progress updates
func (bp *BatchProcessor) reportProgress() {
	ticker := time.NewTicker(bp.config.ProgressRate)
	defer ticker.Stop()
	defer close(bp.progressCh)

	for {
		select {
		case <-bp.ctx.Done():
			return
		case <-bp.done:
			bp.sendProgress()
			return
		case <-ticker.C:
			bp.sendProgress()
		}
	}
}

func (bp *BatchProcessor) sendProgress() {
	current := ""
	if val := bp.currentFile.Load(); val != nil {
		current = val.(string)
	}

	update := ProgressUpdate{
		Completed: int(bp.completed.Load()),
		Total:     bp.total,
		Current:   current,
	}

	// Non-blocking send
	select {
	case bp.progressCh <- update:
	default:
	}
}

// ProgressChannel returns the channel for receiving progress updates.
// It is closed when the batch finishes or the processor is cancelled.
func (bp *BatchProcessor) ProgressChannel() <-chan ProgressUpdate {
	return bp.progressCh
}

// Cancel cancels the batch processing
func (bp *BatchProcessor) Cancel() {
	bp.cancel()
}

// BatchResult contains aggregated results of a batch run
type BatchResult struct {
	RunID    string           `json:"run_id"`
	Outcomes []report.Outcome `json:"outcomes"`
	Passed   []report.Outcome `json:"-"`
	Failed   []report.Outcome `json:"-"`
	Summary  report.Summary   `json:"summary"`
	Duration time.Duration    `json:"duration"`
}

// AggregateResults splits outcomes by status and recounts the summary.
func AggregateResults(outcomes []report.Outcome, duration time.Duration) BatchResult {
	br := BatchResult{
		RunID:    uuid.NewString(),
		Outcomes: outcomes,
		Passed:   make([]report.Outcome, 0),
		Failed:   make([]report.Outcome, 0),
		Summary:  report.Summarize(outcomes),
		Duration: duration,
	}
	if br.Outcomes == nil {
		br.Outcomes = make([]report.Outcome, 0)
	}

	for _, o := range outcomes {
		if o.Passed() {
			br.Passed = append(br.Passed, o)
		} else {
			br.Failed = append(br.Failed, o)
		}
	}
	return br
}
