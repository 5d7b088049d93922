package operations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/petergi/cup-validator-cli/internal/logging"
	"github.com/petergi/cup-validator-cli/internal/record"
	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// FileError reports that a source file could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// Input is one source document ready for validation. Err is set when the
// document could not be read or extracted; Record is then empty.
type Input struct {
	FileName string
	Record   record.Record
	Err      error
}

type readResult struct {
	data []byte
	err  error
}

// LoadInput reads and extracts one XML file. When ctx ends before the read
// completes the file is abandoned and reported as a FileError.
func LoadInput(ctx context.Context, path string) Input {
	in := Input{FileName: filepath.Base(path)}
	if err := ctx.Err(); err != nil {
		in.Err = err
		return in
	}

	ch := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- readResult{data: data, err: err}
	}()

	var res readResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		in.Err = &FileError{Path: path, Err: fmt.Errorf("read abandoned: %w", ctx.Err())}
		return in
	}
	if res.err != nil {
		in.Err = &FileError{Path: path, Err: res.err}
		return in
	}
	in.Record, in.Err = record.Extract(bytes.NewReader(res.data))
	return in
}

// ReadInput extracts a document from r, labelling it name.
func ReadInput(name string, r io.Reader) Input {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{FileName: name, Err: &FileError{Path: name, Err: err}}
	}
	rec, err := record.Extract(bytes.NewReader(data))
	return Input{FileName: name, Record: rec, Err: err}
}

// ValidateOperation validates single files.
type ValidateOperation struct {
	ctx       context.Context
	validator *validator.Validator
	logger    *slog.Logger
}

// NewValidateOperation creates a validation operation. A nil validator uses
// the built-in rules.
func NewValidateOperation(ctx context.Context, v *validator.Validator) *ValidateOperation {
	if v == nil {
		v = validator.New(nil)
	}
	return &ValidateOperation{ctx: ctx, validator: v, logger: logging.Discard()}
}

// WithLogger sets the logger used to report unreadable documents.
func (op *ValidateOperation) WithLogger(logger *slog.Logger) *ValidateOperation {
	if logger != nil {
		op.logger = logger
	}
	return op
}

// Execute validates the file at path. Unreadable or malformed files yield a
// failing outcome, not an error; the error is non-nil only on cancellation.
func (op *ValidateOperation) Execute(path string) (report.Outcome, error) {
	return op.ExecuteInput(LoadInput(op.ctx, path))
}

// ExecuteInput validates an already loaded input.
func (op *ValidateOperation) ExecuteInput(in Input) (report.Outcome, error) {
	if in.Err != nil {
		op.logger.Warn("could not extract record", logging.File(in.FileName), logging.Error(in.Err))
	}
	outcomes, err := RunBatch(op.ctx, op.validator, []Input{in})
	if err != nil {
		return report.Outcome{}, err
	}
	return outcomes[0], nil
}
