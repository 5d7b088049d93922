package operations

import (
	"context"
	"errors"
	"strings"

	"github.com/petergi/cup-validator-cli/internal/record"
	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// Names of the single check reported for documents that never reach validation.
const (
	CheckFileError       = "File Error"
	CheckXMLFormat       = "XML Format"
	CheckXMLStructure    = "XML Structure"
	CheckProcessingError = "Processing Error"
)

// RunBatch validates inputs in order. Inputs carrying an error become a
// failing outcome with a single check describing it. Cancellation is
// observed between inputs; the outcomes produced so far are returned with
// ctx.Err().
func RunBatch(ctx context.Context, v *validator.Validator, inputs []Input) ([]report.Outcome, error) {
	outcomes := make([]report.Outcome, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, evaluate(v, in))
	}
	return outcomes, nil
}

func evaluate(v *validator.Validator, in Input) report.Outcome {
	if in.Err != nil {
		return report.Outcome{
			FileName: in.FileName,
			Checks:   []validator.CheckResult{failure(in.Err)},
		}
	}
	return report.Outcome{
		FileName: in.FileName,
		ISBN:     in.Record.ISBN,
		Title:    in.Record.Title,
		Checks:   v.Validate(in.Record),
	}
}

func failure(err error) validator.CheckResult {
	res := validator.CheckResult{Passed: false}

	var fileErr *FileError
	switch {
	case errors.As(err, &fileErr):
		res.Name = CheckFileError
		res.Message = "Failed to process file: " + fileErr.Err.Error()
	case errors.Is(err, record.ErrMalformedXML):
		res.Name = CheckXMLFormat
		res.Message = "Invalid XML format: " + strings.TrimPrefix(err.Error(), record.ErrMalformedXML.Error()+": ")
	case errors.Is(err, record.ErrMissingRecord):
		res.Name = CheckXMLStructure
		res.Message = "Missing root record element"
	default:
		res.Name = CheckProcessingError
		res.Message = "Error: " + err.Error()
	}
	return res
}
