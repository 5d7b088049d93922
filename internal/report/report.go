// Package report aggregates validation outcomes and renders them as the
// plain-text report and clipboard summary.
package report

import (
	"github.com/petergi/cup-validator-cli/internal/validator"
)

// Outcome pairs one source document with the checks run against it.
type Outcome struct {
	FileName string                  `json:"file_name,omitempty"`
	ISBN     string                  `json:"isbn"`
	Title    string                  `json:"title,omitempty"`
	Checks   []validator.CheckResult `json:"checks"`
}

// Label identifies the outcome: the ISBN when present, otherwise the file name.
func (o Outcome) Label() string {
	if o.ISBN != "" {
		return o.ISBN
	}
	return o.FileName
}

// Passed reports whether every check passed.
func (o Outcome) Passed() bool {
	return validator.AllPassed(o.Checks)
}

// PassedCount returns the number of passing checks.
func (o Outcome) PassedCount() int {
	n := 0
	for _, c := range o.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// FailedChecks returns the failing checks in execution order.
func (o Outcome) FailedChecks() []validator.CheckResult {
	var failed []validator.CheckResult
	for _, c := range o.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Summary holds batch totals.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summarize recounts outcomes from scratch.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Passed() {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed
	return s
}
