// Package validator runs the fixed, ordered set of production-rule checks
// against one record.
//
// Every check runs regardless of earlier failures. The two paper
// compatibility checks are only applicable when the values they compare are
// themselves valid; when not applicable they contribute no result at all.
package validator

import (
	"github.com/petergi/cup-validator-cli/internal/record"
	"github.com/petergi/cup-validator-cli/internal/rules"
)

// Check names, in execution order.
const (
	CheckRequiredFields    = "Required Fields"
	CheckBindingStyle      = "Binding Style"
	CheckPaperType         = "Paper Type"
	CheckColour            = "Colour"
	CheckQualityRoute      = "Quality/Route"
	CheckTrimSize          = "Trim Size"
	CheckColourPaperCompat = "Colour/Paper Compatibility"
	CheckRoutePaperCompat  = "Route/Paper Compatibility"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// check evaluates one rule. ok is false when the check does not apply.
type check func(c *rules.Catalog, r record.Record) (res CheckResult, ok bool)

var checks = []check{
	checkRequiredFields,
	checkBinding,
	checkPaper,
	checkColour,
	checkRoute,
	checkTrimSize,
	checkColourPaperCompatibility,
	checkRoutePaperCompatibility,
}

// Validator applies a rule catalog to records. It is safe for concurrent use.
type Validator struct {
	catalog *rules.Catalog
}

// New creates a validator for catalog. A nil catalog selects rules.Default().
func New(catalog *rules.Catalog) *Validator {
	if catalog == nil {
		catalog = rules.Default()
	}
	return &Validator{catalog: catalog}
}

// Catalog returns the rules the validator applies.
func (v *Validator) Catalog() *rules.Catalog {
	return v.catalog
}

// Validate runs every applicable check on r in execution order.
func (v *Validator) Validate(r record.Record) []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	for _, fn := range checks {
		if res, ok := fn(v.catalog, r); ok {
			results = append(results, res)
		}
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
