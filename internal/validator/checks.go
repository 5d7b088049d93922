package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/petergi/cup-validator-cli/internal/record"
	"github.com/petergi/cup-validator-cli/internal/rules"
)

// requiredFields are checked for presence, labelled as they appear in messages.
var requiredFields = []struct {
	label string
	field record.Field
}{
	{"ISBN", record.FieldISBN},
	{"Trim Height", record.FieldTrimHeight},
	{"Trim Width", record.FieldTrimWidth},
	{"Extent", record.FieldExtent},
	{"Paper", record.FieldPaper},
	{"Colour", record.FieldColour},
	{"Quality", record.FieldQuality},
	{"Binding Style", record.FieldBindingStyle},
}

func checkRequiredFields(_ *rules.Catalog, r record.Record) (CheckResult, bool) {
	var missing []string
	for _, rf := range requiredFields {
		if strings.TrimSpace(r.Get(rf.field)) == "" {
			missing = append(missing, rf.label)
		}
	}

	if len(missing) == 0 {
		return pass(CheckRequiredFields, "All required fields are present and have values"), true
	}
	return fail(CheckRequiredFields, "Missing or empty fields: "+strings.Join(missing, ", ")), true
}

func checkBinding(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	return membership(CheckBindingStyle, "binding", c.Bindings, r.BindingStyle), true
}

func checkPaper(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	return membership(CheckPaperType, "paper", c.Papers, r.Paper), true
}

func checkColour(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	return membership(CheckColour, "colour", c.Colours, r.Colour), true
}

func checkRoute(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	return membership(CheckQualityRoute, "route", c.Routes, r.Quality), true
}

func membership(name, noun string, set rules.Set, value string) CheckResult {
	if set.Has(value) {
		return pass(name, fmt.Sprintf("Valid %s: %s", noun, value))
	}
	return fail(name, fmt.Sprintf("Invalid %s: '%s' (must be %s)", noun, value, orList(set.Values())))
}

func checkTrimSize(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	width, okW := parseDimension(r.TrimWidth)
	height, okH := parseDimension(r.TrimHeight)
	if !okW || !okH {
		return fail(CheckTrimSize, fmt.Sprintf("Invalid dimensions: %sx%smm (must be positive numbers)",
			r.TrimWidth, r.TrimHeight)), true
	}

	size := TrimSize(width, height)
	if c.TrimSizes.Has(size) {
		return pass(CheckTrimSize, fmt.Sprintf("Valid trim size: %smm", size)), true
	}
	return fail(CheckTrimSize, fmt.Sprintf("Invalid trim size: %smm (must be one of: %s)",
		size, strings.Join(c.TrimSizes.Values(), ", "))), true
}

func checkColourPaperCompatibility(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	if !c.Papers.Has(r.Paper) || !c.Colours.Has(r.Colour) {
		return CheckResult{}, false
	}
	compat := mustCompatibility(c, r.Paper)
	return compatibility(CheckColourPaperCompat, "Colour", r.Colour, r.Paper, compat.Colours), true
}

func checkRoutePaperCompatibility(c *rules.Catalog, r record.Record) (CheckResult, bool) {
	if !c.Papers.Has(r.Paper) || !c.Routes.Has(r.Quality) {
		return CheckResult{}, false
	}
	compat := mustCompatibility(c, r.Paper)
	return compatibility(CheckRoutePaperCompat, "Route", r.Quality, r.Paper, compat.Routes), true
}

func compatibility(name, noun, value, paper string, allowed rules.Set) CheckResult {
	if allowed.Has(value) {
		return pass(name, fmt.Sprintf("%s '%s' is compatible with %s", noun, value, paper))
	}
	return fail(name, fmt.Sprintf("%s '%s' is not compatible with %s (allowed: %s)",
		noun, value, paper, strings.Join(allowed.Values(), ", ")))
}

// mustCompatibility panics when a valid paper has no compatibility entry.
// rules.New rejects such catalogs, so reaching the panic means a catalog bug.
func mustCompatibility(c *rules.Catalog, paper string) rules.Compatibility {
	compat, err := c.CompatibilityFor(paper)
	if err != nil {
		panic(fmt.Errorf("rule catalog invariant violated: %w", err))
	}
	return compat
}

var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// parseDimension parses a plain decimal millimetre value. It rejects
// anything that is not a finite number greater than zero.
func parseDimension(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, false
	}
	return v, true
}

// TrimSize formats width and height as a catalog key, rounding each to the
// nearest whole millimetre with ties away from zero.
func TrimSize(width, height float64) string {
	return strconv.FormatFloat(math.Round(width), 'f', 0, 64) + "x" +
		strconv.FormatFloat(math.Round(height), 'f', 0, 64)
}

// orList renders values as "A", "A or B", or "A, B, or C".
func orList(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	case 2:
		return values[0] + " or " + values[1]
	default:
		return strings.Join(values[:len(values)-1], ", ") + ", or " + values[len(values)-1]
	}
}

func pass(name, message string) CheckResult {
	return CheckResult{Name: name, Passed: true, Message: message}
}

func fail(name, message string) CheckResult {
	return CheckResult{Name: name, Passed: false, Message: message}
}
