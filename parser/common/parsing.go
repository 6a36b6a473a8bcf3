package common

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountJunkRegex = regexp.MustCompile(`[^0-9.,\-]`)

// FieldPatterns is an ordered candidate list for one scalar field,
// evaluated first-match-wins. Keeping the candidates as data means a
// new issuer variant or an extra label is a config change, not a
// control-flow change.
type FieldPatterns []*regexp.Regexp

// MustCompilePatterns compiles the given expressions case-insensitively,
// preserving order. Panics on a bad expression, same as
// regexp.MustCompile; patterns come from config and are load-time fatal.
func MustCompilePatterns(exprs []string) FieldPatterns {
	patterns := make(FieldPatterns, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

// FirstSubmatch returns the submatches of the first candidate that
// matches text, or nil when none do.
func (fp FieldPatterns) FirstSubmatch(text string) []string {
	for _, pattern := range fp {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return match
		}
	}
	return nil
}

// NormalizeAmount parses a raw amount cell into a decimal. Currency
// symbols and other junk are stripped first, keeping digits, periods,
// commas and minus signs; thousands-separator commas are then removed.
// Unlike CleanDecimal-style helpers that default to zero, a cell with
// nothing numeric left is an error so the caller can drop the row.
func NormalizeAmount(text string) (decimal.Decimal, error) {
	clean := amountJunkRegex.ReplaceAllString(text, "")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, errors.New("no numeric content")
	}
	return decimal.NewFromString(clean)
}
