package core

// convert.go provides the coercion rules used to turn spreadsheet cell text
// into numbers.
//
// These functions handle the messy reality of supplier price lists:
//   - Currency symbols and thousand separators in numbers
//   - Accounting negatives written as "(12.50)"
//   - Excel formula prefixes (="value")
//   - Scientific notation exported by some ERP tools
//
// Numeric text is validated through pgtype.Numeric so the accepted grammar
// matches what a NUMERIC column would accept.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToPgNumeric converts numeric-looking text to pgtype.Numeric.
// Handles currency symbols, a trailing percent sign, thousands separators,
// and accounting negatives.
// Returns Valid=false for anything that is not a finite number.
func ToPgNumeric(s string) pgtype.Numeric {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "").Replace(s)
	// Percent columns carry the bare figure: "20%" is 20.
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	// pgtype does not scan exponents; expand them to plain decimal first.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) {
			return pgtype.Numeric{Valid: false}
		}
		s = FormatNumber(f)
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// ParseNumber converts numeric-looking text to a float64.
// The second return value is false when the text is not a finite number.
func ParseNumber(s string) (float64, bool) {
	n := ToPgNumeric(s)
	if !n.Valid {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid || math.IsInf(f.Float64, 0) || math.IsNaN(f.Float64) {
		return 0, false
	}
	return f.Float64, true
}

// FormatNumber renders a float the way it would be typed into a cell:
// the shortest representation with no exponent and no trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CleanCell strips the artifacts spreadsheet exports leave around a value.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// ="00123" keeps leading zeros in Excel; the value is what is quoted.
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}
