package loader

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal converts numeric cell text to a float, supporting
// comma-as-decimal-separator input ("37,5"). Blank or unparsable text
// yields NaN.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseCount converts cell text to a non-negative integer count, treating
// blank or unparsable text as zero.
func parseCount(s string) int {
	v := ParseDecimal(s)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int(v)
}

// parseFlag reports whether cell text encodes an active flag (numeric 1).
func parseFlag(s string) bool {
	return ParseDecimal(s) == 1
}

// PPE charge cell values used by the cost sheet.
const (
	ppeNoCharge         = "No cobra EPP"
	ppeChargeUniversity = "Cobra EPP a la Universidad"
)

// parsePPECharge maps the charge cell to a boolean. Unknown text counts as
// "no charge", mirroring how blank cells are treated.
func parsePPECharge(s string) bool {
	return strings.TrimSpace(s) == ppeChargeUniversity
}

// parsePPERequired maps the optional requirement-degree cell to a value in
// [0,1], or nil when the cell carries no recognizable signal.
func parsePPERequired(s string) *float64 {
	var degree float64
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no exige":
		degree = 0
	case "parcial":
		degree = 0.5
	case "completo":
		degree = 1
	default:
		return nil
	}
	return &degree
}
