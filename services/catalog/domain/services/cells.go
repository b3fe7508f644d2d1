// Package services contains stateless domain services for the catalog bounded
// context: cell cleaning, clock and time-window parsing, season and rarity
// derivation, location tagging and identifier allocation.
// They operate purely on domain types and depend only on the standard library.
package services

import (
	"math"
	"strconv"
	"strings"
)

// textReplacer folds no-break spaces into plain spaces.
var textReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// separatorStripper removes thousands separators seen in locale-formatted cells.
var separatorStripper = strings.NewReplacer(",", "", "'", "", "_", "", " ", "", "\u00a0", "", "\u202f", "")

// CleanText returns the trimmed text of a raw cell. Absent cells yield "".
// Numeric cells are rendered without exponent or trailing zeros.
func CleanText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(textReplacer.Replace(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// IsAbsent reports whether a cleaned cell carries no value: empty, or the
// "NA" / "N/A" sentinel in any case.
func IsAbsent(text string) bool {
	if text == "" {
		return true
	}
	return strings.EqualFold(text, "NA") || strings.EqualFold(text, "N/A")
}

// CellText is CleanText with the NA sentinel mapped to "".
func CellText(v any) string {
	text := CleanText(v)
	if IsAbsent(text) {
		return ""
	}
	return text
}

// ToInt coerces a raw cell to an integer. Floats are truncated toward zero,
// thousands separators are ignored, and anything unparseable yields 0.
func ToInt(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return truncate(x)
	case string:
		cleaned := separatorStripper.Replace(strings.TrimSpace(x))
		if cleaned == "" {
			return 0
		}
		if n, err := strconv.Atoi(cleaned); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return truncate(f)
		}
		return 0
	default:
		return 0
	}
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if math.Abs(f) >= 1<<53 {
		return 0
	}
	return int(f)
}
