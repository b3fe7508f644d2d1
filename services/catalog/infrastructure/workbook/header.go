package workbook

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Column names every catalog sheet is expected to carry.
const (
	ColumnName        = "Name"
	ColumnSell        = "Sell"
	ColumnDescription = "Description"
	ColumnWhereHow    = "Where/How"
)

var monthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthColumn returns the header of the availability column for month (1-12).
func MonthColumn(month int) string {
	return "NH " + monthAbbrev[month-1]
}

// ExpectedColumns lists the headers a catalog sheet should have, in the
// order they are reported when missing.
func ExpectedColumns() []string {
	cols := []string{ColumnName, ColumnSell, ColumnDescription, ColumnWhereHow}
	for m := 1; m <= 12; m++ {
		cols = append(cols, MonthColumn(m))
	}
	return cols
}

// FuzzyMatch records a header cell accepted as a near miss for an expected column.
type FuzzyMatch struct {
	Expected string
	Found    string
	Distance int
}

// Header maps expected column names to cell indexes of one sheet.
type Header struct {
	index   map[string]int
	Fuzzy   []FuzzyMatch
	Missing []string
}

// Index returns the cell position of column, or -1 when it was not found.
func (h *Header) Index(column string) int {
	if i, ok := h.index[column]; ok {
		return i
	}
	return -1
}

// Cell returns the value of column in row, or nil when the column is missing
// or the row is too short. A nil cell reads as empty downstream.
func (h *Header) Cell(row []string, column string) any {
	i := h.Index(column)
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// fuzzyColumns are the only headers that may resolve to a near miss. Month
// columns differ from the other hemisphere's by one letter, so they must
// match exactly.
var fuzzyColumns = map[string]bool{
	ColumnName:        true,
	ColumnSell:        true,
	ColumnDescription: true,
	ColumnWhereHow:    true,
}

// ResolveHeader matches the header row against expected. Exact matches
// (case and whitespace insensitive) are taken first; each remaining text
// column then takes the closest unclaimed cell within a small edit distance,
// unless two cells tie for closest.
func ResolveHeader(row []string, expected []string) *Header {
	h := &Header{index: make(map[string]int, len(expected))}
	claimed := make(map[int]bool, len(row))

	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeHeader(cell)
	}

	for _, col := range expected {
		want := normalizeHeader(col)
		for i, got := range normalized {
			if !claimed[i] && got != "" && got == want {
				h.index[col] = i
				claimed[i] = true
				break
			}
		}
	}

	for _, col := range expected {
		if _, ok := h.index[col]; ok {
			continue
		}
		if !fuzzyColumns[col] {
			h.Missing = append(h.Missing, col)
			continue
		}
		want := normalizeHeader(col)
		limit := headerDistanceLimit(len(want))
		best, bestDist, tied := -1, limit+1, false
		for i, got := range normalized {
			if claimed[i] || got == "" {
				continue
			}
			dist := levenshtein.ComputeDistance(want, got)
			switch {
			case dist < bestDist:
				best, bestDist, tied = i, dist, false
			case dist == bestDist:
				tied = true
			}
		}
		if best < 0 || tied {
			h.Missing = append(h.Missing, col)
			continue
		}
		h.index[col] = best
		claimed[best] = true
		h.Fuzzy = append(h.Fuzzy, FuzzyMatch{Expected: col, Found: row[best], Distance: bestDist})
	}
	return h
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func headerDistanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	default:
		return 2
	}
}
