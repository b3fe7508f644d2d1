package domain

import "fmt"

// WarningKind classifies a degraded-but-recoverable problem found during a run.
type WarningKind string

const (
	WarnMissingSheet     WarningKind = "missing_sheet"
	WarnMissingColumn    WarningKind = "missing_column"
	WarnFuzzyColumn      WarningKind = "fuzzy_column"
	WarnDuplicateID      WarningKind = "duplicate_id"
	WarnNoTimeWindows    WarningKind = "no_time_windows"
	WarnUnparsedSegment  WarningKind = "unparsed_time_segment"
	WarnInvalidRecord    WarningKind = "invalid_record"
	WarnNegativeValue    WarningKind = "negative_value"
	WarnReferencePayload WarningKind = "reference_payload"
	WarnRowPanic         WarningKind = "row_panic"
)

// Warning is one operator-facing note. Sheet and Row are optional context;
// Row is the 1-based workbook row, zero when the warning is not row-scoped.
type Warning struct {
	Kind    WarningKind
	Sheet   string
	Row     int
	Message string
}

func (w Warning) String() string {
	if w.Sheet == "" {
		return w.Message
	}
	return fmt.Sprintf("[%s] %s", w.Sheet, w.Message)
}

// Warnings accumulates warnings in the order they were raised.
// The zero value is ready to use.
type Warnings struct {
	items []Warning
}

// Add appends a warning.
func (ws *Warnings) Add(w Warning) {
	ws.items = append(ws.items, w)
}

// Addf appends a warning with a formatted message.
func (ws *Warnings) Addf(kind WarningKind, sheet string, row int, format string, args ...any) {
	ws.Add(Warning{Kind: kind, Sheet: sheet, Row: row, Message: fmt.Sprintf(format, args...)})
}

// All returns a copy of every warning in raise order.
func (ws *Warnings) All() []Warning {
	return append([]Warning(nil), ws.items...)
}

// Len reports the number of warnings collected.
func (ws *Warnings) Len() int {
	return len(ws.items)
}

// CountByKind tallies warnings per kind.
func (ws *Warnings) CountByKind() map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, w := range ws.items {
		counts[w.Kind]++
	}
	return counts
}

// Capped returns at most limit warnings plus the number suppressed.
// A non-positive limit shows everything.
func (ws *Warnings) Capped(limit int) ([]Warning, int) {
	if limit <= 0 || len(ws.items) <= limit {
		return ws.All(), 0
	}
	return append([]Warning(nil), ws.items[:limit]...), len(ws.items) - limit
}
