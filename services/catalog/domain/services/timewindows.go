package services

import (
	"regexp"
	"strings"

	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

var (
	annotationPattern = regexp.MustCompile(`\s*\(.*?\)`)
	segmentSplit      = regexp.MustCompile(`\s*[&,]\s*`)
	rangeSplit        = regexp.MustCompile(`\s*[-–—]\s*`)
)

// allDay is the window emitted for "All day" availability.
var allDay = models.TimeWindow{StartHour: 0, EndHour: 24}

// WindowExtraction is the outcome of reading the month cells of one record.
type WindowExtraction struct {
	// Windows holds the distinct windows in first-seen order.
	Windows []models.TimeWindow
	// Dropped lists range segments that could not be parsed.
	Dropped []string
	// Available is true when at least one month carried a value.
	Available bool
}

// ExtractTimeWindows parses the availability text of the monthly cells.
// Identical strings across months are parsed once; windows spanning midnight
// (start after end) are kept as written.
func ExtractTimeWindows(months []any) WindowExtraction {
	var res WindowExtraction

	seen := make(map[string]bool)
	var distinct []string
	for _, v := range months {
		text := CellText(v)
		if text == "" {
			continue
		}
		res.Available = true
		if !seen[text] {
			seen[text] = true
			distinct = append(distinct, text)
		}
	}

	res.Windows = []models.TimeWindow{}
	for _, text := range distinct {
		windows, dropped := parseAvailability(text)
		res.Dropped = append(res.Dropped, dropped...)
		for _, w := range windows {
			if !containsWindow(res.Windows, w) {
				res.Windows = append(res.Windows, w)
			}
		}
	}
	return res
}

// parseAvailability parses one compound availability string such as
// "9 AM – 4 PM & 9 PM – 4 AM".
func parseAvailability(text string) (windows []models.TimeWindow, dropped []string) {
	text = strings.TrimSpace(annotationPattern.ReplaceAllString(text, ""))
	if text == "" {
		return nil, nil
	}
	if strings.EqualFold(text, "all day") {
		return []models.TimeWindow{allDay}, nil
	}

	for _, seg := range segmentSplit.Split(text, -1) {
		if seg == "" {
			continue
		}
		parts := rangeSplit.Split(seg, -1)
		if len(parts) != 2 {
			dropped = append(dropped, seg)
			continue
		}
		start, okStart := ParseClock(parts[0])
		end, okEnd := ParseClock(parts[1])
		if !okStart || !okEnd {
			dropped = append(dropped, seg)
			continue
		}
		windows = append(windows, models.TimeWindow{StartHour: start, EndHour: end})
	}
	return windows, dropped
}

func containsWindow(ws []models.TimeWindow, w models.TimeWindow) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}
