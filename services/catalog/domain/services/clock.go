package services

import (
	"regexp"
	"strconv"
	"strings"
)

// clockPattern matches a leading hour, optional minutes and an optional
// meridiem, which may be written "PM", "pm", "p.m." or "P.M".
var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(?:([AaPp])\.?\s*[Mm]\.?)?`)

// ParseClock converts a single clock expression to a fractional hour.
// A bare hour is taken literally (no meridiem inference). ok is false when
// the text has no leading digit or the result falls outside [0,24).
func ParseClock(raw string) (hour float64, ok bool) {
	piece := CleanText(raw)
	m := clockPattern.FindStringSubmatch(piece)
	if m == nil {
		return 0, false
	}

	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minutes := 0
	if m[2] != "" {
		if minutes, err = strconv.Atoi(m[2]); err != nil || minutes > 59 {
			return 0, false
		}
	}

	switch strings.ToUpper(m[3]) {
	case "A":
		if h == 12 {
			h = 0
		}
	case "P":
		if h != 12 {
			h += 12
		}
	}

	hour = float64(h) + float64(minutes)/60
	if hour >= 24 {
		return 0, false
	}
	return hour, true
}
