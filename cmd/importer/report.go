package main

import (
	"fmt"
	"io"

	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/infrastructure/emitter"
)

// writeReport prints the warnings capped at limit, then the success summary
// with one line per written document.
func writeReport(w io.Writer, records int, outputs []emitter.Output, warnings *catalogdomain.Warnings, limit int) error {
	ew := &errWriter{w: w}
	if warnings.Len() > 0 {
		shown, hidden := warnings.Capped(limit)
		ew.printf("Warnings:\n")
		for _, warn := range shown {
			ew.printf(" - %s\n", warn)
		}
		if hidden > 0 {
			ew.printf("   ... %d additional warnings.\n", hidden)
		}
	}
	for i, o := range outputs {
		if i == 0 {
			ew.printf("Wrote %d items to %s\n", records, o.Path)
		} else {
			ew.printf("Wrote Luau module to %s\n", o.Path)
		}
	}
	return ew.err
}

// errWriter keeps the first write error so the report reads top to bottom.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
