package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
// Every one of them is fatal for a run: nothing is written when they occur.
var (
	// ErrWorkbookNotFound indicates the source workbook path does not exist.
	ErrWorkbookNotFound = errors.New("workbook not found")

	// ErrWorkbookUnreadable indicates the workbook exists but could not be opened or read.
	ErrWorkbookUnreadable = errors.New("workbook unreadable")

	// ErrNoRecords indicates the run produced an empty catalog.
	ErrNoRecords = errors.New("no records produced")

	// ErrRequiredSheetEmpty indicates a sheet marked required yielded zero records.
	ErrRequiredSheetEmpty = errors.New("required sheet produced no records")
)

// ErrRecordNotFound indicates a stored catalog has no record with the requested id.
var ErrRecordNotFound = errors.New("record not found")

// ErrInvalidQuery indicates a read request with malformed parameters.
var ErrInvalidQuery = errors.New("invalid query")
