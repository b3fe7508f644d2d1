package main

import (
	"errors"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
	catalogdomain "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain"
)

// Process exit codes. Warnings never change the exit code.
const (
	exitOK           = 0
	exitFailure      = 1
	exitNoWorkbook   = 2
	exitUnreadable   = 3
	exitNoRecords    = 4
	exitSinkFailure  = 5
	exitInvalidUsage = 64
)

// errSink marks failures of the optional snapshot sinks. The documents were
// already written when it occurs.
var errSink = errors.New("snapshot sink failed")

// errUsage marks configuration the importer cannot run with.
var errUsage = errors.New("invalid configuration")

// exitCode maps err to a process exit code.
// Add a case for each new fatal sentinel error.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, config.ErrHelpWanted):
		return exitOK
	case errors.Is(err, catalogdomain.ErrWorkbookNotFound):
		return exitNoWorkbook
	case errors.Is(err, catalogdomain.ErrWorkbookUnreadable):
		return exitUnreadable
	case errors.Is(err, catalogdomain.ErrNoRecords),
		errors.Is(err, catalogdomain.ErrRequiredSheetEmpty):
		return exitNoRecords
	case errors.Is(err, errSink):
		return exitSinkFailure
	case errors.Is(err, errUsage):
		return exitInvalidUsage
	default:
		return exitFailure
	}
}
