package importing

import (
	"errors"
	"fmt"
)

var (
	// ErrImportInProgress is returned by StartImport while a previous import
	// for the same project has not yet terminated.
	ErrImportInProgress = errors.New("import already in progress")

	// ErrCancelled is reported by stages that observe a cancellation request
	// on the progress indicator.
	ErrCancelled = errors.New("import cancelled")
)

// StageError wraps a failure from one pipeline stage with the stage name.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is, or wraps, a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
