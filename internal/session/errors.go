package session

import "errors"

// Validation error codes
const (
	CodeDirectoryRequired  = "directory-required"
	CodeQueryRequired      = "query-required"
	CodeMaxFileSizeInvalid = "max-file-size-invalid"
	CodeMinFileSizeInvalid = "min-file-size-invalid"
	CodeSizeRangeInvalid   = "size-range-invalid"
	CodeMaxResultsInvalid  = "max-results-invalid"
	CodePatternInvalid     = "pattern-invalid"
)

// ValidationError is a local request error. It never reaches the worker and
// always returns the session to the idle state.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// ErrSessionBusy is returned by Submit while another session is running or
// cancelling. A second concurrent session would leak progress events into
// the wrong subscription.
var ErrSessionBusy = errors.New("a search is already in progress")

// ErrNotRunning is returned by Cancel when no session is running
var ErrNotRunning = errors.New("no search is running")
