package compiler

import "fmt"

// CompilationError is the single failure kind returned by this package.
// Query carries the offending query text when available, and Err the
// underlying cause when the failure wraps another error.
type CompilationError struct {
	Message string
	Query   string
	Err     error
}

// Error returns the descriptive message, followed by the underlying
// cause when one is attached.
func (e *CompilationError) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

// Unwrap returns the underlying cause, if any.
func (e *CompilationError) Unwrap() error {
	return e.Err
}

func newError(message string) *CompilationError {
	return &CompilationError{Message: message}
}

func errorf(format string, args ...interface{}) *CompilationError {
	return &CompilationError{Message: fmt.Sprintf(format, args...)}
}
