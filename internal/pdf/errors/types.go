package errors

import (
	"errors"
	"fmt"
)

// DocumentError is a failure that ends processing of a single document.
type DocumentError struct {
	Type ErrorType
	Path string
	Err  error
}

// ErrorType categorizes document-level failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidFile
	ErrorTypeOpenFailed
	ErrorTypeExtractionFailed
)

// Error implements the error interface
func (e *DocumentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Type, e.Path)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the underlying error
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidFile:
		return "INVALID_FILE"
	case ErrorTypeOpenFailed:
		return "OPEN_FAILED"
	case ErrorTypeExtractionFailed:
		return "EXTRACTION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// New creates a DocumentError for path
func New(errorType ErrorType, path string, err error) *DocumentError {
	return &DocumentError{
		Type: errorType,
		Path: path,
		Err:  err,
	}
}

// Newf creates a DocumentError with a formatted cause
func Newf(errorType ErrorType, path, format string, args ...interface{}) *DocumentError {
	return New(errorType, path, fmt.Errorf(format, args...))
}

// TypeOf returns the ErrorType of the first DocumentError in err's chain,
// or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeUnknown
}

// FromPanic converts a recovered panic value into an error
func FromPanic(errorType ErrorType, path string, recovered interface{}) *DocumentError {
	if err, ok := recovered.(error); ok {
		return New(errorType, path, fmt.Errorf("panic: %w", err))
	}
	return Newf(errorType, path, "panic: %v", recovered)
}
