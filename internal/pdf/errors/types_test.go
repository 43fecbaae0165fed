package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentError(t *testing.T) {
	cause := errors.New("malformed xref")
	err := New(ErrorTypeOpenFailed, "/forms/a.pdf", cause)

	assert.Equal(t, "[OPEN_FAILED] malformed xref", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeOpenFailed, TypeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(cause))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "INVALID_FILE", ErrorTypeInvalidFile.String())
	assert.Equal(t, "OPEN_FAILED", ErrorTypeOpenFailed.String())
	assert.Equal(t, "EXTRACTION_FAILED", ErrorTypeExtractionFailed.String())
	assert.Equal(t, "UNKNOWN", ErrorTypeUnknown.String())
}

func TestFromPanic(t *testing.T) {
	err := FromPanic(ErrorTypeExtractionFailed, "a.pdf", "index out of range")
	assert.Equal(t, "[EXTRACTION_FAILED] panic: index out of range", err.Error())

	cause := errors.New("nil dict")
	err = FromPanic(ErrorTypeExtractionFailed, "a.pdf", cause)
	assert.ErrorIs(t, err, cause)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeInvalidFile, "a.pdf", "file is empty: %s", "a.pdf")
	assert.Equal(t, "[INVALID_FILE] file is empty: a.pdf", err.Error())
	assert.Equal(t, "a.pdf", err.Path)
}
