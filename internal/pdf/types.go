package pdf

import "github.com/a3tai/committee-records/internal/pdf/extraction"

// Document holds everything extracted from one PDF. It is built per file
// and never shared between files.
type Document struct {
	Path string `json:"path"`
	// Text is the plain text of every non-empty page, joined by newlines
	Text string `json:"text"`
	// FormFields maps fully qualified field names to their values, merged
	// across backends
	FormFields map[string]string `json:"form_fields"`
}

// FormDiagnostics reports each form backend separately
type FormDiagnostics struct {
	Path     string                     `json:"path"`
	Backends []extraction.BackendResult `json:"backends"`
	Merged   map[string]string          `json:"merged"`
}
