package extraction

import (
	"fmt"

	"go.uber.org/zap"
)

// FieldBackend reads interactive form field values from a PDF file. Each
// backend opens the document on its own.
type FieldBackend interface {
	Name() string
	ExtractFields(filePath string) (map[string]string, error)
}

// BackendResult is the outcome of a single backend run
type BackendResult struct {
	Backend string            `json:"backend"`
	Fields  map[string]string `json:"fields"`
	Error   string            `json:"error,omitempty"`
}

// FormExtractor merges the field maps of several backends
type FormExtractor struct {
	backends []FieldBackend
	logger   *zap.Logger
}

// NewFormExtractor creates a form extractor consulting backends in order.
// Without explicit backends the widget backend runs first and the AcroForm
// backend second.
func NewFormExtractor(logger *zap.Logger, backends ...FieldBackend) *FormExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(backends) == 0 {
		backends = []FieldBackend{
			NewWidgetBackend(),
			NewPDFCPUFormExtractor(),
		}
	}
	return &FormExtractor{
		backends: backends,
		logger:   logger,
	}
}

// Backends returns the backend names in consultation order
func (fe *FormExtractor) Backends() []string {
	names := make([]string, 0, len(fe.backends))
	for _, b := range fe.backends {
		names = append(names, b.Name())
	}
	return names
}

// ExtractFields returns the merged field map of all backends. When two
// backends report the same field name, the backend consulted last wins.
// A failing backend contributes nothing.
func (fe *FormExtractor) ExtractFields(filePath string) map[string]string {
	merged := make(map[string]string)
	for _, result := range fe.ExtractByBackend(filePath) {
		for name, value := range result.Fields {
			merged[name] = value
		}
	}
	return merged
}

// ExtractByBackend runs every backend and reports each result separately
func (fe *FormExtractor) ExtractByBackend(filePath string) []BackendResult {
	results := make([]BackendResult, 0, len(fe.backends))

	for _, backend := range fe.backends {
		fields, err := fe.run(backend, filePath)
		result := BackendResult{Backend: backend.Name(), Fields: map[string]string{}}
		if err != nil {
			fe.logger.Debug("form field backend failed",
				zap.String("backend", backend.Name()),
				zap.String("file", filePath),
				zap.Error(err))
			result.Error = err.Error()
		} else {
			for name, value := range fields {
				if name != "" && value != "" {
					result.Fields[name] = value
				}
			}
		}
		results = append(results, result)
	}

	return results
}

func (fe *FormExtractor) run(backend FieldBackend, filePath string) (fields map[string]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fields = nil
			err = fmt.Errorf("%s backend panicked: %v", backend.Name(), rec)
		}
	}()
	return backend.ExtractFields(filePath)
}
