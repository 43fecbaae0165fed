package pdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/pdf/extraction"
)

// Service handles PDF file operations by orchestrating the validator,
// the text reader, the form extractor and discovery
type Service struct {
	maxFileSize int64
	validator   *Validator
	reader      *Reader
	forms       *extraction.FormExtractor
	search      *Search
	logger      *zap.Logger
}

// NewService creates a new PDF service with all components. The form
// extractor consults the widget backend first and the AcroForm backend
// second unless backends are given.
func NewService(maxFileSize int64, logger *zap.Logger, backends ...extraction.FieldBackend) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	validator := NewValidator(maxFileSize)
	return &Service{
		maxFileSize: maxFileSize,
		validator:   validator,
		reader:      NewReader(logger),
		forms:       extraction.NewFormExtractor(logger, backends...),
		search:      NewSearch(),
		logger:      logger,
	}
}

// Load validates path and runs both extractors on it. Only validation and
// open failures are returned; form backends degrade silently.
func (s *Service) Load(path string) (*Document, error) {
	if err := s.validator.Validate(path); err != nil {
		return nil, err
	}

	text, err := s.reader.ExtractText(path)
	if err != nil {
		return nil, err
	}

	fields := s.forms.ExtractFields(path)

	s.logger.Debug("document loaded",
		zap.String("file", path),
		zap.Int("text_bytes", len(text)),
		zap.Int("form_fields", len(fields)))

	return &Document{
		Path:       path,
		Text:       text,
		FormFields: fields,
	}, nil
}

// FormDiagnostics runs every form backend on path and reports them one by one
func (s *Service) FormDiagnostics(path string) (*FormDiagnostics, error) {
	if err := s.validator.Validate(path); err != nil {
		return nil, err
	}

	results := s.forms.ExtractByBackend(path)
	merged := make(map[string]string)
	for _, r := range results {
		for name, value := range r.Fields {
			merged[name] = value
		}
	}

	return &FormDiagnostics{
		Path:     path,
		Backends: results,
		Merged:   merged,
	}, nil
}

// FindDocuments lists the files in directory matching pattern
func (s *Service) FindDocuments(directory, pattern string) ([]string, error) {
	return s.search.FindDocuments(directory, pattern)
}

// FormBackends returns the form backend names in consultation order
func (s *Service) FormBackends() []string {
	return s.forms.Backends()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}
