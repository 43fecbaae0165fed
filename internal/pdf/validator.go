package pdf

import (
	"fmt"
	"os"
	"strings"

	pdferrors "github.com/a3tai/committee-records/internal/pdf/errors"
)

// Validator performs the checks a document must pass before it is opened
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Validate checks that path names a non-empty .pdf file within the size limit
func (v *Validator) Validate(path string) error {
	if path == "" {
		return pdferrors.Newf(pdferrors.ErrorTypeInvalidFile, path, "path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return pdferrors.Newf(pdferrors.ErrorTypeInvalidFile, path, "file does not exist: %s", path)
	}
	if err != nil {
		return pdferrors.New(pdferrors.ErrorTypeInvalidFile, path, fmt.Errorf("cannot access file: %w", err))
	}

	if err := v.ValidateFileInfo(path, fileInfo); err != nil {
		return pdferrors.New(pdferrors.ErrorTypeInvalidFile, path, err)
	}

	return nil
}

// ValidateFileInfo performs the validation without touching the filesystem
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
