// Package batch runs the extraction pipeline over a set of documents and
// partitions them into valid records and failures.
package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/pdf"
	pdferrors "github.com/a3tai/committee-records/internal/pdf/errors"
	"github.com/a3tai/committee-records/internal/record"
)

// Options configures a Processor
type Options struct {
	Documents *pdf.Service
	Schema    *record.Schema
	// Sink receives the valid records of a run; nil disables writing
	Sink Sink
	// ErrorLogPath is where failures are written; "" disables the log
	ErrorLogPath string
	Logger       *zap.Logger
}

// Processor drives documents through validation, extraction,
// normalization and record validation, one at a time
type Processor struct {
	documents    *pdf.Service
	schema       *record.Schema
	normalizer   *record.Normalizer
	validator    *record.Validator
	sink         Sink
	errorLogPath string
	logger       *zap.Logger
}

// NewProcessor creates a processor. A nil schema selects the default
// schema.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.Documents == nil {
		return nil, fmt.Errorf("document service is required")
	}
	if opts.Schema == nil {
		opts.Schema = record.DefaultSchema()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Processor{
		documents:    opts.Documents,
		schema:       opts.Schema,
		normalizer:   record.NewNormalizer(opts.Schema, opts.Logger),
		validator:    record.NewValidator(opts.Schema),
		sink:         opts.Sink,
		errorLogPath: opts.ErrorLogPath,
		logger:       opts.Logger,
	}, nil
}

// Schema returns the schema records are normalized to
func (p *Processor) Schema() *record.Schema {
	return p.schema
}

// Discover lists the documents in dir matching pattern in discovery order
func (p *Processor) Discover(dir, pattern string) ([]string, error) {
	paths, err := p.documents.FindDocuments(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to discover documents: %w", err)
	}

	p.logger.Info("discovered documents",
		zap.String("directory", dir),
		zap.String("pattern", pattern),
		zap.Int("count", len(paths)))

	return paths, nil
}

// Process runs the full pipeline on one document. It never fails: errors
// and panics become a FailureEntry for the document.
func (p *Processor) Process(path string) (out Outcome) {
	name := filepath.Base(path)

	defer func() {
		if rec := recover(); rec != nil {
			err := pdferrors.FromPanic(pdferrors.ErrorTypeExtractionFailed, path, rec)
			p.logger.Error("document processing panicked",
				zap.String("file", name),
				zap.Error(err))
			out = failure(name, err.Error())
		}
	}()

	p.logger.Info("parsing document", zap.String("file", name))

	doc, err := p.documents.Load(path)
	if err != nil {
		p.logger.Warn("document failed", zap.String("file", name), zap.Error(err))
		return failure(name, err.Error())
	}

	textFields := record.ParseKeyValues(doc.Text)
	rec := p.normalizer.Normalize(textFields, doc.FormFields)

	if messages := p.validator.Validate(rec); len(messages) > 0 {
		p.logger.Warn("document rejected",
			zap.String("file", name),
			zap.Strings("errors", messages))
		return failure(name, messages...)
	}

	return Outcome{File: name, Record: &rec}
}

// Run processes paths in order and partitions the outcomes. Every path is
// accounted for exactly once.
func (p *Processor) Run(paths []string) Result {
	var result Result
	for _, path := range paths {
		result.Add(p.Process(path))
	}

	p.logger.Info("batch processed",
		zap.Int("documents", len(paths)),
		zap.Int("valid", len(result.Valid)),
		zap.Int("failed", len(result.Failures)))

	return result
}

// Finalize hands valid records to the sink and writes the error log. The
// sink is only called when there is at least one valid record and the
// log only written when there is at least one failure.
func (p *Processor) Finalize(result Result) error {
	return p.finalize(result, p.errorLogPath)
}

func (p *Processor) finalize(result Result, errorLog string) error {
	var errs []error

	if len(result.Valid) > 0 {
		if err := p.appendRecords(result.Valid); err != nil {
			errs = append(errs, err)
		}
	} else {
		p.logger.Warn("no valid records to write")
	}

	if len(result.Failures) > 0 && errorLog != "" {
		if err := WriteErrorLog(errorLog, result.Failures); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("wrote error log",
				zap.String("path", errorLog),
				zap.Int("failures", len(result.Failures)))
		}
	}

	return errors.Join(errs...)
}

// RunDirectory discovers, processes and finalizes one batch
func (p *Processor) RunDirectory(dir, pattern string) (Result, error) {
	return p.RunDirectoryWithErrorLog(dir, pattern, p.errorLogPath)
}

// RunDirectoryWithErrorLog is RunDirectory with failures written to
// errorLog instead of the configured log; "" disables the log.
func (p *Processor) RunDirectoryWithErrorLog(dir, pattern, errorLog string) (Result, error) {
	paths, err := p.Discover(dir, pattern)
	if err != nil {
		return Result{}, err
	}

	result := p.Run(paths)
	return result, p.finalize(result, errorLog)
}

// ErrorLogPath returns the configured error log location
func (p *Processor) ErrorLogPath() string {
	return p.errorLogPath
}

// OutputPath returns the file records are written to, or "" when the sink
// is not backed by a file.
func (p *Processor) OutputPath() string {
	if f, ok := p.sink.(interface{ Path() string }); ok {
		return f.Path()
	}
	return ""
}

// ProcessFile processes a single document and appends its record to the
// sink right away when it is valid. Failures are returned in the outcome
// and not logged to the error log.
func (p *Processor) ProcessFile(path string) (Outcome, error) {
	outcome := p.Process(path)
	if !outcome.Valid() {
		return outcome, nil
	}

	if err := p.appendRecords([]record.Record{*outcome.Record}); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (p *Processor) appendRecords(records []record.Record) error {
	if p.sink == nil {
		p.logger.Debug("no sink configured, skipping write", zap.Int("records", len(records)))
		return nil
	}

	if err := p.sink.Append(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	p.logger.Info("wrote records", zap.Int("records", len(records)))
	return nil
}

func failure(file string, messages ...string) Outcome {
	return Outcome{File: file, Failure: &FailureEntry{File: file, Errors: messages}}
}
