// Package sheet appends records to an Excel workbook, creating it from a
// template on first use.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/record"
)

// Workbook is the spreadsheet sink. Each Append opens the output file,
// writes after the last used row of the active sheet and saves in place.
type Workbook struct {
	mu       sync.Mutex
	output   string
	template string
	schema   *record.Schema
	logger   *zap.Logger
}

// New creates a sink writing to output. When output does not exist yet it
// is created as a byte copy of template, or as a fresh workbook with a
// header row when template is "".
func New(output, template string, schema *record.Schema, logger *zap.Logger) *Workbook {
	if schema == nil {
		schema = record.DefaultSchema()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{
		output:   output,
		template: template,
		schema:   schema,
		logger:   logger,
	}
}

// Path returns the output workbook path
func (w *Workbook) Path() string {
	return w.output
}

// Append writes one row per record, cells in column order
func (w *Workbook) Append(records []record.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return fmt.Errorf("workbook %s has no active sheet", w.output)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	next := len(rows) + 1
	for _, rec := range records {
		if err := writeRow(f, sheet, next, rec.Values()); err != nil {
			return err
		}
		next++
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.output, err)
	}

	w.logger.Info("appended rows",
		zap.String("workbook", w.output),
		zap.String("sheet", sheet),
		zap.Int("rows", len(records)))

	return nil
}

// open returns the output workbook, creating it first when needed
func (w *Workbook) open() (*excelize.File, error) {
	_, err := os.Stat(w.output)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		if err := w.create(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot access workbook %s: %w", w.output, err)
	}

	f, err := excelize.OpenFile(w.output)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.output, err)
	}
	return f, nil
}

func (w *Workbook) create() error {
	if w.template != "" {
		return w.copyTemplate()
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := writeRow(f, sheet, 1, w.schema.Columns()); err != nil {
		return err
	}

	if err := f.SaveAs(w.output); err != nil {
		return fmt.Errorf("failed to create workbook %s: %w", w.output, err)
	}

	w.logger.Info("created workbook", zap.String("workbook", w.output))
	return nil
}

// copyTemplate copies the template verbatim so macro and style parts
// survive untouched
func (w *Workbook) copyTemplate() error {
	data, err := os.ReadFile(w.template)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", w.template, err)
	}

	if err := os.WriteFile(w.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to create workbook %s from template: %w", w.output, err)
	}

	w.logger.Info("created workbook from template",
		zap.String("workbook", w.output),
		zap.String("template", w.template))
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
