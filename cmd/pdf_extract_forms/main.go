package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/config"
	"github.com/a3tai/committee-records/internal/logging"
	"github.com/a3tai/committee-records/internal/pdf"
	"github.com/a3tai/committee-records/internal/record"
)

var (
	outputFormat = pflag.String("format", "text", "Output format: text, json")
	verbose      = pflag.Bool("verbose", false, "Log backend failures to stderr")
	help         = pflag.Bool("help", false, "Show help message")
)

// FormExtractionResult is everything the tool reports for one PDF
type FormExtractionResult struct {
	FilePath string               `json:"file_path"`
	Forms    *pdf.FormDiagnostics `json:"forms,omitempty"`
	Text     map[string]string    `json:"text_fields,omitempty"`
	Record   *record.Record       `json:"record,omitempty"`
	Missing  []string             `json:"validation_errors,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func main() {
	pflag.Usage = printHelp
	pflag.Parse()

	if *help {
		printHelp()
		return
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	result := inspect(pflag.Arg(0), logger)

	if err := outputResults(os.Stdout, result, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
	if result.Error != "" {
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("PDF Extract Forms - show what each form backend reads from a committee report")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --format       Output format: text (default), json")
	fmt.Println("  --verbose      Log backend failures to stderr")
	fmt.Println("  --help         Show this help message")
	fmt.Println()
	fmt.Println("The report lists the fields found by the widget annotation backend and the")
	fmt.Println("AcroForm backend, the merged field map, the key/value pairs found in the")
	fmt.Println("page text and the normalized record with its validation result.")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdf_extract_forms [OPTIONS] <pdf_file>")
}

// inspect runs both extractors and the normalizer on pdfPath
func inspect(pdfPath string, logger *zap.Logger) *FormExtractionResult {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		absPath = pdfPath
	}
	result := &FormExtractionResult{FilePath: absPath}

	service := pdf.NewService(config.DefaultMaxFileSize, logger)

	forms, err := service.FormDiagnostics(absPath)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Forms = forms

	doc, err := service.Load(absPath)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	schema := record.DefaultSchema()
	result.Text = record.ParseKeyValues(doc.Text)
	rec := record.NewNormalizer(schema, logger).Normalize(result.Text, doc.FormFields)
	result.Record = &rec
	result.Missing = record.NewValidator(schema).Validate(rec)

	return result
}

func outputResults(w io.Writer, result *FormExtractionResult, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		outputText(w, result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputText(w io.Writer, result *FormExtractionResult) {
	fmt.Fprintf(w, "File: %s\n", result.FilePath)
	if result.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", result.Error)
		return
	}

	for _, backend := range result.Forms.Backends {
		fmt.Fprintf(w, "\n[%s] %d fields\n", backend.Backend, len(backend.Fields))
		if backend.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", backend.Error)
		}
		printMap(w, backend.Fields)
	}

	fmt.Fprintf(w, "\n[merged] %d fields\n", len(result.Forms.Merged))
	printMap(w, result.Forms.Merged)

	fmt.Fprintf(w, "\n[text] %d key/value lines\n", len(result.Text))
	printMap(w, result.Text)

	fmt.Fprintf(w, "\n[record]\n")
	for i, column := range result.Record.Schema().Columns() {
		fmt.Fprintf(w, "  %2d. %-30s %s\n", i+1, column, result.Record.Get(column))
	}

	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "\nInvalid: %s\n", result.Missing[0])
	} else {
		fmt.Fprintf(w, "\nValid\n")
	}
}

func printMap(w io.Writer, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %q\n", k, m[k])
	}
}
