package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/batch"
	"github.com/a3tai/committee-records/internal/config"
	"github.com/a3tai/committee-records/internal/logging"
	"github.com/a3tai/committee-records/internal/mcp"
	"github.com/a3tai/committee-records/internal/pdf"
	"github.com/a3tai/committee-records/internal/record"
	"github.com/a3tai/committee-records/internal/sheet"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newProcessor wires the document service, the workbook sink and the
// error log for cfg
func newProcessor(cfg *config.Config, logger *zap.Logger) (*batch.Processor, error) {
	schema := record.DefaultSchema()
	documents := pdf.NewService(cfg.MaxFileSize, logger)
	if err := documents.ValidateConfiguration(); err != nil {
		return nil, err
	}

	return batch.NewProcessor(batch.Options{
		Documents:    documents,
		Schema:       schema,
		Sink:         sheet.New(cfg.Output, cfg.Template, schema, logger),
		ErrorLogPath: cfg.ErrorLog,
		Logger:       logger,
	})
}

// runBatchMode processes every matching PDF in the input directory
func runBatchMode(cfg *config.Config, processor *batch.Processor, out io.Writer) error {
	result, err := processor.RunDirectory(cfg.InputDir, cfg.Pattern)

	fmt.Fprintf(out, "Processed %d documents: %d valid, %d failed\n",
		result.Total(), len(result.Valid), len(result.Failures))
	if len(result.Valid) > 0 {
		fmt.Fprintf(out, "Records written to %s\n", processor.OutputPath())
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(out, "Failures logged to %s\n", processor.ErrorLogPath())
	}

	return err
}

// runFileMode processes one PDF and appends its record when valid
func runFileMode(cfg *config.Config, processor *batch.Processor, out io.Writer) error {
	outcome, err := processor.ProcessFile(cfg.File)
	if err != nil {
		return err
	}

	if !outcome.Valid() {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(outcome.Failure); err != nil {
			return err
		}
		return fmt.Errorf("%s: no valid record", outcome.File)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(outcome.Record); err != nil {
		return err
	}
	fmt.Fprintf(out, "Record appended to %s\n", cfg.Output)
	return nil
}

// runStdioMode serves MCP on stdio until stdin closes or a signal arrives
func runStdioMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *zap.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger.Debug("starting", zap.String("config", cfg.String()))

	processor, err := newProcessor(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create processor", zap.Error(err))
	}

	switch {
	case cfg.IsStdioMode():
		server, err := mcp.NewServer(cfg, processor, logger)
		if err != nil {
			logger.Fatal("failed to create MCP server", zap.Error(err))
		}

		// Set up context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err = runStdioMode(ctx, cancel, server, logger)
		if err != nil {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}

	case cfg.IsFileMode():
		if err := runFileMode(cfg, processor, os.Stdout); err != nil {
			logger.Error("file processing failed", zap.Error(err))
			os.Exit(1)
		}

	default:
		if err := runBatchMode(cfg, processor, os.Stdout); err != nil {
			logger.Error("batch finished with errors", zap.Error(err))
			os.Exit(1)
		}
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Committee Records\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
