package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/batch"
	"github.com/a3tai/committee-records/internal/config"
	"github.com/a3tai/committee-records/internal/descriptions"
	"github.com/a3tai/committee-records/internal/pdf"
	"github.com/a3tai/committee-records/internal/record"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	processor *batch.Processor
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// fileResult is the response of the single document tools
type fileResult struct {
	File     string         `json:"file"`
	Valid    bool           `json:"valid"`
	Record   *record.Record `json:"record,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Appended bool           `json:"appended"`
}

// directoryResult is the response of record_process_directory
type directoryResult struct {
	Directory string               `json:"directory"`
	Pattern   string               `json:"pattern"`
	Documents int                  `json:"documents"`
	Valid     int                  `json:"valid"`
	Failed    int                  `json:"failed"`
	Failures  []batch.FailureEntry `json:"failures,omitempty"`
	Output    string               `json:"output,omitempty"`
	ErrorLog  string               `json:"error_log,omitempty"`
}

// schemaResult is the response of record_schema
type schemaResult struct {
	Columns       []string          `json:"columns"`
	Required      []string          `json:"required"`
	FieldMapping  map[string]string `json:"field_mapping"`
	DecisionCodes map[string]string `json:"decision_codes"`
	RankingCodes  map[string]string `json:"ranking_codes"`
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, processor *batch.Processor, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		processor: processor,
		mcpServer: mcpServer,
		logger:    logger,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		descriptions.ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF, absolute or relative to the input directory"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	appendFileTool := mcp.NewTool(
		descriptions.ToolAppendFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolAppendFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF, absolute or relative to the input directory"),
		),
	)
	s.mcpServer.AddTool(appendFileTool, s.handleAppendFile)

	processDirectoryTool := mcp.NewTool(
		descriptions.ToolProcessDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolProcessDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the input directory if empty)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Glob pattern selecting PDFs (default *.pdf)"),
		),
	)
	s.mcpServer.AddTool(processDirectoryTool, s.handleProcessDirectory)

	schemaTool := mcp.NewTool(
		descriptions.ToolSchema,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolSchema)),
	)
	s.mcpServer.AddTool(schemaTool, s.handleSchema)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.resolvePath(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(newFileResult(s.processor.Process(path), false))
}

func (s *Server) handleAppendFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.resolvePath(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome, err := s.processor.ProcessFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(newFileResult(outcome, outcome.Valid()))
}

func (s *Server) handleProcessDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.InputDir // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	pattern := s.config.Pattern
	if p, ok := args["pattern"].(string); ok && p != "" {
		pattern = p
	}

	directory, err := s.resolvePath(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	errorLog := s.errorLogFor(directory)
	result, err := s.processor.RunDirectoryWithErrorLog(directory, pattern, errorLog)
	if err != nil && result.Total() == 0 {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := directoryResult{
		Directory: directory,
		Pattern:   pattern,
		Documents: result.Total(),
		Valid:     len(result.Valid),
		Failed:    len(result.Failures),
		Failures:  result.Failures,
	}
	if len(result.Valid) > 0 {
		response.Output = s.processor.OutputPath()
	}
	if len(result.Failures) > 0 {
		response.ErrorLog = errorLog
	}

	if err != nil {
		// Records were processed but writing them failed
		return mcp.NewToolResultError(fmt.Sprintf("batch finished with write errors: %v", err)), nil
	}

	return jsonResult(response)
}

func (s *Server) handleSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schema := s.processor.Schema()
	return jsonResult(schemaResult{
		Columns:       schema.Columns(),
		Required:      schema.Required(),
		FieldMapping:  schema.FieldMapping(),
		DecisionCodes: schema.DecisionCodes(),
		RankingCodes:  schema.RankingCodes(),
	})
}

// errorLogFor places the error log beside the processed documents: the
// configured log for the input directory, a log with the same file name
// inside any subdirectory.
func (s *Server) errorLogFor(directory string) string {
	configured := s.processor.ErrorLogPath()
	if configured == "" {
		return ""
	}

	inputDir, err := filepath.Abs(s.config.InputDir)
	if err != nil {
		return configured
	}
	dir, err := filepath.Abs(directory)
	if err != nil || dir == inputDir {
		return configured
	}
	return filepath.Join(dir, filepath.Base(configured))
}

// resolvePath anchors relative paths at the input directory and rejects
// anything outside it
func (s *Server) resolvePath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.config.InputDir, path)
	}

	within, err := pdf.IsPathWithinDirectory(path, s.config.InputDir)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("security validation failed: path %s is outside %s", path, s.config.InputDir)
	}

	return filepath.Clean(path), nil
}

func newFileResult(outcome batch.Outcome, appended bool) fileResult {
	if outcome.Valid() {
		return fileResult{
			File:     outcome.File,
			Valid:    true,
			Record:   outcome.Record,
			Appended: appended,
		}
	}
	return fileResult{
		File:   outcome.File,
		Errors: outcome.Failure.Errors,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run serves MCP over stdio until stdin closes
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio",
		zap.String("name", s.config.ServerName),
		zap.String("input_dir", s.config.InputDir))

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
