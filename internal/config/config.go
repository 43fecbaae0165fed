package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/committee-records/internal/logging"
)

const (
	// Mode constants
	ModeBatch = "batch"
	ModeFile  = "file"
	ModeStdio = "stdio"

	// Default values
	DefaultPattern      = "*.pdf"
	DefaultOutputName   = "ExtractPdfData.xlsm"
	DefaultTemplateName = "Template.xlsm"
	DefaultErrorLogName = "errors.json"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB

	envPrefix = "COMMITTEE_RECORDS"
)

// Config holds all configuration for the record extractor
type Config struct {
	// Mode selects batch processing, single file processing or the MCP
	// stdio server
	Mode string

	// Input configuration
	InputDir string
	Pattern  string
	File     string

	// Output configuration. Empty paths are derived from InputDir by
	// ResolvePaths.
	Output   string
	Template string
	ErrorLog string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:        ModeBatch,
		InputDir:    currentDir,
		Pattern:     DefaultPattern,
		Version:     "1.0.0",
		ServerName:  "committee-records",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// A positional argument selects a single file
	if cfg.File == "" && pflag.NArg() > 0 {
		cfg.File = pflag.Arg(0)
		if cfg.Mode == ModeBatch {
			cfg.Mode = ModeFile
		}
	}

	cfg.ResolvePaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.InputDir)
	viper.SetDefault("pattern", cfg.Pattern)
	viper.SetDefault("file", cfg.File)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("template", cfg.Template)
	viper.SetDefault("errorlog", cfg.ErrorLog)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' for a directory, 'file' for one PDF, 'stdio' for the MCP server")
	pflag.String("dir", cfg.InputDir, "Directory containing committee report PDFs")
	pflag.String("pattern", cfg.Pattern, "Glob pattern selecting PDFs inside --dir")
	pflag.String("file", cfg.File, "Single PDF to process (file mode)")
	pflag.String("output", cfg.Output, "Output workbook (default <dir>/"+DefaultOutputName+")")
	pflag.String("template", cfg.Template, "Template workbook copied when the output does not exist "+
		"(default <dir>/"+DefaultTemplateName+" if present)")
	pflag.String("errorlog", cfg.ErrorLog, "Error log path (default <dir>/"+DefaultErrorLogName+")")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "dir", "pattern", "file", "output", "template", "errorlog", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCommittee Records - extract committee report PDFs into a spreadsheet\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms                    # process every PDF in a directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms report.pdf         # process and append one PDF\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/forms       # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE        Run mode\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_DIR         Input directory\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PATTERN     Glob pattern\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_OUTPUT      Output workbook\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_TEMPLATE    Template workbook\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_ERRORLOG    Error log path\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL    Log level\n", envPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXFILESIZE Maximum file size\n", envPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputDir = viper.GetString("dir")
	cfg.Pattern = viper.GetString("pattern")
	cfg.File = viper.GetString("file")
	cfg.Output = viper.GetString("output")
	cfg.Template = viper.GetString("template")
	cfg.ErrorLog = viper.GetString("errorlog")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// ResolvePaths makes InputDir absolute and derives the output, template
// and error log paths that were left empty. The template default is only
// used when the file exists.
func (c *Config) ResolvePaths() {
	if c.InputDir != "" {
		if expandedPath, err := filepath.Abs(c.InputDir); err == nil {
			c.InputDir = expandedPath
		}
	}
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}

	if c.Output == "" {
		c.Output = filepath.Join(c.InputDir, DefaultOutputName)
	}
	if c.ErrorLog == "" {
		c.ErrorLog = filepath.Join(c.InputDir, DefaultErrorLogName)
	}
	if c.Template == "" {
		candidate := filepath.Join(c.InputDir, DefaultTemplateName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			c.Template = candidate
		}
	}

	if c.File != "" && !filepath.IsAbs(c.File) {
		if _, err := os.Stat(c.File); err != nil {
			// Relative names are looked up in the input directory first
			inDir := filepath.Join(c.InputDir, c.File)
			if _, err := os.Stat(inDir); err == nil {
				c.File = inDir
			}
		}
		if abs, err := filepath.Abs(c.File); err == nil {
			c.File = abs
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBatch, ModeFile, ModeStdio:
	default:
		return errors.New("mode must be one of 'batch', 'file' or 'stdio'")
	}

	if c.InputDir == "" {
		return errors.New("input directory cannot be empty")
	}

	info, err := os.Stat(c.InputDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", c.InputDir)
	} else if err != nil {
		return fmt.Errorf("cannot access input directory %s: %w", c.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.InputDir)
	}

	if c.Mode == ModeFile && c.File == "" {
		return errors.New("file mode requires a PDF file")
	}

	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}

	if c.Output == "" {
		return errors.New("output workbook cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputDir: %s, Pattern: %s, File: %s, Output: %s, Template: %s, "+
		"ErrorLog: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.InputDir, c.Pattern, c.File, c.Output, c.Template, c.ErrorLog, c.LogLevel, c.MaxFileSize)
}

// IsBatchMode returns true when a whole directory is processed
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsFileMode returns true when a single PDF is processed
func (c *Config) IsFileMode() bool {
	return c.Mode == ModeFile
}

// IsStdioMode returns true if the MCP server runs on stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
