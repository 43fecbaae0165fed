package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPattern selects every PDF in a directory
const DefaultPattern = "*.pdf"

// Search handles document discovery and directory containment checks
type Search struct{}

// NewSearch creates a new discovery handler
func NewSearch() *Search {
	return &Search{}
}

// FindDocuments returns the regular files directly inside directory whose
// names match pattern, sorted lexically. Files are not validated here so
// that a bad file still reaches the pipeline and is reported.
func (s *Search) FindDocuments(directory, pattern string) ([]string, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if pattern == "" {
		pattern = DefaultPattern
	}

	info, err := os.Stat(directory)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", directory)
	}

	matches, err := filepath.Glob(filepath.Join(directory, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	// Glob returns matches in lexical order
	files := make([]string, 0, len(matches))
	for _, path := range matches {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	return files, nil
}

// IsPathWithinDirectory checks if a path is within the specified directory
// after resolving symlinks
func IsPathWithinDirectory(path, directory string) (bool, error) {
	// Resolve both paths to absolute paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(directory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve directory: %w", err)
	}

	// Evaluate any symlinks to get the real path
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If the file doesn't exist yet, resolve its parent instead
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		realPath = absPath
		if parent, perr := filepath.EvalSymlinks(filepath.Dir(absPath)); perr == nil {
			realPath = filepath.Join(parent, filepath.Base(absPath))
		}
	}

	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate directory symlinks: %w", err)
	}

	realPath = filepath.Clean(realPath)
	realDir = filepath.Clean(realDir)

	if realPath == realDir {
		return true, nil
	}

	// Add a separator to the directory to ensure exact match
	if !strings.HasSuffix(realDir, string(filepath.Separator)) {
		realDir += string(filepath.Separator)
	}

	return strings.HasPrefix(realPath, realDir), nil
}
