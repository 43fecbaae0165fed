package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteErrorLog writes failures to path as an indented JSON array,
// replacing any previous log.
func WriteErrorLog(path string, failures []FailureEntry) error {
	if failures == nil {
		failures = []FailureEntry{}
	}

	data, err := json.MarshalIndent(failures, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode error log: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write error log %s: %w", path, err)
	}

	return nil
}
