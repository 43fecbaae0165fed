package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		assert.NotEqual(t, "Tool description not available", GetToolDescription(name), name)
	}
	assert.Equal(t, "Tool description not available", GetToolDescription("record_delete"))
}

func TestGetAllToolNames(t *testing.T) {
	assert.Equal(t, []string{
		ToolAppendFile, ToolExtractFile, ToolProcessDirectory, ToolSchema,
	}, GetAllToolNames())
}
