package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/committee-records/internal/pdf/pdftest"
)

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, pdftest.WriteFile(path, pdftest.Document{
		Pages: []string{"Student Name: Jane Doe\nRoom: 309"},
		Fields: []pdftest.Field{
			{Name: "Student ID", Value: "12345"},
			{Name: "Thesis Ranking", Value: "/choice7"},
		},
	}))
	return path
}

func TestInspect(t *testing.T) {
	result := inspect(writeReport(t), zap.NewNop())

	require.Empty(t, result.Error)
	require.NotNil(t, result.Forms)
	require.Len(t, result.Forms.Backends, 2)
	assert.Equal(t, "widgets", result.Forms.Backends[0].Backend)
	assert.Equal(t, "acroform", result.Forms.Backends[1].Backend)
	assert.Equal(t, "/choice7", result.Forms.Merged["Thesis Ranking"])
	assert.Equal(t, "309", result.Text["Room"])

	require.NotNil(t, result.Record)
	assert.Equal(t, "Outstanding", result.Record.Get("Thesis Ranking"))
	assert.Empty(t, result.Missing)
}

func TestInspect_MissingFile(t *testing.T) {
	result := inspect(filepath.Join(t.TempDir(), "missing.pdf"), zap.NewNop())
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.Record)
}

func TestOutputResults(t *testing.T) {
	result := inspect(writeReport(t), zap.NewNop())

	var text bytes.Buffer
	require.NoError(t, outputResults(&text, result, "text"))
	assert.Contains(t, text.String(), "[widgets] 2 fields")
	assert.Contains(t, text.String(), "[merged] 2 fields")
	assert.Contains(t, text.String(), "Valid")

	var js bytes.Buffer
	require.NoError(t, outputResults(&js, result, "json"))
	assert.True(t, json.Valid(js.Bytes()))

	assert.Error(t, outputResults(&bytes.Buffer{}, result, "yaml"))
}
