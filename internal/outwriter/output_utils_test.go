package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "precision 1",
			precision: 1,
			value:     3.14159,
			expected:  "3.1",
		},
		{
			name:      "precision 2",
			precision: 2,
			value:     3.14159,
			expected:  "3.14",
		},
		{
			name:      "whole number",
			precision: 1,
			value:     8.0,
			expected:  "8.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]any{"hours": 4.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hours": 4.5}`, buf.String())
}

func TestWriteJSONError(t *testing.T) {
	// Channels can't be marshaled to JSON
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"author", "hours"}, func(w *csv.Writer) error {
		return w.Write([]string{"alice", "4.5"})
	})
	require.NoError(t, err)
	assert.Equal(t, "author,hours\nalice,4.5\n", buf.String())
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileStdout(t *testing.T) {
	// Empty path means stdout
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte("test"))
		return err
	}, "Test message")

	require.NoError(t, err)
	assert.True(t, called, "Writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte("test content"))
		return err
	}, "Test message")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "test content", string(content))
}

func TestWriteWithFileError(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")

	err := writeWithFile(tmpFile, func(io.Writer) error {
		return assert.AnError
	}, "Test message")

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error {
		return nil
	}, "Test message")

	require.Error(t, err)
}

func TestEffortLabel(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, schema.EffortLight, effortLabel(4.0, plain))
	assert.Equal(t, schema.EffortHeavy, effortLabel(50.0, plain))

	// Colored labels still contain the plain text
	colored := &contract.Config{UseColors: true}
	assert.Contains(t, effortLabel(20.0, colored), schema.EffortLarge)
}

func TestRequireOutputFile(t *testing.T) {
	require.Error(t, requireOutputFile(&contract.Config{}, "parquet"))
	assert.NoError(t, requireOutputFile(&contract.Config{OutputFile: "out.parquet"}, "parquet"))
}

func TestWriteJSONIntegration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.json")

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeJSON(w, map[string]any{"count": 123})
	}, "Wrote JSON")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, float64(123), result["count"]) // JSON numbers are float64
}
