package output_test

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/envsync/internal/cmd/output"
	"github.com/agentstation/envsync/internal/cmd/table"
	"github.com/agentstation/envsync/pkg/errors"
)

type versionInfo struct {
	Version string `json:"version"`
	BuiltBy string `json:"built_by,omitempty"`
}

var sample = table.Data{
	Title:   ".env",
	Headers: []string{"Key", "Change"},
	Rows:    [][]string{{"API_KEY", "add"}, {"DB_HOST", "update"}},
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", " yaml ", "markdown", ""} {
		_, err := output.ParseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := output.ParseFormat("wide")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, output.FormatYAML, output.DetectFormat("YAML"))
}

func TestIsStructured(t *testing.T) {
	assert.True(t, output.FormatJSON.IsStructured())
	assert.True(t, output.FormatYAML.IsStructured())
	assert.False(t, output.FormatTable.IsStructured())
	assert.False(t, output.FormatMarkdown.IsStructured())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, sample))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, ".env\n"))
	assert.Contains(t, out, "API_KEY")
	assert.Contains(t, out, "DB_HOST")
}

func TestTableFormatterSkipsEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, table.Data{Title: "none", Headers: []string{"A"}}))
	assert.Empty(t, buf.String())
}

func TestTableFormatterStruct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, versionInfo{Version: "1.0.0", BuiltBy: "make"}))

	out := buf.String()
	assert.Contains(t, out, "Built By")
	assert.Contains(t, out, "1.0.0")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatJSON).Format(&buf, versionInfo{Version: "1.0.0"}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{"version": "1.0.0"}, got)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatYAML).Format(&buf, map[string][]string{"unset": {"A", "B"}}))
	assert.Equal(t, "unset:\n- A\n- B\n", buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatMarkdown).Format(&buf, []table.Data{sample, {Title: "empty"}}))

	out := buf.String()
	assert.Contains(t, out, "### .env")
	assert.Contains(t, out, "| API_KEY")
	assert.NotContains(t, out, "empty")
}

func TestMarkdownFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatMarkdown).Format(&buf, map[string]int{"n": 1}))

	out := buf.String()
	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"n": 1`)
}

func TestFormatterFunc(t *testing.T) {
	var buf bytes.Buffer
	f := output.FormatterFunc(func(w io.Writer, data any) error {
		_, err := io.WriteString(w, data.(string))
		return err
	})
	require.NoError(t, f.Format(&buf, "ok"))
	assert.Equal(t, "ok", buf.String())
}
