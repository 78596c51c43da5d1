package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, args ...string) (*config, string) {
	t.Helper()
	c, err := loadConfig()
	require.NoError(t, err)
	cmd, err := parseCLI(c, args)
	require.NoError(t, err)
	return c, cmd
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseCLIDefaults(t *testing.T) {
	c, cmd := newConfig(t)

	assert.Equal(t, encodeCommand, cmd)
	assert.Equal(t, 2, c.Indent)
	assert.Equal(t, ",", c.delimiter())
	assert.Equal(t, "auto", c.Color)
	assert.False(t, c.StrictTables)
	assert.Empty(t, c.Files)
}

func TestParseCLIFlags(t *testing.T) {
	c, cmd := newConfig(t, "--indent", "4", "-d", "pipe", "compare", "--price", "2.5", "--queries-per-day", "50", "testdata/employees.json")

	assert.Equal(t, compareCommand, cmd)
	assert.Equal(t, 4, c.Indent)
	assert.Equal(t, "|", c.delimiter())
	assert.InDelta(t, 2.5, c.PricePerMillion, 1e-9)
	assert.Equal(t, 50, c.QueriesPerDay)
	assert.Equal(t, []string{"testdata/employees.json"}, c.Files)
}

func TestParseCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"prompt without question", []string{"prompt"}},
		{"unknown format", []string{"encode", "--format", "xml"}},
		{"missing file", []string{"encode", "testdata/missing.json"}},
		{"unknown command", []string{"decode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := loadConfig()
			require.NoError(t, err)
			_, err = parseCLI(c, tt.args)
			assert.Error(t, err)
		})
	}
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("TOON_INDENT", "3")
	t.Setenv("TOON_DELIMITER", "tab")
	t.Setenv("TOON_LOG_LEVEL", "debug")

	c, _ := newConfig(t)
	assert.Equal(t, 3, c.Indent)
	assert.Equal(t, "\t", c.delimiter())
	assert.Equal(t, slog.LevelDebug, c.logLevel())

	// Flags win over the environment
	c, _ = newConfig(t, "--indent", "5")
	assert.Equal(t, 5, c.Indent)

	t.Setenv("TOON_INDENT", "wide")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestConfigHelpers(t *testing.T) {
	for in, want := range map[string]string{
		"":      ",",
		"comma": ",",
		"tab":   "\t",
		`\t`:    "\t",
		"pipe":  "|",
		";":     ";",
	} {
		c := &config{Delimiter: in}
		assert.Equal(t, want, c.delimiter(), in)
	}

	assert.Equal(t, slog.LevelWarn, (&config{LogLevel: "warn"}).logLevel())
	assert.Equal(t, slog.LevelInfo, (&config{LogLevel: "loud"}).logLevel())
}

func TestRunEncode(t *testing.T) {
	c, cmd := newConfig(t, "encode", "testdata/employees.json", "testdata/team.yaml")

	var out bytes.Buffer
	require.NoError(t, run(c, cmd, strings.NewReader(""), &out, discardLogger()))
	assert.Equal(t, "[2]{id,name,department,salary}:\n"+
		"  1,Alice,Engineering,120000\n"+
		"  2,Bob,Marketing,95000\n"+
		"name: Tech Department\n"+
		"employees:\n"+
		"  [2]{id,name,department,salary}:\n"+
		"    1,Alice,Engineering,120000\n"+
		"    2,\"Smith, John\",Marketing,95000\n", out.String())
}

func TestRunEncodeStdin(t *testing.T) {
	c, cmd := newConfig(t, "-d", "pipe")

	var out bytes.Buffer
	require.NoError(t, run(c, cmd, strings.NewReader(`{"tags":["a","b"],"n":1}`), &out, discardLogger()))
	assert.Equal(t, "tags: [a|b]\nn: 1\n", out.String())
}

func TestRunEncodeShapeMismatch(t *testing.T) {
	input := `[{"a":1},{"b":2}]`

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c, cmd := newConfig(t)
	var out bytes.Buffer
	require.NoError(t, run(c, cmd, strings.NewReader(input), &out, logger))
	assert.Equal(t, "[2]:\n  - a: 1\n  - b: 2\n", out.String())
	assert.Contains(t, logs.String(), "list of records written without table layout")

	c, cmd = newConfig(t, "encode", "--strict-tables")
	out.Reset()
	err := run(c, cmd, strings.NewReader(input), &out, discardLogger())
	require.Error(t, err)
	assert.True(t, trace.IsBadParameter(err), "got %v", err)
	assert.Empty(t, out.String())
}

func TestRunCompare(t *testing.T) {
	c, cmd := newConfig(t, "compare", "testdata/employees.json")

	var out bytes.Buffer
	require.NoError(t, run(c, cmd, nil, &out, discardLogger()))

	s := out.String()
	assert.Contains(t, s, "testdata/employees.json")
	assert.Contains(t, s, "JSON:\n  - Characters: ")
	assert.Contains(t, s, "TOON:\n  - Characters: ")
	assert.Contains(t, s, "Character reduction: ")
	assert.Contains(t, s, "Cost (@ $3.00 per 1M input tokens):")
	assert.Contains(t, s, "Scaled savings (at 1,000 queries/day):")
}

func TestRunPrompt(t *testing.T) {
	c, cmd := newConfig(t, "prompt", "-q", "Who earns the most?", "testdata/employees.json")

	var out bytes.Buffer
	require.NoError(t, run(c, cmd, nil, &out, discardLogger()))
	assert.Equal(t, "Analyze the following data and answer the question.\n\n"+
		"Data (TOON format):\n"+
		"[2]{id,name,department,salary}:\n"+
		"  1,Alice,Engineering,120000\n"+
		"  2,Bob,Marketing,95000\n\n"+
		"Question: Who earns the most?\n\n"+
		"Please provide a detailed analysis.\n", out.String())
}

func TestRunErrors(t *testing.T) {
	c, err := loadConfig()
	require.NoError(t, err)
	c.Format = "auto"

	c.Files = []string{"testdata/missing.json"}
	err = run(c, encodeCommand, nil, io.Discard, discardLogger())
	assert.True(t, trace.IsNotFound(err), "got %v", err)

	c.Files = []string{"testdata/employees.json"}
	err = run(c, "decode", nil, io.Discard, discardLogger())
	assert.True(t, trace.IsNotImplemented(err), "got %v", err)

	c.Files = nil
	err = run(c, encodeCommand, strings.NewReader(`{"a":1,"a":2}`), io.Discard, discardLogger())
	assert.Error(t, err)

	c.Format = "xml"
	err = run(c, encodeCommand, strings.NewReader(`{}`), io.Discard, discardLogger())
	assert.True(t, trace.IsBadParameter(err), "got %v", err)
}
