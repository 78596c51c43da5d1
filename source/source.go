// Package source turns JSON and YAML documents into toon nodes. Unlike
// decoding into map[string]any, the key order of every object in the document
// is kept, so records encode with their fields in the order they were written.
package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/paularlott/toon"
)

// Format identifies a document syntax.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat converts a format name as given on a command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("source: unknown format %q", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// Detect guesses the format from content: documents starting with { or [ are
// JSON, anything else is YAML.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads a whole document in the given format. FormatAuto sniffs the
// content with Detect.
func Decode(r io.Reader, f Format) (toon.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, f)
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte, f Format) (toon.Node, error) {
	if f == FormatAuto {
		f = Detect(data)
	}
	if f == FormatJSON {
		return JSON(bytes.NewReader(data))
	}
	return YAML(bytes.NewReader(data))
}
