package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Format is the serialisation of a schema or payload document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatAuto sniffs the content: a leading '{' or '[' means JSON.
	FormatAuto Format = ""
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNotObject is returned when a document does not decode to an object.
	ErrNotObject = errors.New("document root must be an object")
)

// DefaultMaxDocumentSize bounds documents read by ParseFile (10MB).
const DefaultMaxDocumentSize = 10 * 1024 * 1024

// jsonAPI keeps numbers as json.Number so integers and floats stay distinct.
var jsonAPI = sonic.Config{UseNumber: true}.Froze()

// ParseError describes a document that could not be decoded.
type ParseError struct {
	Source string
	Format Format
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s document %q: %v", e.Format, e.Source, e.Cause)
	}
	return fmt.Sprintf("parse %s document: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// FormatFromContentType maps an HTTP media type to a Format.
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "json"):
		return FormatJSON
	}
	return FormatAuto
}

// DetectFormat guesses the format of data.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ParseDocument decodes data into a normalised object.
func ParseDocument(data []byte, format Format, source string) (map[string]any, error) {
	if format == FormatAuto {
		format = DetectFormat(data)
	}

	var decoded any
	switch format {
	case FormatJSON:
		if err := jsonAPI.Unmarshal(data, &decoded); err != nil {
			return nil, &ParseError{Source: source, Format: format, Cause: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return nil, &ParseError{Source: source, Format: format, Cause: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if decoded == nil {
		return map[string]any{}, nil
	}
	obj, ok := NormalizeValue(decoded).(map[string]any)
	if !ok {
		return nil, &ParseError{Source: source, Format: format, Cause: ErrNotObject}
	}
	return obj, nil
}

// ParseFile reads and decodes a JSON or YAML document from disk.
func ParseFile(path string) (map[string]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.Size() > DefaultMaxDocumentSize {
		return nil, fmt.Errorf("file %q size %d exceeds maximum %d bytes", path, info.Size(), DefaultMaxDocumentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return ParseDocument(data, format, path)
}

// Load parses a schema file into both its raw document and typed form.
func Load(path string) (map[string]any, *Schema, error) {
	raw, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	return raw, FromMap(raw), nil
}
