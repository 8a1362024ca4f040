package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/opheus2/form-schema-validator/pkg/result"
)

// OutputFormat selects how reports are written.
type OutputFormat string

const (
	// FormatText is human readable output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is a JSON array of reports.
	FormatJSON OutputFormat = "json"
)

// Finding is one error or warning of a report.
type Finding struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Report is the outcome of validating one document.
type Report struct {
	Source   string    `json:"source"`
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings,omitempty"`
}

// NewReport converts a validation result into a report, keeping the order
// in which errors were recorded.
func NewReport(source string, res *result.Result) Report {
	r := Report{Source: source, Valid: res.IsValid(), Errors: []Finding{}}
	for _, key := range res.Keys() {
		r.Errors = append(r.Errors, Finding{Key: key, Message: res.Get(key)})
	}
	return r
}

// ErrorReport describes a document that could not be processed at all.
func ErrorReport(source string, err error) Report {
	return Report{Source: source, Errors: []Finding{{Message: err.Error()}}}
}

// Failed reports whether the report fails the command; with strict,
// warnings fail it too.
func (r Report) Failed(strict bool) bool {
	return !r.Valid || (strict && len(r.Warnings) > 0)
}

// Formatter writes reports.
type Formatter interface {
	Write(w io.Writer, reports []Report) error
}

// NewFormatter returns the formatter for format. An empty format means text.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch OutputFormat(strings.ToLower(string(format))) {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	}
	return nil, NewUsageError(fmt.Sprintf("unknown output format %q (want text or json)", format))
}

// TextFormatter writes one block per report followed by a summary line.
type TextFormatter struct{}

// Write implements Formatter.
func (f *TextFormatter) Write(w io.Writer, reports []Report) error {
	var b strings.Builder
	var errCount, warnCount int
	for _, r := range reports {
		if r.Valid && len(r.Warnings) == 0 {
			fmt.Fprintf(&b, "✓ %s: valid\n", r.Source)
			continue
		}
		if r.Valid {
			fmt.Fprintf(&b, "✓ %s: valid with warnings\n", r.Source)
		} else {
			fmt.Fprintf(&b, "✗ %s: invalid\n", r.Source)
		}
		for _, e := range r.Errors {
			writeFinding(&b, "error", e)
			errCount++
		}
		for _, e := range r.Warnings {
			writeFinding(&b, "warning", e)
			warnCount++
		}
	}
	if len(reports) > 1 {
		fmt.Fprintf(&b, "\n%d document(s), %d error(s), %d warning(s)\n", len(reports), errCount, warnCount)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeFinding(b *strings.Builder, severity string, f Finding) {
	if f.Key == "" {
		fmt.Fprintf(b, "    %s: %s\n", severity, f.Message)
		return
	}
	fmt.Fprintf(b, "    %s: %s: %s\n", severity, f.Key, f.Message)
}

// JSONFormatter writes the reports as a JSON array.
type JSONFormatter struct {
	Indent bool
}

// Write implements Formatter.
func (f *JSONFormatter) Write(w io.Writer, reports []Report) error {
	if reports == nil {
		reports = []Report{}
	}
	enc := sonic.ConfigStd.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(reports)
}
