package export

import (
	"errors"

	"github.com/opheus2/form-schema-validator/pkg/audit"
)

var errUnknownFormat = errors.New("unknown export format (must be 'json' or 'csv')")

// New returns the exporter for format ("json" or "csv").
func New(format string, pretty bool) (audit.Exporter, error) {
	switch format {
	case "json":
		return NewJSONExporter(pretty), nil
	case "csv":
		return NewCSVExporter(true), nil
	default:
		return nil, audit.NewExportError(format, 0, errUnknownFormat)
	}
}
