package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/audit"
)

// Header is the CSV header row.
var Header = []string{
	"id", "request_id",
	"kind", "form", "source",
	"outcome", "error_count", "error_keys", "failed_rules", "error",
	"payload_hash", "schema_version",
	"validated_at", "duration_ms", "recorded_at",
}

// CSVExporter writes records as CSV rows. List columns are joined with "|".
type CSVExporter struct {
	// IncludeHeader writes Header first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes records to w.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}
	for _, record := range records {
		if err := writer.Write(Row(record)); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

// ExportStream writes the records of recordsCh, flushing every 100 rows.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return audit.NewExportError("csv", 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return audit.NewExportError("csv", count, err)
				}
				return nil
			}

			if err := writer.Write(Row(record)); err != nil {
				return audit.NewExportError("csv", count, err)
			}
			count++

			if count%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return audit.NewExportError("csv", count, err)
				}
			}
		}
	}
}

// Row converts a record to CSV columns in Header order.
func Row(r *audit.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.Kind,
		r.Form,
		r.Source,
		r.Outcome,
		strconv.Itoa(r.ErrorCount),
		strings.Join(r.ErrorKeys, "|"),
		strings.Join(r.FailedRules, "|"),
		r.Error,
		r.PayloadHash,
		r.SchemaVersion,
		formatTime(r.ValidatedAt),
		strconv.FormatFloat(float64(r.Duration.Microseconds())/1000, 'f', 3, 64),
		formatTime(r.RecordedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
