package export

import (
	"context"
	"io"

	"github.com/bytedance/sonic"

	"github.com/opheus2/form-schema-validator/pkg/audit"
)

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	// Pretty indents the output.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records as one JSON array, "[]" when there are none.
func (e *JSONExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	if records == nil {
		records = []*audit.Record{}
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = sonic.ConfigStd.MarshalIndent(records, "", "  ")
	} else {
		data, err = sonic.ConfigStd.Marshal(records)
	}
	if err != nil {
		return audit.NewExportError("json", len(records), err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}

// ExportStream writes the records of recordsCh as a JSON array without
// holding them all in memory.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *audit.Record, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return audit.NewExportError("json", 0, err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				closing := "]\n"
				if e.Pretty && count > 0 {
					closing = "\n]\n"
				}
				if _, err := io.WriteString(w, closing); err != nil {
					return audit.NewExportError("json", count, err)
				}
				return nil
			}

			sep := ","
			if count == 0 {
				sep = ""
			}
			if e.Pretty {
				sep += "\n  "
			}

			var data []byte
			var err error
			if e.Pretty {
				data, err = sonic.ConfigStd.MarshalIndent(record, "  ", "  ")
			} else {
				data, err = sonic.ConfigStd.Marshal(record)
			}
			if err != nil {
				return audit.NewExportError("json", count, err)
			}
			if _, err := io.WriteString(w, sep); err != nil {
				return audit.NewExportError("json", count, err)
			}
			if _, err := w.Write(data); err != nil {
				return audit.NewExportError("json", count, err)
			}
			count++
		}
	}
}
