// Package export writes audit records as JSON or CSV, either from a slice or
// streamed from audit.Storage.QueryStream.
//
//	exporter, err := export.New("csv", false)
//	err = exporter.Export(ctx, records, os.Stdout)
package export
