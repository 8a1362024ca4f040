// Package audit keeps a persistent trail of validation passes for later
// inspection: which form was validated, by which request, whether it passed
// and which fields and rules failed.
//
// # Architecture
//
//  1. Recorder (this package) queues records and writes them from a
//     background worker, so validation never waits on storage.
//  2. Storage (package storage) persists records in SQLite, through the
//     pure-Go "sqlite" driver or the cgo "sqlite3" driver, or in memory.
//  3. Export (package export) writes query results as JSON or CSV.
//  4. Retention (package retention) prunes by age and count on a cron
//     schedule.
//
// Records never contain submitted values. PayloadHash is the SHA-256 of the
// canonical JSON document, enough to tell whether two submissions were
// identical.
//
// # Usage
//
//	store, err := storage.Open(&cfg.Audit, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	recorder := audit.NewRecorder(store, &cfg.Audit, logger, collector)
//	defer recorder.Close()
//
//	engine := formcheck.New(formcheck.WithRecorder(recorder))
//
//	records, err := store.Query(ctx, &audit.Query{Form: "contact", Outcome: audit.OutcomeInvalid})
package audit
