// Package storage provides audit.Storage backends: SQLite through either the
// pure-Go modernc driver or the cgo mattn driver, and an in-memory store.
package storage
