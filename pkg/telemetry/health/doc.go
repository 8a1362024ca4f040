// Package health provides liveness, readiness and version endpoints.
//
// Liveness (/health) answers 200 while the process runs. Readiness (/ready)
// runs the registered checks concurrently, each bounded by the checker's
// timeout, and answers 503 when any of them fails. The server registers a
// "schemas" check that fails until the schema registry holds a schema.
package health
