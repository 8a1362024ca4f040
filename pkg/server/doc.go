// Package server exposes form validation over HTTP.
//
// # Routes
//
//	POST /v1/schemas/validate        validate a schema document (JSON or YAML)
//	POST /v1/forms/{name}/validate   validate a submission against a loaded schema
//	GET  /v1/forms                   list loaded schema names
//	GET  /health, /ready, /version   probes, see package health
//	GET  /metrics                    Prometheus metrics, when configured
//
// Schema validation always answers 200 with {"valid", "errors"}; an
// undecodable document answers 400. Submission validation answers 200 for a
// valid submission, 422 with the error map for an invalid one and 404 for an
// unknown form.
//
// Submissions are posted either as JSON, {"payload": {...},
// "replacements": {...}}, or as multipart/form-data. In a multipart form each
// file part becomes a *multipart.FileHeader in the payload, repeated names
// and names ending in "[]" become lists, and the optional "_replacements"
// field holds a JSON object of replacements.
//
// # Middleware
//
// From the outside in: request id (X-Request-ID, kept from the client or a
// new uuid), tracing (when a tracer is configured), panic recovery and
// request logging. Each route records its own request count and latency.
package server
