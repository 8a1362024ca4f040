// Package registry holds named form schemas loaded from disk.
//
// Every .json, .yaml or .yml file below the configured path becomes one
// schema named after the file without its extension, so forms/contact.yaml
// is served as "contact". In strict mode a file that fails structural
// validation fails the load.
//
// Loads are all or nothing: Manager.Load swaps the complete set into the
// Registry only when every file loaded, otherwise the previous set stays in
// place. With schemas.watch enabled, Manager.Watch reloads after each burst
// of file system events, debounced by schemas.debounce.
package registry
