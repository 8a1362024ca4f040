package config

import "time"

// Config is the root configuration for the formcheck service and CLI.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and request body limits.
	Server ServerConfig `yaml:"server"`

	// Schemas controls where named form schemas are loaded from and whether
	// the directory is watched for changes.
	Schemas SchemasConfig `yaml:"schemas"`

	// Telemetry contains configuration for logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit controls the persistent trail of validation outcomes.
	Audit AuditConfig `yaml:"audit"`
}

// ServerConfig contains configuration for the HTTP validation API.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on ("host:port").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits JSON and YAML request bodies.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MaxMultipartMemory is the part of a multipart submission kept in memory;
	// larger uploads spill to temporary files.
	// Default: 33554432 (32MB)
	MaxMultipartMemory int64 `yaml:"max_multipart_memory"`
}

// SchemasConfig contains configuration for the named schema registry.
type SchemasConfig struct {
	// Path is a directory of .json/.yaml/.yml schema files, or a single file.
	// The schema name is the file name without its extension.
	// Default: "./forms"
	Path string `yaml:"path"`

	// Watch reloads schemas when files under Path change.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce coalesces bursts of file events into one reload.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`

	// Strict refuses to register schemas that fail structural validation.
	// Default: true
	Strict bool `yaml:"strict"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact masks submitted values that look like personal data.
	// Default: true
	Redact bool `yaml:"redact"`

	// RedactKeys are extra payload keys whose values are always masked.
	RedactKeys []string `yaml:"redact_keys"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "formcheck"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "validator"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for validation duration (seconds).
	// Default: [0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether validation passes are wrapped in spans.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service name in traces.
	// Default: "formcheck"
	ServiceName string `yaml:"service_name"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address ("localhost:4317").
	// Without an endpoint spans are sampled and propagated but not exported.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each OTLP export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig contains configuration for the validation audit trail.
type AuditConfig struct {
	// Enabled records one audit record per validation pass.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage backend.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file. Ignored by the memory driver.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the number of records queued for writing.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds both enqueueing and storing a record.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RetentionDays is how long records are kept. 0 keeps them forever.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of stored records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a standard cron expression for retention pruning.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}
