package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formcheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen address = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
	if !cfg.Telemetry.Logging.Redact {
		t.Error("redaction should be enabled by default")
	}
	if !cfg.Schemas.Strict {
		t.Error("strict schema loading should be enabled by default")
	}
	if cfg.Audit.Enabled || cfg.Audit.RetentionDays != DefaultAuditRetentionDays {
		t.Errorf("audit defaults = %+v", cfg.Audit)
	}
	if diff := cmp.Diff(DefaultDurationBuckets, cfg.Telemetry.Metrics.DurationBuckets); diff != "" {
		t.Errorf("buckets mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should be valid: %v", err)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{Server: ServerConfig{ListenAddress: "0.0.0.0:9000"}}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if diff := cmp.Diff(first, *cfg); diff != "" {
		t.Errorf("second ApplyDefaults changed config (-first +second):\n%s", diff)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("explicit listen address overwritten: %q", cfg.Server.ListenAddress)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:8080"
  read_timeout: "60s"
schemas:
  path: "./testdata/forms"
  watch: true
  debounce: "250ms"
telemetry:
  logging:
    level: "debug"
    format: "text"
    redact: false
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("write timeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if !cfg.Schemas.Watch || cfg.Schemas.Debounce != 250*time.Millisecond {
		t.Errorf("schemas = %+v", cfg.Schemas)
	}
	if cfg.Telemetry.Logging.Redact {
		t.Error("redact: false should be honoured")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics.enabled: false should be honoured")
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("LoadConfig(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "server: [", want: "failed to parse"},
		{name: "invalid level", content: "telemetry:\n  logging:\n    level: loud\n", want: "telemetry.logging.level"},
		{name: "bad address", content: "server:\n  listen_address: nope\n", want: "server.listen_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:8080\"\n")

	t.Setenv("FORMCHECK_SERVER_LISTEN_ADDRESS", "0.0.0.0:9090")
	t.Setenv("FORMCHECK_SERVER_MAX_BODY_BYTES", "2048")
	t.Setenv("FORMCHECK_SCHEMAS_WATCH", "true")
	t.Setenv("FORMCHECK_SCHEMAS_DEBOUNCE", "1s")
	t.Setenv("FORMCHECK_TELEMETRY_LOGGING_REDACT_KEYS", "national_id, iban")
	t.Setenv("FORMCHECK_TELEMETRY_METRICS_ENABLED", "not-a-bool")
	t.Setenv("FORMCHECK_AUDIT_ENABLED", "true")
	t.Setenv("FORMCHECK_AUDIT_DRIVER", "memory")
	t.Setenv("FORMCHECK_AUDIT_RETENTION_DAYS", "7")

	cfg, err := LoadConfigWithEnvOverrides(path, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("max body bytes = %d", cfg.Server.MaxBodyBytes)
	}
	if !cfg.Schemas.Watch || cfg.Schemas.Debounce != time.Second {
		t.Errorf("schemas = %+v", cfg.Schemas)
	}
	if diff := cmp.Diff([]string{"national_id", "iban"}, cfg.Telemetry.Logging.RedactKeys); diff != "" {
		t.Errorf("redact keys mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("unparsable bool override should be ignored")
	}
	if !cfg.Audit.Enabled || cfg.Audit.Driver != "memory" || cfg.Audit.RetentionDays != 7 {
		t.Errorf("audit = %+v", cfg.Audit)
	}
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "FORMCHECK_SCHEMAS_PATH=/srv/forms\nFORMCHECK_TELEMETRY_LOGGING_LEVEL=warn\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FORMCHECK_SCHEMAS_PATH", "")
	os.Unsetenv("FORMCHECK_SCHEMAS_PATH")
	t.Setenv("FORMCHECK_TELEMETRY_LOGGING_LEVEL", "error")

	cfg, err := LoadConfigWithEnvOverrides("", envFile)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Schemas.Path != "/srv/forms" {
		t.Errorf("schemas path = %q, want value from env file", cfg.Schemas.Path)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("logging level = %q, environment should win over env file", cfg.Telemetry.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "negative timeouts",
			mutate: func(c *Config) {
				c.Server.ReadTimeout = -time.Second
				c.Server.ShutdownTimeout = -time.Second
			},
			wantFields: []string{"server.read_timeout", "server.shutdown_timeout"},
		},
		{
			name:       "empty schema path",
			mutate:     func(c *Config) { c.Schemas.Path = "" },
			wantFields: []string{"schemas.path"},
		},
		{
			name:       "unknown format",
			mutate:     func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantFields: []string{"telemetry.logging.format"},
		},
		{
			name: "bad redact pattern",
			mutate: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Pattern: "("}}
			},
			wantFields: []string{
				"telemetry.logging.redact_patterns[0].name",
				"telemetry.logging.redact_patterns[0].pattern",
			},
		},
		{
			name:       "metrics path",
			mutate:     func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantFields: []string{"telemetry.metrics.path"},
		},
		{
			name:       "unsorted buckets",
			mutate:     func(c *Config) { c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5} },
			wantFields: []string{"telemetry.metrics.duration_buckets"},
		},
		{
			name: "metrics disabled skips metric checks",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.Enabled = false
				c.Telemetry.Metrics.Path = ""
			},
		},
		{
			name: "bad sampler and ratio",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Sampler = "sometimes"
				c.Telemetry.Tracing.SampleRatio = 2
			},
			wantFields: []string{"telemetry.tracing.sampler", "telemetry.tracing.sample_ratio"},
		},
		{
			name: "tracing without service name",
			mutate: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.ServiceName = ""
			},
			wantFields: []string{"telemetry.tracing.service_name"},
		},
		{
			name: "bad audit driver and schedule",
			mutate: func(c *Config) {
				c.Audit.Driver = "postgres"
				c.Audit.PruneSchedule = "every night"
			},
			wantFields: []string{"audit.driver", "audit.prune_schedule"},
		},
		{
			name: "memory audit needs no path",
			mutate: func(c *Config) {
				c.Audit.Driver = "memory"
				c.Audit.Path = ""
			},
		},
		{
			name: "negative audit retention",
			mutate: func(c *Config) {
				c.Audit.RetentionDays = -1
				c.Audit.MaxRecords = -1
			},
			wantFields: []string{"audit.retention_days", "audit.max_records"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("ValidationError should match ErrInvalidConfig")
			}
			var got []string
			for _, fe := range verr.Errors {
				got = append(got, fe.Field)
			}
			if diff := cmp.Diff(tt.wantFields, got); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}
}

func resetGlobal() {
	SetConfig(nil)
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	first := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:7000\"\n")
	second := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:7001\"\n")

	if err := Initialize(first); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if got := MustGetConfig().Server.ListenAddress; got != "127.0.0.1:7000" {
		t.Errorf("listen address = %q, second Initialize should be ignored", got)
	}

	if err := ReloadConfig(second); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:7001" {
		t.Errorf("listen address after reload = %q", got)
	}

	if err := ReloadConfig(writeConfig(t, "server: [")); err == nil {
		t.Error("expected reload error")
	}
	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:7001" {
		t.Errorf("failed reload replaced config: %q", got)
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	defer func() {
		if recover() == nil {
			t.Error("MustGetConfig() should panic before Initialize")
		}
	}()
	MustGetConfig()
}
