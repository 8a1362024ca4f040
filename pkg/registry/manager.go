package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
)

// ErrNoSchemas is reported by HealthCheck while the registry is empty.
var ErrNoSchemas = errors.New("no schemas loaded")

// Manager keeps a Registry in sync with a schema directory.
type Manager struct {
	config   *config.SchemasConfig
	registry *Registry
	loader   *Loader
	logger   *logging.Logger
	metrics  *metrics.Collector

	// mu serialises reloads.
	mu            sync.Mutex
	lastLoadError error
	lastLoadTime  time.Time
}

// NewManager creates a manager for cfg. logger and collector may be nil.
func NewManager(cfg *config.SchemasConfig, logger *logging.Logger, collector *metrics.Collector) *Manager {
	if cfg == nil {
		cfg = &config.SchemasConfig{Path: config.DefaultSchemasPath, Strict: true}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		config:   cfg,
		registry: New(),
		loader:   &Loader{Strict: cfg.Strict},
		logger:   logger.With("component", "registry"),
		metrics:  collector,
	}
}

// Registry returns the managed registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Get returns the schema named name or ErrSchemaNotFound.
func (m *Manager) Get(name string) (*Entry, error) {
	return m.registry.Get(name)
}

// Names returns the loaded schema names in sorted order.
func (m *Manager) Names() []string {
	return m.registry.Names()
}

// Load reads the configured path and replaces the registry contents. When
// any file fails, the previous schema set is kept and the error lists every
// failing file.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	entries, err := m.loader.Load(m.config.Path)
	if err == nil {
		err = m.registry.Replace(entries)
	}

	m.metrics.RecordSchemaReload(err)
	if err != nil {
		m.lastLoadError = err
		m.logger.Error("Failed to load schemas, keeping previous set",
			"path", m.config.Path,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	m.lastLoadError = nil
	m.lastLoadTime = time.Now()
	m.metrics.SetSchemasLoaded(len(entries))
	m.logger.Info("Schemas loaded",
		"path", m.config.Path,
		"count", len(entries),
		"version", m.registry.Version(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Watch reloads on file changes until ctx is cancelled. It returns
// immediately when watching is disabled.
func (m *Manager) Watch(ctx context.Context) error {
	if !m.config.Watch {
		m.logger.Debug("Schema watching disabled")
		return nil
	}

	w, err := NewWatcher(m.config.Path, m.config.Debounce, m.logger)
	if err != nil {
		return err
	}
	return w.Watch(ctx, func() {
		_ = m.Load()
	})
}

// LastLoadError returns the error of the most recent load, or nil.
func (m *Manager) LastLoadError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLoadError
}

// LastLoadTime returns when the last successful load finished.
func (m *Manager) LastLoadTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLoadTime
}

// HealthCheck fails while no schema is loaded. It matches health.CheckFunc.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.registry.Count() > 0 {
		return nil
	}
	if err := m.LastLoadError(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoSchemas, err)
	}
	return ErrNoSchemas
}
