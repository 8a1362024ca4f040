package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opheus2/form-schema-validator/pkg/config"
)

// Validation kinds used as the "kind" label.
const (
	KindSchema     = "schema"
	KindSubmission = "submission"
)

// Outcome label values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// OtherLabel replaces label values once the cardinality limit is reached.
const OtherLabel = "other"

// DefaultMaxRuleLabels bounds the distinct rule names tracked by field_errors_total.
// Rule names come from authored schemas, so they are not a closed set.
const DefaultMaxRuleLabels = 256

// Collector owns every Prometheus metric of the service and records
// validation, schema registry, and HTTP events.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics *ValidationMetrics
	schemaMetrics     *SchemaMetrics
	requestMetrics    *RequestMetrics
	auditMetrics      *AuditMetrics

	ruleLimiter *CardinalityLimiter
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one. Missing namespace, subsystem and buckets
// fall back to the config defaults.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordValidation(metrics.KindSubmission, res.IsValid(), time.Since(start), rules)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		validationMetrics: NewValidationMetrics(cfg, registry),
		schemaMetrics:     NewSchemaMetrics(cfg, registry),
		requestMetrics:    NewRequestMetrics(cfg, registry),
		auditMetrics:      NewAuditMetrics(cfg, registry),
		ruleLimiter:       NewCardinalityLimiter(DefaultMaxRuleLabels),
	}
}

// RecordValidation records one validation pass.
//
// Parameters:
//   - kind: KindSchema or KindSubmission
//   - valid: whether the result had no errors
//   - duration: time spent validating
//   - failedRules: the rule of every field error ("required", "max", ...)
func (c *Collector) RecordValidation(kind string, valid bool, duration time.Duration, failedRules []string) {
	if c == nil || !c.config.Enabled {
		return
	}

	outcome := OutcomeValid
	if !valid {
		outcome = OutcomeInvalid
	}
	c.validationMetrics.RecordValidation(kind, outcome, duration)

	for _, rule := range failedRules {
		if !c.ruleLimiter.Allow(rule) {
			rule = OtherLabel
		}
		c.validationMetrics.RecordFieldError(kind, rule)
	}
}

// RecordSchemaReload records a registry reload attempt.
func (c *Collector) RecordSchemaReload(err error) {
	if c == nil || !c.config.Enabled {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.schemaMetrics.RecordReload(outcome)
}

// SetSchemasLoaded updates the number of schemas held by the registry.
func (c *Collector) SetSchemasLoaded(n int) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.schemaMetrics.SetLoaded(n)
}

// RecordHTTPRequest records a served API request.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(route, method, strconv.Itoa(status), duration)
}

// RecordAudit counts n audit records with outcome AuditStored, AuditDropped,
// AuditFailed or AuditPruned.
func (c *Collector) RecordAudit(outcome string, n int64) {
	if c == nil || !c.config.Enabled || n <= 0 {
		return
	}
	c.auditMetrics.Add(outcome, n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter bounds the number of distinct label values a metric may see.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter accepting up to maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or still fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
