package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
)

// Pruner enforces the retention limits of the audit trail.
type Pruner struct {
	storage   audit.Storage
	config    *config.AuditConfig
	logger    *logging.Logger
	metrics   *metrics.Collector
	scheduler *Scheduler
	now       func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) { p.now = now }
}

// WithMetrics counts pruned records.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pruner) { p.metrics = c }
}

// NewPruner creates a pruner over storage. Only RetentionDays, MaxRecords
// and PruneSchedule of cfg are used.
func NewPruner(storage audit.Storage, cfg *config.AuditConfig, logger *logging.Logger, opts ...Option) *Pruner {
	if cfg == nil {
		cfg = &config.AuditConfig{
			RetentionDays: config.DefaultAuditRetentionDays,
			PruneSchedule: config.DefaultAuditPruneSchedule,
		}
	}
	if logger == nil {
		logger = logging.Nop()
	}

	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  logger.With("component", "audit.retention"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes records older than RetentionDays, then the oldest records
// beyond MaxRecords. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	p.metrics.RecordAudit(metrics.AuditPruned, total)
	if total > 0 {
		p.logger.Info("Audit records pruned",
			"deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	return p.storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
}

// pruneByCount deletes up to and including the newest of the records that
// exceed the cap; records sharing its timestamp go too.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &audit.Query{})
	if err != nil {
		return 0, err
	}
	excess := count - p.config.MaxRecords
	if excess <= 0 {
		return 0, nil
	}
	if excess > audit.MaxLimit {
		excess = audit.MaxLimit
	}

	oldest, err := p.storage.Query(ctx, &audit.Query{
		Limit:     int(excess),
		SortBy:    "validated_at",
		SortOrder: "asc",
	})
	if err != nil {
		return 0, err
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].ValidatedAt
	return p.storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
}

// Start schedules Prune on PruneSchedule until ctx is done or Stop is called.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the schedule and waits for a running prune.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled run, or nil when not scheduled.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
