package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
)

// Recorder writes audit records asynchronously so validation never waits on
// storage. A nil *Recorder discards records.
type Recorder struct {
	storage Storage
	config  *config.AuditConfig
	records chan *Record
	wg      sync.WaitGroup
	done    chan struct{}
	once    sync.Once
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewRecorder creates a recorder writing to storage and starts its worker.
// Call Close to flush queued records.
func NewRecorder(storage Storage, cfg *config.AuditConfig, logger *logging.Logger, collector *metrics.Collector) *Recorder {
	if cfg == nil {
		cfg = &config.AuditConfig{Enabled: true}
	}
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = config.DefaultAuditAsyncBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = config.DefaultAuditWriteTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		records: make(chan *Record, cfg.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  logger.With("component", "audit.recorder"),
		metrics: collector,
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("Audit recorder started",
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)
	return r
}

// Storage returns the backend records are written to.
func (r *Recorder) Storage() Storage {
	return r.storage
}

// Record queues record for writing. ID and RecordedAt are filled when
// empty. It returns a *RecorderError when the queue stays full for the
// write timeout or the recorder is closed; the record is then dropped.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	if r == nil || record == nil {
		return nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case <-r.done:
		r.metrics.RecordAudit(metrics.AuditDropped, 1)
		return NewRecorderError(record.ID, context.Canceled)
	default:
	}

	select {
	case r.records <- record:
		return nil
	case <-timer.C:
		r.logger.WarnContext(ctx, "Audit queue full, dropping record",
			"record_id", record.ID,
			"capacity", r.config.AsyncBuffer,
		)
		r.metrics.RecordAudit(metrics.AuditDropped, 1)
		return NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.metrics.RecordAudit(metrics.AuditDropped, 1)
		return NewRecorderError(record.ID, context.Canceled)
	}
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Close stops accepting records, writes the queued ones and waits for the
// worker. It is safe to call more than once.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.logger.Debug("Audit recorder stopped")
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.records:
			r.write(record)
		case <-r.done:
			for {
				select {
				case record := <-r.records:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("Failed to store audit record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		r.metrics.RecordAudit(metrics.AuditFailed, 1)
		return
	}
	r.metrics.RecordAudit(metrics.AuditStored, 1)

	if elapsed := time.Since(start); elapsed > r.config.WriteTimeout/2 {
		r.logger.Warn("Slow audit write",
			"record_id", record.ID,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
