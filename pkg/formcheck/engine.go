package formcheck

import (
	"context"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/schema/validator"
	"github.com/opheus2/form-schema-validator/pkg/submission"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/tracing"
)

// StructureRule labels schema errors in metrics; the structural validator
// has no per-rule names.
const StructureRule = "structure"

// Engine runs schema and submission validation passes and reports each pass
// to the configured logger, metrics collector and tracer. The zero
// configuration from New() is silent. An Engine is safe for concurrent use.
type Engine struct {
	submissions *submission.Validator
	logger      *logging.Logger
	metrics     *metrics.Collector
	tracer      *tracing.Tracer
	recorder    *audit.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidator replaces the submission validator, e.g. one built with
// custom rules.
func WithValidator(v *submission.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.submissions = v
		}
	}
}

// WithLogger sets the logger used for pass summaries.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithRecorder writes one audit record per validation pass.
func WithRecorder(r *audit.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		submissions: submission.New(),
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validator returns the submission validator of the engine.
func (e *Engine) Validator() *submission.Validator {
	return e.submissions
}

// ValidateSchema runs the structural checks on a decoded schema document.
// Keys of the result are schema paths such as form.pages[0].key.
func (e *Engine) ValidateSchema(ctx context.Context, raw map[string]any) *result.Result {
	ctx, span := e.tracer.StartValidation(ctx, metrics.KindSchema, logging.GetForm(ctx))
	start := time.Now()

	res := validator.Validate(raw)

	failed := make([]string, res.Len())
	for i := range failed {
		failed[i] = StructureRule
	}
	e.finish(ctx, metrics.KindSchema, raw, res, failed, start)
	tracing.EndValidation(span, res, nil)
	return res
}

// ValidateSubmission checks payload, overlaid by replacements, against s.
// Keys of the result are field keys.
func (e *Engine) ValidateSubmission(ctx context.Context, s *schema.Schema, payload, replacements map[string]any) *result.Result {
	ctx, span := e.tracer.StartValidation(ctx, metrics.KindSubmission, logging.GetForm(ctx))
	start := time.Now()

	res := result.New()
	var failed []string
	if s != nil {
		for _, fe := range e.submissions.Check(s, e.submissions.NewContext(payload, replacements)) {
			if res.Add(fe.Key, fe.Message) {
				failed = append(failed, fe.Rule)
			}
		}
	}

	e.finish(ctx, metrics.KindSubmission, payload, res, failed, start)
	if !res.IsValid() {
		e.logger.DebugContext(ctx, "Rejected submission", "payload", e.logger.Payload(payload))
	}
	tracing.EndValidation(span, res, nil)
	return res
}

// AssertValidSchema returns a *result.InvalidError when raw is not a valid
// schema.
func (e *Engine) AssertValidSchema(ctx context.Context, raw map[string]any) error {
	return result.Check(result.SubjectSchema, e.ValidateSchema(ctx, raw))
}

// AssertValidSubmission returns a *result.InvalidError carrying every field
// error when the submission is invalid.
func (e *Engine) AssertValidSubmission(ctx context.Context, s *schema.Schema, payload, replacements map[string]any) error {
	return result.Check(result.SubjectSubmission, e.ValidateSubmission(ctx, s, payload, replacements))
}

// ValidateSchemaBytes decodes a JSON or YAML schema document and validates it.
// The error is non-nil only when the document cannot be decoded.
func (e *Engine) ValidateSchemaBytes(ctx context.Context, data []byte, format schema.Format) (*result.Result, error) {
	raw, err := schema.ParseDocument(data, format, logging.GetSource(ctx))
	if err != nil {
		e.recordFailure(ctx, metrics.KindSchema, err)
		return nil, err
	}
	return e.ValidateSchema(ctx, raw), nil
}

// ValidateSubmissionBytes decodes a JSON or YAML payload document and
// validates it against s.
func (e *Engine) ValidateSubmissionBytes(ctx context.Context, s *schema.Schema, data []byte, format schema.Format, replacements map[string]any) (*result.Result, error) {
	payload, err := schema.ParseDocument(data, format, logging.GetSource(ctx))
	if err != nil {
		e.recordFailure(ctx, metrics.KindSubmission, err)
		return nil, err
	}
	return e.ValidateSubmission(ctx, s, payload, replacements), nil
}

func (e *Engine) finish(ctx context.Context, kind string, doc map[string]any, res *result.Result, failed []string, start time.Time) {
	elapsed := time.Since(start)
	e.metrics.RecordValidation(kind, res.IsValid(), elapsed, failed)
	e.logger.DebugContext(ctx, "Validation completed",
		"kind", kind,
		"valid", res.IsValid(),
		"errors", res.Len(),
		"duration_ms", float64(elapsed.Microseconds())/1000,
	)

	if e.recorder == nil {
		return
	}
	record := newRecord(ctx, kind, start, elapsed)
	record.Outcome = audit.OutcomeValid
	if !res.IsValid() {
		record.Outcome = audit.OutcomeInvalid
	}
	record.ErrorCount = res.Len()
	record.ErrorKeys = res.Keys()
	record.FailedRules = failed
	record.PayloadHash = audit.HashDocument(doc)
	e.audit(ctx, record)
}

func (e *Engine) recordFailure(ctx context.Context, kind string, err error) {
	start := time.Now()
	_, span := e.tracer.StartValidation(ctx, kind, logging.GetForm(ctx))
	tracing.EndValidation(span, nil, err)
	e.logger.WarnContext(ctx, "Failed to decode document", "kind", kind, "error", err)

	if e.recorder == nil {
		return
	}
	record := newRecord(ctx, kind, start, 0)
	record.Outcome = audit.OutcomeError
	record.Error = err.Error()
	e.audit(ctx, record)
}

func (e *Engine) audit(ctx context.Context, record *audit.Record) {
	if err := e.recorder.Record(ctx, record); err != nil {
		e.logger.WarnContext(ctx, "Audit record dropped", "error", err)
	}
}

func newRecord(ctx context.Context, kind string, start time.Time, elapsed time.Duration) *audit.Record {
	return &audit.Record{
		RequestID:     logging.GetRequestID(ctx),
		Kind:          kind,
		Form:          logging.GetForm(ctx),
		Source:        logging.GetSource(ctx),
		SchemaVersion: audit.SchemaVersion(ctx),
		ValidatedAt:   start.UTC(),
		Duration:      elapsed,
	}
}
