package main

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/audit/export"
	"github.com/opheus2/form-schema-validator/pkg/audit/retention"
	"github.com/opheus2/form-schema-validator/pkg/audit/storage"
	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
)

type auditOptions struct {
	form      string
	kind      string
	outcome   string
	rule      string
	requestID string
	since     string
	until     string
	limit     int
	offset    int
	sortBy    string
	order     string
	export    string
	pretty    bool
}

var auditFlags auditOptions

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and prune the validation audit trail",
	Long: `Inspect and prune the audit trail written when audit.enabled is set.
Records describe each validation pass (form, outcome, failing fields and
rules) and never contain submitted values.`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Export audit records as JSON or CSV",
	Long: `Export the audit records matching the filters, newest first.

--since and --until accept a duration ("24h") counted back from now, or a
date ("2024-05-01", "May 1, 2024 10:00").

Examples:
  formcheck audit query --form contact --outcome invalid
  formcheck audit query --rule required --since 24h --export csv > failures.csv`,
	Args: cobra.NoArgs,
	RunE: queryAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit records beyond the retention limits",
	Long: `Delete records older than audit.retention_days, then the oldest records
beyond audit.max_records.`,
	Args: cobra.NoArgs,
	RunE: pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditPruneCmd)

	f := auditQueryCmd.Flags()
	f.StringVar(&auditFlags.form, "form", "", "filter by form name")
	f.StringVar(&auditFlags.kind, "kind", "", "filter by kind (schema, submission)")
	f.StringVar(&auditFlags.outcome, "outcome", "", "filter by outcome (valid, invalid, error)")
	f.StringVar(&auditFlags.rule, "rule", "", "only records where a field failed this rule")
	f.StringVar(&auditFlags.requestID, "request-id", "", "filter by request ID")
	f.StringVar(&auditFlags.since, "since", "", "only records validated at or after this time")
	f.StringVar(&auditFlags.until, "until", "", "only records validated at or before this time")
	f.IntVar(&auditFlags.limit, "limit", audit.DefaultLimit, "maximum number of records")
	f.IntVar(&auditFlags.offset, "offset", 0, "records to skip")
	f.StringVar(&auditFlags.sortBy, "sort", audit.DefaultSortBy, "sort field (validated_at, recorded_at, duration, error_count)")
	f.StringVar(&auditFlags.order, "order", "desc", "sort order (asc, desc)")
	f.StringVar(&auditFlags.export, "export", "json", "export format: json, csv")
	f.BoolVar(&auditFlags.pretty, "pretty", false, "indent JSON output")
}

// openRecorder opens the audit store and starts a recorder when auditing is
// enabled. The returned closer drains the recorder before closing the store.
// Both are nil-safe when auditing is disabled.
func openRecorder(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector) (*audit.Recorder, func(), error) {
	if !cfg.Audit.Enabled {
		return nil, func() {}, nil
	}
	store, err := storage.Open(&cfg.Audit, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit storage: %w", err)
	}
	recorder := audit.NewRecorder(store, &cfg.Audit, logger, collector)
	return recorder, func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("Failed to drain audit recorder", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close audit storage", "error", err)
		}
	}, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	query := &audit.Query{
		Kind:      auditFlags.kind,
		Form:      auditFlags.form,
		RequestID: auditFlags.requestID,
		Outcome:   auditFlags.outcome,
		Rule:      auditFlags.rule,
		Limit:     auditFlags.limit,
		Offset:    auditFlags.offset,
		SortBy:    auditFlags.sortBy,
		SortOrder: auditFlags.order,
	}
	now := time.Now()
	if query.StartTime, err = parseSince(auditFlags.since, now); err != nil {
		return cli.NewUsageError(fmt.Sprintf("invalid --since: %v", err))
	}
	if query.EndTime, err = parseSince(auditFlags.until, now); err != nil {
		return cli.NewUsageError(fmt.Sprintf("invalid --until: %v", err))
	}
	if err := audit.Validate(query); err != nil {
		return cli.NewUsageError(err.Error())
	}
	audit.ApplyDefaults(query)

	exporter, err := export.New(auditFlags.export, auditFlags.pretty)
	if err != nil {
		return cli.NewUsageError(err.Error())
	}

	store, err := storage.Open(&cfg.Audit, logger)
	if err != nil {
		return fmt.Errorf("failed to open audit storage: %w", err)
	}
	defer store.Close()

	ctx := commandContext(cmd)
	recordsCh, errCh, err := store.QueryStream(ctx, query)
	if err != nil {
		return err
	}
	if err := exporter.ExportStream(ctx, recordsCh, cmd.OutOrStdout()); err != nil {
		return err
	}
	return <-errCh
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := storage.Open(&cfg.Audit, logger)
	if err != nil {
		return fmt.Errorf("failed to open audit storage: %w", err)
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, &cfg.Audit, logger).Prune(commandContext(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d audit record(s) pruned\n", deleted)
	return nil
}

// parseSince reads a duration before now or an absolute date. Empty input
// means no bound.
func parseSince(s string, now time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		t := now.Add(-d)
		return &t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
