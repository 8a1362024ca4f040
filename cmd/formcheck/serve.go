package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/audit/retention"
	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/formcheck"
	"github.com/opheus2/form-schema-validator/pkg/registry"
	"github.com/opheus2/form-schema-validator/pkg/server"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	schemas       string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation API",
	Long: `Serve the HTTP validation API for the schemas of the configured directory.

Routes:
  POST /v1/schemas/validate        validate a schema document
  POST /v1/forms/{name}/validate   validate a submission (JSON or multipart)
  GET  /v1/forms                   list loaded forms
  GET  /health, /ready, /version   probes
  GET  /metrics                    Prometheus metrics

Examples:
  formcheck serve --config formcheck.yaml
  formcheck serve --listen 0.0.0.0:8080 --schemas ./forms --watch
  formcheck serve --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.schemas, "schemas", "", "override schemas directory")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload schemas when files change")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and load schemas without serving")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.schemas != "" {
		cfg.Schemas.Path = serveFlags.schemas
	}
	if serveFlags.watch {
		cfg.Schemas.Watch = true
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, reg)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	manager := registry.NewManager(&cfg.Schemas, logger, collector)
	loadErr := manager.Load()

	if serveFlags.dryRun {
		if loadErr != nil {
			return loadErr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration valid\n✓ %d schema(s) loaded from %s\n",
			manager.Registry().Count(), cfg.Schemas.Path)
		return nil
	}
	if loadErr != nil {
		logger.Warn("Serving without a complete schema set; readiness will fail until a reload succeeds",
			"error", loadErr)
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	go func() {
		if err := manager.Watch(ctx); err != nil {
			logger.Error("Schema watcher failed", "error", err)
		}
	}()

	recorder, closeAudit, err := openRecorder(cfg, logger, collector)
	if err != nil {
		return err
	}
	defer closeAudit()
	if recorder != nil {
		pruner := retention.NewPruner(recorder.Storage(), &cfg.Audit, logger, retention.WithMetrics(collector))
		if err := pruner.Start(ctx); err != nil {
			return cli.NewConfigError("audit.prune_schedule", err.Error())
		}
		defer pruner.Stop()
	}

	engine := formcheck.New(
		formcheck.WithLogger(logger),
		formcheck.WithMetrics(collector),
		formcheck.WithTracer(tracer),
		formcheck.WithRecorder(recorder),
	)
	srv := server.New(&cfg.Server, engine, manager,
		server.WithLogger(logger),
		server.WithMetrics(collector, cfg.Telemetry.Metrics.Path),
		server.WithTracer(tracer),
		server.WithVersion(versionInfo()),
	)

	logger.Info("Starting formcheck",
		"version", Version,
		"address", cfg.Server.ListenAddress,
		"schemas", manager.Registry().Count(),
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", tracer.Enabled(),
		"audit", cfg.Audit.Enabled,
	)
	return srv.Start(ctx)
}
