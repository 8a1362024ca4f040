package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/formcheck"
	"github.com/opheus2/form-schema-validator/pkg/registry"
)

var lintFlags struct {
	strict bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [PATH...]",
	Short: "Lint schema files",
	Long: `Lint schema files or directories. Besides structural errors, lint warns
about rules the engine does not know (they always pass) and parameters that
look like field references but are malformed (they are compared as literal
strings).

Without arguments the configured schemas directory is linted.

Examples:
  formcheck lint forms/
  formcheck lint --strict forms/contact.yaml
  formcheck lint --format json`,
	RunE: lintSchemas,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
}

func lintSchemas(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{cfg.Schemas.Path}
	}

	engine := formcheck.New(formcheck.WithLogger(logger))
	// Lenient loading so structurally invalid files are reported, not skipped.
	loader := &registry.Loader{}

	var reports []cli.Report
	for _, path := range args {
		entries, err := loader.Load(path)
		var loadErrs registry.LoadErrors
		switch {
		case errors.As(err, &loadErrs):
			for _, le := range loadErrs {
				reports = append(reports, cli.ErrorReport(le.Path, le.Cause))
			}
		case err != nil:
			reports = append(reports, cli.ErrorReport(path, err))
		}
		for _, entry := range entries {
			reports = append(reports, lintReport(commandContext(cmd), engine, entry))
		}
	}
	if len(reports) == 0 {
		return cli.NewUsageError("no schema files found")
	}
	return writeReports(cmd, "lint", reports, lintFlags.strict)
}

func lintReport(ctx context.Context, engine *formcheck.Engine, entry *registry.Entry) cli.Report {
	lint := engine.Lint(entry.Raw)
	report := cli.NewReport(entry.Path, engine.ValidateSchema(ctx, entry.Raw))
	for _, w := range lint.Warnings {
		report.Warnings = append(report.Warnings, cli.Finding{Key: w.Path, Message: w.Message})
	}
	return report
}
