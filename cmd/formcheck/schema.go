package main

import (
	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/formcheck"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

var schemaCmd = &cobra.Command{
	Use:   "schema FILE...",
	Short: "Check the structure of schema files",
	Long: `Check that schema files are structurally valid: every page, section and
field is present and keyed, field types are known and options fields list
their choices.

Use "-" to read a schema from stdin.

Examples:
  formcheck schema forms/contact.yaml forms/signup.json
  cat contact.json | formcheck schema - --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateSchemas,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func validateSchemas(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	recorder, closeAudit, err := openRecorder(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeAudit()
	engine := formcheck.New(formcheck.WithLogger(logger), formcheck.WithRecorder(recorder))

	reports := make([]cli.Report, 0, len(args))
	for _, path := range args {
		raw, err := readDocument(cmd, path)
		if err != nil {
			reports = append(reports, cli.ErrorReport(path, err))
			continue
		}
		ctx := logging.WithSource(commandContext(cmd), path)
		reports = append(reports, cli.NewReport(path, engine.ValidateSchema(ctx, raw)))
	}
	return writeReports(cmd, "schema", reports, false)
}
