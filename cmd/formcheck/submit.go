package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/formcheck"
	"github.com/opheus2/form-schema-validator/pkg/registry"
	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

var submitFlags struct {
	schema       string
	form         string
	replacements string
}

var submitCmd = &cobra.Command{
	Use:   "submit PAYLOAD...",
	Short: "Validate submissions against a schema",
	Long: `Validate one or more submission payloads (JSON or YAML objects) against a
schema file (--schema) or a schema from the configured schemas directory
(--form). Values from --replacements override payload values with the same
key before validation.

Examples:
  formcheck submit --schema forms/contact.yaml payload.json
  formcheck submit --form contact --replacements server-values.json payload.json
  echo '{"name": "Ada"}' | formcheck submit --form contact -`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateSubmissions,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitFlags.schema, "schema", "s", "", "schema file")
	submitCmd.Flags().StringVarP(&submitFlags.form, "form", "f", "", "schema name in the schemas directory")
	submitCmd.Flags().StringVarP(&submitFlags.replacements, "replacements", "r", "", "file of values overriding the payload")
	submitCmd.MarkFlagsMutuallyExclusive("schema", "form")
}

func validateSubmissions(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	var s *schema.Schema
	switch {
	case submitFlags.schema != "":
		raw, err := schema.ParseFile(submitFlags.schema)
		if err != nil {
			return err
		}
		if err := formcheck.AssertValidSchema(raw); err != nil {
			return fmt.Errorf("%s: %w", submitFlags.schema, err)
		}
		s = schema.FromMap(raw)
	case submitFlags.form != "":
		manager := registry.NewManager(&cfg.Schemas, logger, nil)
		if err := manager.Load(); err != nil {
			return err
		}
		entry, err := manager.Get(submitFlags.form)
		if err != nil {
			return err
		}
		s = entry.Schema
	default:
		return cli.NewUsageError("either --schema or --form must be specified")
	}

	var replacements map[string]any
	if submitFlags.replacements != "" {
		if replacements, err = schema.ParseFile(submitFlags.replacements); err != nil {
			return err
		}
	}

	recorder, closeAudit, err := openRecorder(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeAudit()

	engine := formcheck.New(formcheck.WithLogger(logger), formcheck.WithRecorder(recorder))
	ctx := logging.WithForm(commandContext(cmd), submitFlags.form)

	reports := make([]cli.Report, 0, len(args))
	for _, path := range args {
		payload, err := readDocument(cmd, path)
		if err != nil {
			reports = append(reports, cli.ErrorReport(path, err))
			continue
		}
		res := engine.ValidateSubmission(logging.WithSource(ctx, path), s, payload, replacements)
		reports = append(reports, cli.NewReport(path, res))
	}
	return writeReports(cmd, "submit", reports, false)
}
