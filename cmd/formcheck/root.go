package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opheus2/form-schema-validator/pkg/cli"
	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	logLevel string
	format   string
)

var rootCmd = &cobra.Command{
	Use:   "formcheck",
	Short: "Validate form schemas and submissions",
	Long: `Formcheck validates declarative form schemas (pages, sections and fields
with typed constraints and validation rules) and the submissions made against
them.

Errors are reported per schema path for schemas and per field key for
submissions. The same engine is served over HTTP by "formcheck serve".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before environment overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", string(cli.FormatText), "output format: text, json")
}

// loadSettings loads the configuration, applies flag overrides and builds
// the logger. Logs go to stderr so stdout only carries reports.
func loadSettings() (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile, envFile)
	if err != nil {
		return nil, nil, cli.NewConfigError("", err.Error())
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, nil, err
		}
	}
	config.SetConfig(cfg)

	logger, err := logging.FromConfig(&cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return cfg, logger, nil
}

// readDocument reads a file, or stdin for "-". The format follows the file
// extension and is sniffed for stdin.
func readDocument(cmd *cobra.Command, path string) (map[string]any, error) {
	if path != "-" {
		return schema.ParseFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return schema.ParseDocument(data, schema.FormatAuto, "stdin")
}

// writeReports writes reports in the selected format and returns
// cli.ErrValidationFailed when any of them failed.
func writeReports(cmd *cobra.Command, name string, reports []cli.Report, strict bool) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(format))
	if err != nil {
		return err
	}
	if err := formatter.Write(cmd.OutOrStdout(), reports); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, r := range reports {
		if r.Failed(strict) {
			return cli.NewCommandError(name, cli.ErrValidationFailed)
		}
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
