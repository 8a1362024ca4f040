/*
Package cli provides the output formatting and error types used by the
formcheck command.

Command results are collected as Reports, one per validated document, and
written with the formatter for the chosen --format:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	reports := []cli.Report{cli.NewReport("contact.yaml", res)}
	if err := formatter.Write(os.Stdout, reports); err != nil {
		return err
	}

ExitCode maps command errors to process exit codes: 1 for documents that
failed validation, 2 for usage and configuration errors.
*/
package cli
