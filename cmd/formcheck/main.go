// Formcheck validates form schemas and form submissions.
//
// Usage:
//
//	# Check the structure of schema files
//	formcheck schema forms/contact.yaml
//
//	# Validate a submission against a schema file or a loaded form
//	formcheck submit --schema forms/contact.yaml payload.json
//	formcheck submit --form contact payload.json
//
//	# Lint every schema of a directory, failing on warnings
//	formcheck lint --strict forms/
//
//	# Serve the validation API
//	formcheck serve --config formcheck.yaml
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/opheus2/form-schema-validator/pkg/cli"
)

func main() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
