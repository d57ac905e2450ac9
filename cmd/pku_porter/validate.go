package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonathan/pku-porter/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate [record.pku]",
	Short: "Validate a record against the .pku JSON schema",
	Long: `Checks the shape of a canonical record against the embedded .pku schema.
With --schema and --json any JSON document can be checked against any schema.
Exits with status 1 when validation fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateJSONPath   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to a JSON Schema file (default: the embedded .pku schema)")
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to the JSON document to validate")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path := validateJSONPath
	if len(args) == 1 {
		if path != "" {
			return errors.New("give the document either as an argument or with --json, not both")
		}
		path = args[0]
	}
	if path == "" {
		return errors.New("a document to validate is required")
	}

	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, path)
	} else {
		err = schemas.ValidateRecordFile(path)
	}
	if err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			pterm.Error.Println("Validation failed")
			for _, fe := range ve.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
			return errors.Newf("%s does not match the schema", path)
		}
		return err
	}

	pterm.Success.Printfln("Validation passed: %s", path)
	return nil
}
