package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemastudio/backend/internal/domain/schema"
	apperrors "github.com/schemastudio/backend/pkg/errors"
)

var writeInPlace bool

var rootCmd = &cobra.Command{
	Use:          "schemactl",
	Short:        "Inspect and format schema documents",
	Long:         `schemactl validates schema documents against the JSON Schema draft-07 meta-schema and rewrites them in the editor's canonical formatting.`,
	SilenceUsage: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a schema document against the draft-07 meta-schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		result, err := schema.ValidateDocument(doc)
		if err != nil {
			return fmt.Errorf("meta-schema validation failed: %w", err)
		}
		if result.Valid {
			fmt.Printf("%s: valid draft-07 schema (%d entities)\n", args[0], doc.Definitions.Len())
			return nil
		}
		findings := make([]string, 0, len(result.Findings))
		for _, f := range result.Findings {
			fmt.Printf("%s: %s\n", f.Location, f.Message)
			findings = append(findings, f.Location+": "+f.Message)
		}
		return apperrors.NewMetaSchemaError(findings)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Rewrite a schema document in canonical formatting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		text, err := schema.ExportText(doc)
		if err != nil {
			return fmt.Errorf("failed to render document: %w", err)
		}
		if writeInPlace {
			return os.WriteFile(args[0], []byte(text), 0644)
		}
		fmt.Print(text)
		return nil
	},
}

func loadDocument(path string) (*schema.SchemaDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := schema.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write result back to the file instead of stdout")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fmtCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
