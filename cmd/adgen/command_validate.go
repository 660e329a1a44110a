package main

import (
	"fmt"
	"io"

	"creative-builder/internal/brief"
	"creative-builder/internal/service"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a brief YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateBrief(cmd.OutOrStdout(), validateBriefFile)
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateBriefFile, "brief", "b", "brief.yaml", "Brief file path")
}

func validateBrief(w io.Writer, path string) error {
	fmt.Fprintln(w, "□ Validating brief...")
	b, err := loadBrief(path)
	if err != nil {
		return err
	}
	if err := b.BrandContext().Validate(); err != nil {
		return fmt.Errorf("brand: %w", err)
	}
	fmt.Fprintln(w, "✓ Brief is valid")
	return nil
}

// loadBrief reads the brief and checks its style keys against the catalog.
func loadBrief(path string) (*brief.Brief, error) {
	b, err := brief.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load brief: %w", err)
	}
	for _, key := range b.StyleKeys() {
		if _, ok := service.FindTemplate(key); !ok {
			return nil, fmt.Errorf("brief styles: unknown template %q", key)
		}
	}
	return b, nil
}
