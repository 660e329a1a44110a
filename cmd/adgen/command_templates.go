package main

import (
	"fmt"
	"io"

	"creative-builder/internal/service"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "List output formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTemplates(cmd.OutOrStdout())
	},
}

func registerTemplatesCommand(root *cobra.Command) {
	root.AddCommand(templatesCmd)
}

func listTemplates(w io.Writer) error {
	fmt.Fprintln(w, "Templates:")
	for _, t := range service.ListTemplates() {
		fmt.Fprintf(w, "  %-7s %-11s %4dx%-4d %s\n", t.Slug, t.Label, t.PixelWidth, t.PixelHeight, t.Name)
	}
	return nil
}
