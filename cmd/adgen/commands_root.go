package main

import "github.com/spf13/cobra"

var (
	imagePath    string
	briefFile    string

	validateBriefFile string
	outputDir    string
	outputFormat string
	quality      float64
	onlySlugs    []string
)

var rootCmd = &cobra.Command{
	Use:           "adgen",
	Short:         "Retail creative generator: product image + brief → ad creatives",
	Long:          "adgen lays out a product image with brand copy for every catalog format and writes the rendered creatives to disk",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	registerTemplatesCommand(rootCmd)
	registerRenderCommand(rootCmd)
	registerValidateCommand(rootCmd)
}
