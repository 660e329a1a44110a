package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"creative-builder/internal/config"
	"creative-builder/internal/model"
	"creative-builder/internal/service"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every template for a product image and brief",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		format, err := service.ParseExportFormat(outputFormat)
		if err != nil {
			return err
		}
		q := cfg.ExportQuality
		if cmd.Flags().Changed("quality") {
			q = quality
		}
		return renderBatch(cmd.OutOrStdout(), renderOptions{
			ImagePath:   imagePath,
			BriefPath:   briefFile,
			OutDir:      outputDir,
			Format:      format,
			Quality:     q,
			Only:        onlySlugs,
			FontBold:    cfg.FontBoldPath,
			FontRegular: cfg.FontRegularPath,
		})
	},
}

func registerRenderCommand(root *cobra.Command) {
	root.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Product image path (png, jpeg, gif, webp)")
	renderCmd.Flags().StringVarP(&briefFile, "brief", "b", "", "Brief file path (optional)")
	renderCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	renderCmd.Flags().StringVarP(&outputFormat, "format", "f", "jpeg", "Output format (jpeg/png)")
	renderCmd.Flags().Float64VarP(&quality, "quality", "q", service.DefaultExportQuality, "JPEG quality in (0,1]")
	renderCmd.Flags().StringSliceVar(&onlySlugs, "only", nil, "Render only these templates (slug or label)")
	_ = renderCmd.MarkFlagRequired("image")
}

type renderOptions struct {
	ImagePath   string
	BriefPath   string
	OutDir      string
	Format      service.ExportFormat
	Quality     float64
	Only        []string
	FontBold    string
	FontRegular string
	Now         func() time.Time
}

// renderBatch writes one creative per selected template. It fails only when
// the inputs are unusable or every template failed.
func renderBatch(w io.Writer, opts renderOptions) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	brand := model.BrandContext{}
	styleFor := func(model.Template) model.StyleConfig { return model.DefaultStyleConfig() }
	if opts.BriefPath != "" {
		fmt.Fprintln(w, "□ Loading brief...")
		b, err := loadBrief(opts.BriefPath)
		if err != nil {
			return err
		}
		brand = b.BrandContext()
		styleFor = b.StyleFor
	}
	if err := brand.Validate(); err != nil {
		return fmt.Errorf("brand: %w", err)
	}
	if strings.TrimSpace(brand.BrandName) == "" {
		brand.BrandName = model.DefaultBrandName
	}

	templates, err := selectTemplates(opts.Only)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "□ Decoding product image...")
	f, err := os.Open(opts.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	src, err := service.DecodeImage(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	if brand.AccentColor == "" {
		accent, err := service.SampleAccent(src.Image)
		if err != nil {
			return err
		}
		brand.AccentColor = accent
		fmt.Fprintf(w, "  accent sampled: %s\n", accent)
	}

	fonts, err := service.NewFontManager(opts.FontBold, opts.FontRegular)
	if err != nil {
		return err
	}
	renderer := service.NewRenderer(fonts)
	checker := service.MockCompliance{}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	fmt.Fprintf(w, "□ Rendering %d templates...\n", len(templates))
	stamp := opts.Now().UnixMilli()
	failed := 0
	for _, t := range templates {
		path, report, err := renderOne(renderer, checker, t, brand, styleFor(t), src, opts, stamp)
		if err != nil {
			failed++
			fmt.Fprintf(w, "✗ %s: %v\n", t.Label, err)
			continue
		}
		status := "passed"
		if !report.Passed {
			status = "flagged"
		}
		fmt.Fprintf(w, "✓ %s → %s (compliance %s)\n", t.Label, path, status)
	}

	if failed == len(templates) {
		return fmt.Errorf("all %d templates failed", failed)
	}
	return nil
}

func renderOne(renderer *service.Renderer, checker service.ComplianceChecker, t model.Template, brand model.BrandContext, style model.StyleConfig, src *model.SourceImage, opts renderOptions, stamp int64) (string, service.ComplianceReport, error) {
	plan, err := service.ComputeLayout(t, brand, style, src.AspectRatio())
	if err != nil {
		return "", service.ComplianceReport{}, err
	}
	img, err := renderer.RenderCreative(plan, src.Image)
	if err != nil {
		return "", service.ComplianceReport{}, err
	}
	report, err := checker.Check(context.Background(), plan)
	if err != nil {
		return "", service.ComplianceReport{}, err
	}

	ext := "jpg"
	if opts.Format == service.FormatPNG {
		ext = "png"
	}
	path := filepath.Join(opts.OutDir, fmt.Sprintf("creative-ad-%d-%s.%s", stamp, t.Slug, ext))
	out, err := os.Create(path)
	if err != nil {
		return "", report, err
	}
	if err := service.ExportImage(out, img, opts.Format, opts.Quality); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", report, err
	}
	if err := out.Close(); err != nil {
		return "", report, err
	}
	return path, report, nil
}

func selectTemplates(only []string) ([]model.Template, error) {
	if len(only) == 0 {
		return service.ListTemplates(), nil
	}
	var out []model.Template
	seen := map[string]bool{}
	for _, key := range only {
		t, ok := service.FindTemplate(key)
		if !ok {
			return nil, fmt.Errorf("unknown template %q", key)
		}
		if !seen[t.Slug] {
			seen[t.Slug] = true
			out = append(out, t)
		}
	}
	return out, nil
}
