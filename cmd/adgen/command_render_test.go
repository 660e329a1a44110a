package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"creative-builder/internal/service"
)

func writeProduct(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0xcc, G: 0x33, B: 0x11, A: 255})
		}
	}
	path := filepath.Join(dir, "product.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestRenderBatchWritesEveryTemplate(t *testing.T) {
	dir := t.TempDir()
	briefPath := filepath.Join(dir, "brief.yaml")
	brief := "brand_name: Acme\nretailer_theme: generic\nstyles:\n  story:\n    cta_align: right\n"
	if err := os.WriteFile(briefPath, []byte(brief), 0o644); err != nil {
		t.Fatalf("write brief: %v", err)
	}
	out := filepath.Join(dir, "out")

	var log bytes.Buffer
	err := renderBatch(&log, renderOptions{
		ImagePath: writeProduct(t, dir),
		BriefPath: briefPath,
		OutDir:    out,
		Format:    service.FormatJPEG,
		Quality:   0.85,
		Now:       func() time.Time { return time.UnixMilli(42) },
	})
	if err != nil {
		t.Fatalf("render: %v\n%s", err, log.String())
	}

	for _, slug := range []string{"story", "square", "feed"} {
		path := filepath.Join(out, "creative-ad-42-"+slug+".jpg")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing %s: %v", slug, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", slug, err)
		}
		tpl, _ := service.FindTemplate(slug)
		if cfg.Width != tpl.PixelWidth || cfg.Height != tpl.PixelHeight {
			t.Fatalf("%s: %dx%d", slug, cfg.Width, cfg.Height)
		}
	}
	if !strings.Contains(log.String(), "accent sampled: #cc3311") {
		t.Fatalf("accent not reported:\n%s", log.String())
	}
}

func TestRenderBatchOnlyPNG(t *testing.T) {
	dir := t.TempDir()
	var log bytes.Buffer
	err := renderBatch(&log, renderOptions{
		ImagePath: writeProduct(t, dir),
		OutDir:    dir,
		Format:    service.FormatPNG,
		Quality:   1,
		Only:      []string{"1:1 Square", "square"},
		Now:       func() time.Time { return time.UnixMilli(7) },
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "creative-ad-7-*.png"))
	if len(matches) != 1 {
		t.Fatalf("expected one file, got %v", matches)
	}
}

func TestRenderBatchRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	product := writeProduct(t, dir)
	var log bytes.Buffer

	if err := renderBatch(&log, renderOptions{ImagePath: product, OutDir: dir, Format: service.FormatJPEG, Quality: 0.85, Only: []string{"billboard"}}); err == nil {
		t.Fatal("expected unknown template error")
	}

	briefPath := filepath.Join(dir, "brief.yaml")
	_ = os.WriteFile(briefPath, []byte("styles:\n  banner:\n    brand_align: left\n"), 0o644)
	if err := renderBatch(&log, renderOptions{ImagePath: product, BriefPath: briefPath, OutDir: dir, Format: service.FormatJPEG, Quality: 0.85}); err == nil {
		t.Fatal("expected unknown style key error")
	}

	if err := renderBatch(&log, renderOptions{ImagePath: product, OutDir: dir, Format: service.FormatJPEG, Quality: 2}); err == nil || !strings.Contains(err.Error(), "all 3 templates failed") {
		t.Fatalf("expected batch failure, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	_ = os.WriteFile(garbage, []byte("nope"), 0o644)
	if err := renderBatch(&log, renderOptions{ImagePath: garbage, OutDir: dir, Format: service.FormatJPEG, Quality: 0.85}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestListTemplates(t *testing.T) {
	var out bytes.Buffer
	if err := listTemplates(&out); err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"9:16 Story", "1:1 Square", "4:5 Feed", "1080x1920"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestRenderCommandWithoutBrief(t *testing.T) {
	dir := t.TempDir()
	product := writeProduct(t, dir)
	chdirForTest(t, dir)
	out := filepath.Join(dir, "out")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"render", "--image", product, "--out", out, "--only", "square"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("render without --brief: %v\n%s", err, buf.String())
	}
	matches, _ := filepath.Glob(filepath.Join(out, "creative-ad-*-square.jpg"))
	if len(matches) != 1 {
		t.Fatalf("expected one square creative, got %v", matches)
	}

	briefPath := filepath.Join(dir, "brief.yaml")
	if err := os.WriteFile(briefPath, []byte("brand_name: Acme\n"), 0o644); err != nil {
		t.Fatalf("write brief: %v", err)
	}
	rootCmd.SetArgs([]string{"validate"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validate default brief: %v\n%s", err, buf.String())
	}
	if briefFile != "" {
		t.Fatalf("render brief flag leaked a default: %q", briefFile)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
