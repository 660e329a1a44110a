package service

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
	"time"

	"creative-builder/internal/model"
)

func TestExportJPEGAndPNG(t *testing.T) {
	img := solidImage(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	jpg, err := ExportBytes(img, FormatJPEG, DefaultExportQuality)
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	if !bytes.HasPrefix(jpg, []byte{0xff, 0xd8}) {
		t.Fatalf("not a jpeg: % x", jpg[:4])
	}

	p, err := ExportBytes(img, FormatPNG, 0)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(p, []byte("\x89PNG")) {
		t.Fatalf("not a png: % x", p[:4])
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	img := solidImage(2, 2, color.NRGBA{A: 255})
	var verr *model.ValidationError
	for _, q := range []float64{0, -0.1, 1.5} {
		if _, err := ExportBytes(img, FormatJPEG, q); !errors.As(err, &verr) {
			t.Fatalf("quality %v: %v", q, err)
		}
	}
	var perr *model.PreconditionError
	if _, err := ExportBytes(nil, FormatPNG, 1); !errors.As(err, &perr) {
		t.Fatalf("nil image: %v", err)
	}
	if _, err := ParseExportFormat("gif"); !errors.As(err, &verr) {
		t.Fatalf("gif format: %v", err)
	}
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": FormatJPEG, "JPG": FormatJPEG, "jpeg": FormatJPEG, " png ": FormatPNG} {
		got, err := ParseExportFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseExportFormat(%q) = %q, %v", in, got, err)
		}
	}
	if FormatPNG.ContentType() != "image/png" || FormatJPEG.ContentType() != "image/jpeg" {
		t.Fatal("unexpected content types")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := ExportFilename(now, FormatJPEG); got != "creative-ad-1700000000123.jpg" {
		t.Fatalf("jpeg filename: %s", got)
	}
	if got := ExportFilename(now, FormatPNG); got != "creative-ad-1700000000123.png" {
		t.Fatalf("png filename: %s", got)
	}
}
