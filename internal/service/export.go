package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"creative-builder/internal/model"
	"github.com/disintegration/imaging"
)

type ExportFormat string

const (
	FormatJPEG ExportFormat = "jpeg"
	FormatPNG  ExportFormat = "png"

	DefaultExportQuality = 0.85
)

// ParseExportFormat accepts jpeg, jpg and png; empty means jpeg.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", &model.ValidationError{Field: "format", Value: s, Reason: "must be jpeg or png"}
	}
}

// ExportImage encodes img. quality is in (0,1] and only applies to JPEG.
func ExportImage(w io.Writer, img image.Image, format ExportFormat, quality float64) error {
	if img == nil {
		return &model.PreconditionError{Reason: "nothing rendered"}
	}
	switch format {
	case FormatJPEG, "":
		if quality <= 0 || quality > 1 {
			return &model.ValidationError{Field: "quality", Value: fmt.Sprint(quality), Reason: "must be in (0,1]"}
		}
		q := int(math.Round(quality * 100))
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(q))
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return &model.ValidationError{Field: "format", Value: string(format), Reason: "must be jpeg or png"}
	}
}

// ExportBytes is ExportImage into memory.
func ExportBytes(img image.Image, format ExportFormat, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportImage(&buf, img, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename follows creative-ad-<unix millis>.jpg.
func ExportFilename(now time.Time, format ExportFormat) string {
	ext := "jpg"
	if format == FormatPNG {
		ext = "png"
	}
	return fmt.Sprintf("creative-ad-%d.%s", now.UnixMilli(), ext)
}

// ContentType returns the MIME type for format.
func (f ExportFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}
