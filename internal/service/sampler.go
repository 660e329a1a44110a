package service

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"creative-builder/internal/model"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const sampleCanvasSize = 100

// DecodeImage decodes an uploaded product image, applying EXIF orientation.
func DecodeImage(r io.Reader) (*model.SourceImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &model.DecodeError{Err: err}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &model.DecodeError{Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	return &model.SourceImage{
		Image:     img,
		Width:     b.Dx(),
		Height:    b.Dy(),
		DecodedAt: time.Now().UnixMilli(),
	}, nil
}

// SampleAccent squashes img onto a 100x100 canvas and returns the centre pixel
// as "#rrggbb". It is a single-pixel heuristic, not dominant-colour extraction.
func SampleAccent(img image.Image) (string, error) {
	if img == nil {
		return "", &model.PreconditionError{Reason: "image not decoded"}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return model.DefaultAccentColor, nil
	}
	resized := imaging.Resize(img, sampleCanvasSize, sampleCanvasSize, imaging.Lanczos)
	c := resized.NRGBAAt(sampleCanvasSize/2, sampleCanvasSize/2)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}
