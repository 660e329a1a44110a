package service

import (
	"fmt"
	"log"
	"os"

	"creative-builder/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager holds the parsed bold and regular typefaces. Parsed fonts are
// shared; faces are created per render because a font.Face is not safe for
// concurrent use.
type FontManager struct {
	bold    *opentype.Font
	regular *opentype.Font
}

// NewFontManager loads custom TTF/OTF files, falling back to the embedded Go
// fonts when a path is empty or unreadable.
func NewFontManager(boldPath, regularPath string) (*FontManager, error) {
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("bold font: %w", err)
	}
	regular, err := loadFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("regular font: %w", err)
	}
	return &FontManager{bold: bold, regular: regular}, nil
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("font load failed, using embedded: path=%s err=%v", path, err)
		} else {
			data = b
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}

// Face returns a new face at size pixels.
func (fm *FontManager) Face(weight model.FontWeight, size float64) (font.Face, error) {
	f := fm.regular
	if weight == model.WeightBold {
		f = fm.bold
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
