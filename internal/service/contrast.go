package service

import (
	"image/color"
	"strconv"

	"creative-builder/internal/model"
)

const (
	ctaFallbackFill = "#000000"
	// complianceMint is the background of the compliance panel.
	complianceMint = "#f0fdf4"
)

// ctaFill picks the CTA button colour. Only exact white and the compliance mint
// fall back to black; other light colours are used as-is.
func ctaFill(accent string) string {
	hex := resolveAccent(accent)
	if hex == "#ffffff" || hex == complianceMint {
		return ctaFallbackFill
	}
	return hex
}

// resolveAccent normalises accent, substituting the default for invalid input.
func resolveAccent(accent string) string {
	hex, ok := model.NormalizeHex(accent)
	if !ok {
		return model.DefaultAccentColor
	}
	return hex
}

// parseHex converts "#rrggbb" to an opaque colour. Invalid input yields white.
func parseHex(hex string) color.NRGBA {
	hex, ok := model.NormalizeHex(hex)
	if !ok {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// withOpacity returns c with alpha scaled to opacity in [0,1].
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(clampColorInt(int(opacity*255+0.5), 0, 255))
	return c
}

func clampColorInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
