package model

import (
	"image"
	"strings"
	"time"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

var SupportedAligns = map[Align]struct{}{
	AlignLeft:   {},
	AlignCenter: {},
	AlignRight:  {},
}

type CTAStyle string

const (
	CTAPill        CTAStyle = "pill"
	CTARoundedRect CTAStyle = "rounded-rect"
)

var SupportedCTAStyles = map[CTAStyle]struct{}{
	CTAPill:        {},
	CTARoundedRect: {},
}

type RetailerTheme string

const (
	ThemeAmazon  RetailerTheme = "amazon"
	ThemeMeta    RetailerTheme = "meta"
	ThemeGeneric RetailerTheme = "generic"
)

var SupportedThemes = map[RetailerTheme]struct{}{
	ThemeAmazon:  {},
	ThemeMeta:    {},
	ThemeGeneric: {},
}

const (
	DefaultAccentColor = "#4f46e5"
	DefaultTagline     = "Authorized Retailer"
	DefaultCTAText     = "SHOP NOW"
	DefaultBrandName   = "Brand Name"
)

type Template struct {
	Name        string `json:"name"`
	PixelWidth  int    `json:"width"`
	PixelHeight int    `json:"height"`
	Label       string `json:"label"`
	Slug        string `json:"slug"`
}

// Portrait reports whether the format is taller than it is wide.
func (t Template) Portrait() bool {
	return t.PixelHeight > t.PixelWidth
}

type StyleConfig struct {
	BrandAlign  Align    `json:"brand_align" yaml:"brand_align"`
	CTAAlign    Align    `json:"cta_align" yaml:"cta_align"`
	CTAStyle    CTAStyle `json:"cta_style" yaml:"cta_style"`
	ShowTagline bool     `json:"show_tagline" yaml:"show_tagline"`
}

func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		BrandAlign:  AlignCenter,
		CTAAlign:    AlignCenter,
		CTAStyle:    CTAPill,
		ShowTagline: true,
	}
}

// Validate rejects values outside the enumerated options.
func (s StyleConfig) Validate() error {
	if _, ok := SupportedAligns[s.BrandAlign]; !ok {
		return &ValidationError{Field: "brand_align", Value: string(s.BrandAlign), Reason: "must be left, center or right"}
	}
	if _, ok := SupportedAligns[s.CTAAlign]; !ok {
		return &ValidationError{Field: "cta_align", Value: string(s.CTAAlign), Reason: "must be left, center or right"}
	}
	if _, ok := SupportedCTAStyles[s.CTAStyle]; !ok {
		return &ValidationError{Field: "cta_style", Value: string(s.CTAStyle), Reason: "must be pill or rounded-rect"}
	}
	return nil
}

type BrandContext struct {
	BrandName     string        `json:"brand_name" yaml:"brand_name"`
	Tagline       string        `json:"tagline" yaml:"tagline"`
	CTAText       string        `json:"cta_text" yaml:"cta_text"`
	RetailerTheme RetailerTheme `json:"retailer_theme" yaml:"retailer_theme"`
	AccentColor   string        `json:"accent_color" yaml:"accent_color"`
}

// TaglineText returns the tagline or its fixed fallback.
func (b BrandContext) TaglineText() string {
	if b.Tagline == "" {
		return DefaultTagline
	}
	return b.Tagline
}

// CTALabel returns the upper-cased call to action or its fixed fallback.
func (b BrandContext) CTALabel() string {
	if b.CTAText == "" {
		return DefaultCTAText
	}
	return strings.ToUpper(b.CTAText)
}

// Theme returns the retailer theme, amazon when unset.
func (b BrandContext) Theme() RetailerTheme {
	if b.RetailerTheme == "" {
		return ThemeAmazon
	}
	return b.RetailerTheme
}

func (b BrandContext) Validate() error {
	if _, ok := SupportedThemes[b.Theme()]; !ok {
		return &ValidationError{Field: "retailer_theme", Value: string(b.RetailerTheme), Reason: "must be amazon, meta or generic"}
	}
	if b.AccentColor != "" {
		if _, ok := NormalizeHex(b.AccentColor); !ok {
			return &ValidationError{Field: "accent_color", Value: b.AccentColor, Reason: "must be a #rrggbb hex color"}
		}
	}
	return nil
}

// NormalizeHex lower-cases a "#rrggbb" string and reports whether it is valid.
func NormalizeHex(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 7 || s[0] != '#' {
		return "", false
	}
	for _, ch := range s[1:] {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return "", false
		}
	}
	return s, true
}

type SourceImage struct {
	Image     image.Image `json:"-"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	DecodedAt int64       `json:"decoded_at_unix_ms"`
}

// AspectRatio is width over height, zero when the image has no area.
func (s *SourceImage) AspectRatio() float64 {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

type StoredState struct {
	StyleConfigs      map[string]StyleConfig `json:"style_configs"`
	LastUpdatedUnixMS int64                  `json:"last_updated_unix_ms"`
	CreatedAt         time.Time              `json:"created_at"`
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt int64       `json:"created_at_unix_ms"`
}
