package service

import (
	"math"
	"strings"

	"creative-builder/internal/model"
)

// Layout proportions, as fractions of canvas width (w) or height (h).
const (
	productZoneTop    = 0.20 // h
	productZoneBottom = 0.75 // h
	productPadding    = 0.12 // w, each side

	brandBaseline       = 0.10 // h
	insetLeft           = 0.08 // w
	insetRight          = 0.92 // w
	brandSizePortrait   = 0.10 // w
	brandSizeLandscape  = 0.09 // w
	taglineOffset       = 0.8  // brand font size
	taglineSizeFraction = 0.45 // brand font size

	ctaWidth            = 0.50 // w
	ctaCenterY          = 0.88 // h
	ctaHeightPortrait   = 140.0
	ctaHeightLandscape  = 0.14 // w
	ctaRectRadius       = 12.0
	ctaTextSizeFraction = 0.40 // button height

	brandColor   = "#1e293b"
	taglineColor = "#64748b"
	ctaTextColor = "#ffffff"
)

// ComputeLayout maps the creative inputs to a complete drawing plan. It has no
// side effects; identical inputs give identical plans.
func ComputeLayout(t model.Template, brand model.BrandContext, style model.StyleConfig, aspect float64) (model.LayoutPlan, error) {
	if t.PixelWidth <= 0 || t.PixelHeight <= 0 {
		return model.LayoutPlan{}, &model.ValidationError{Field: "template", Value: t.Label, Reason: "width and height must be > 0"}
	}
	if err := style.Validate(); err != nil {
		return model.LayoutPlan{}, err
	}
	if _, ok := model.SupportedThemes[brand.Theme()]; !ok {
		return model.LayoutPlan{}, &model.ValidationError{Field: "retailer_theme", Value: string(brand.RetailerTheme), Reason: "must be amazon, meta or generic"}
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return model.LayoutPlan{}, &model.PreconditionError{Reason: "no decoded source image"}
	}
	if strings.TrimSpace(brand.BrandName) == "" {
		return model.LayoutPlan{}, &model.PreconditionError{Reason: "brand name is empty"}
	}

	w := float64(t.PixelWidth)
	h := float64(t.PixelHeight)

	plan := model.LayoutPlan{
		Template:   t,
		Width:      t.PixelWidth,
		Height:     t.PixelHeight,
		Background: layoutBackground(brand.Theme(), resolveAccent(brand.AccentColor), w, h),
		Image: model.ImagePlacement{
			Rect:   containRect(w, h, aspect),
			Shadow: model.Shadow{Color: "#000000", Opacity: 0.15, Blur: 40, OffsetY: 20},
		},
	}

	brandSize := w * brandSizeLandscape
	if t.Portrait() {
		brandSize = w * brandSizePortrait
	}
	brandX := alignedX(style.BrandAlign, w)
	brandY := h * brandBaseline
	plan.Brand = model.TextPlacement{
		Text:     strings.ToUpper(brand.BrandName),
		X:        brandX,
		Y:        brandY,
		Align:    style.BrandAlign,
		Anchor:   model.AnchorBaseline,
		FontSize: brandSize,
		Weight:   model.WeightBold,
		Color:    brandColor,
	}
	if style.ShowTagline {
		plan.Tagline = &model.TextPlacement{
			Text:     brand.TaglineText(),
			X:        brandX,
			Y:        brandY + brandSize*taglineOffset,
			Align:    style.BrandAlign,
			Anchor:   model.AnchorBaseline,
			FontSize: brandSize * taglineSizeFraction,
			Weight:   model.WeightRegular,
			Color:    taglineColor,
		}
	}

	plan.CTA = layoutCTA(t, brand, style, w, h)
	return plan, nil
}

func layoutBackground(theme model.RetailerTheme, accent string, w, h float64) model.Background {
	switch theme {
	case model.ThemeMeta:
		return model.Background{
			Kind:     model.BackgroundGradient,
			Gradient: &model.LinearGradient{X0: 0, Y0: 0, X1: w, Y1: h, From: "#f9fafb", To: "#f3f4f6"},
			Glow:     &model.Glow{CX: w / 2, CY: h / 2, Radius: w * 0.4, Color: accent, Opacity: 0.05},
		}
	case model.ThemeGeneric:
		return model.Background{
			Kind: model.BackgroundPattern,
			Fill: "#fffdf5",
			Burst: &model.Burst{
				CX:         w / 2,
				CY:         h / 2,
				Rays:       6,
				StartAngle: math.Pi / 3,
				AngleStep:  math.Pi / 3,
				Length:     w,
				LineWidth:  40,
				Color:      "#fef3c7",
				Opacity:    0.4,
			},
		}
	default:
		return model.Background{Kind: model.BackgroundSolid, Fill: "#ffffff"}
	}
}

// containRect fits an image of the given aspect ratio inside the product zone
// without cropping: width first, then height. Centred horizontally on the
// canvas and vertically within the zone.
func containRect(w, h, aspect float64) model.Rect {
	top := h * productZoneTop
	zoneH := h*productZoneBottom - top
	maxW := w - 2*w*productPadding

	drawW := maxW
	drawH := drawW / aspect
	if drawH > zoneH {
		drawH = zoneH
		drawW = drawH * aspect
	}
	return model.Rect{
		X: (w - drawW) / 2,
		Y: top + (zoneH-drawH)/2,
		W: drawW,
		H: drawH,
	}
}

func alignedX(align model.Align, w float64) float64 {
	switch align {
	case model.AlignLeft:
		return w * insetLeft
	case model.AlignRight:
		return w * insetRight
	default:
		return w / 2
	}
}

func layoutCTA(t model.Template, brand model.BrandContext, style model.StyleConfig, w, h float64) model.CTAPlacement {
	btnW := w * ctaWidth
	btnH := w * ctaHeightLandscape
	if t.Portrait() {
		btnH = ctaHeightPortrait
	}

	var btnX float64
	switch style.CTAAlign {
	case model.AlignLeft:
		btnX = w * insetLeft
	case model.AlignRight:
		btnX = w*insetRight - btnW
	default:
		btnX = (w - btnW) / 2
	}
	btnY := h*ctaCenterY - btnH/2

	radius := ctaRectRadius
	if style.CTAStyle == model.CTAPill {
		radius = btnH / 2
	}
	radius = math.Min(radius, math.Min(btnW, btnH)/2)

	return model.CTAPlacement{
		Rect:         model.Rect{X: btnX, Y: btnY, W: btnW, H: btnH},
		CornerRadius: radius,
		Shape:        style.CTAStyle,
		Fill:         ctaFill(brand.AccentColor),
		Shadow:       model.Shadow{Color: "#000000", Opacity: 0.2, Blur: 15, OffsetY: 5},
		Label: model.TextPlacement{
			Text:     brand.CTALabel(),
			X:        btnX + btnW/2,
			Y:        btnY + btnH/2,
			Align:    model.AlignCenter,
			Anchor:   model.AnchorMiddle,
			FontSize: btnH * ctaTextSizeFraction,
			Weight:   model.WeightBold,
			Color:    ctaTextColor,
		},
	}
}
