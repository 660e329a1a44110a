package service

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"creative-builder/internal/model"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Renderer executes a LayoutPlan on a gg surface. Every decision about theme
// and alignment is already in the plan; the renderer only draws it.
type Renderer struct {
	fonts *FontManager
}

func NewRenderer(fonts *FontManager) *Renderer {
	return &Renderer{fonts: fonts}
}

// RenderCreative draws plan onto a fresh surface of the plan's size.
func (r *Renderer) RenderCreative(plan model.LayoutPlan, src image.Image) (image.Image, error) {
	dc := gg.NewContext(plan.Width, plan.Height)
	if err := r.Render(dc, plan, src); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Render draws background, image, brand, tagline, CTA button and CTA text,
// in that order. Each step restores the surface state it changed.
func (r *Renderer) Render(dc *gg.Context, plan model.LayoutPlan, src image.Image) error {
	if src == nil {
		return &model.PreconditionError{Reason: "no decoded source image"}
	}
	if dc.Width() != plan.Width || dc.Height() != plan.Height {
		return fmt.Errorf("surface %dx%d does not match plan %dx%d", dc.Width(), dc.Height(), plan.Width, plan.Height)
	}

	r.drawBackground(dc, plan.Background, float64(plan.Width), float64(plan.Height))
	r.drawImage(dc, plan.Image, src)
	if err := r.drawText(dc, plan.Brand); err != nil {
		return err
	}
	if plan.Tagline != nil {
		if err := r.drawText(dc, *plan.Tagline); err != nil {
			return err
		}
	}
	r.drawCTA(dc, plan.CTA)
	return r.drawText(dc, plan.CTA.Label)
}

func (r *Renderer) drawBackground(dc *gg.Context, bg model.Background, w, h float64) {
	dc.Push()
	defer dc.Pop()

	if g := bg.Gradient; g != nil {
		grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
		grad.AddColorStop(0, parseHex(g.From))
		grad.AddColorStop(1, parseHex(g.To))
		dc.SetFillStyle(grad)
	} else {
		dc.SetColor(parseHex(bg.Fill))
	}
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	if glow := bg.Glow; glow != nil {
		dc.SetColor(withOpacity(parseHex(glow.Color), glow.Opacity))
		dc.DrawCircle(glow.CX, glow.CY, glow.Radius)
		dc.Fill()
	}

	if burst := bg.Burst; burst != nil {
		dc.SetColor(withOpacity(parseHex(burst.Color), burst.Opacity))
		dc.SetLineWidth(burst.LineWidth)
		dc.SetLineCap(gg.LineCapButt)
		for i := 0; i < burst.Rays; i++ {
			angle := burst.StartAngle + float64(i)*burst.AngleStep
			dc.DrawLine(burst.CX, burst.CY, burst.CX+burst.Length*math.Cos(angle), burst.CY+burst.Length*math.Sin(angle))
			dc.Stroke()
		}
	}
}

func (r *Renderer) drawImage(dc *gg.Context, p model.ImagePlacement, src image.Image) {
	w := maxInt(int(math.Round(p.Rect.W)), 1)
	h := maxInt(int(math.Round(p.Rect.H)), 1)
	scaled := imaging.Resize(src, w, h, imaging.Lanczos)
	x := int(math.Round(p.Rect.X))
	y := int(math.Round(p.Rect.Y))

	drawShadow(dc, scaled, x, y, p.Shadow)
	dc.DrawImage(scaled, x, y)
}

func (r *Renderer) drawCTA(dc *gg.Context, c model.CTAPlacement) {
	rect := c.Rect
	mask := gg.NewContext(maxInt(int(math.Ceil(rect.W)), 1), maxInt(int(math.Ceil(rect.H)), 1))
	mask.SetColor(color.Black)
	mask.DrawRoundedRectangle(0, 0, rect.W, rect.H, c.CornerRadius)
	mask.Fill()
	drawShadow(dc, mask.Image(), int(math.Round(rect.X)), int(math.Round(rect.Y)), c.Shadow)

	dc.Push()
	defer dc.Pop()
	dc.SetColor(parseHex(c.Fill))
	dc.DrawRoundedRectangle(rect.X, rect.Y, rect.W, rect.H, c.CornerRadius)
	dc.Fill()
}

func (r *Renderer) drawText(dc *gg.Context, t model.TextPlacement) error {
	if t.Text == "" || t.FontSize <= 0 {
		return nil
	}
	face, err := r.fonts.Face(t.Weight, t.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	dc.Push()
	defer dc.Pop()
	dc.SetFontFace(face)
	dc.SetColor(parseHex(t.Color))

	ax := 0.5
	switch t.Align {
	case model.AlignLeft:
		ax = 0
	case model.AlignRight:
		ax = 1
	}
	baseline := t.Y
	if t.Anchor == model.AnchorMiddle {
		m := face.Metrics()
		baseline += float64(m.Ascent-m.Descent) / 64 / 2
	}
	dc.DrawStringAnchored(t.Text, t.X, baseline, ax, 0)
	return nil
}

// drawShadow composites a blurred silhouette of shape's alpha at (x, y) shifted
// by the shadow offset. It never touches the surface's drawing state.
func drawShadow(dc *gg.Context, shape image.Image, x, y int, s model.Shadow) {
	if s.Opacity <= 0 {
		return
	}
	margin := int(math.Ceil(s.Blur * 1.5))
	b := shape.Bounds()
	layer := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*margin, b.Dy()+2*margin))
	base := parseHex(s.Color)
	for yy := 0; yy < b.Dy(); yy++ {
		for xx := 0; xx < b.Dx(); xx++ {
			_, _, _, a := shape.At(b.Min.X+xx, b.Min.Y+yy).RGBA()
			if a == 0 {
				continue
			}
			base.A = uint8(clampColorInt(int(float64(a>>8)*s.Opacity+0.5), 0, 255))
			layer.SetNRGBA(xx+margin, yy+margin, base)
		}
	}

	var blurred image.Image = layer
	if s.Blur > 0 {
		blurred = imaging.Blur(layer, s.Blur/2)
	}
	dc.DrawImage(blurred, x-margin, y+int(math.Round(s.OffsetY))-margin)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
