package model

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Shadow struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Blur    float64 `json:"blur"`
	OffsetY float64 `json:"offset_y"`
}

type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "linear-gradient"
	BackgroundPattern  BackgroundKind = "pattern"
)

type LinearGradient struct {
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	From string  `json:"from"`
	To   string  `json:"to"`
}

type Glow struct {
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

type Burst struct {
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	Rays       int     `json:"rays"`
	StartAngle float64 `json:"start_angle"`
	AngleStep  float64 `json:"angle_step"`
	Length     float64 `json:"length"`
	LineWidth  float64 `json:"line_width"`
	Color      string  `json:"color"`
	Opacity    float64 `json:"opacity"`
}

// Background is drawn as Fill or Gradient, then Glow, then Burst.
type Background struct {
	Kind     BackgroundKind  `json:"kind"`
	Fill     string          `json:"fill,omitempty"`
	Gradient *LinearGradient `json:"gradient,omitempty"`
	Glow     *Glow           `json:"glow,omitempty"`
	Burst    *Burst          `json:"burst,omitempty"`
}

type FontWeight string

const (
	WeightBold    FontWeight = "bold"
	WeightRegular FontWeight = "regular"
)

type VerticalAnchor string

const (
	AnchorBaseline VerticalAnchor = "baseline"
	AnchorMiddle   VerticalAnchor = "middle"
)

type TextPlacement struct {
	Text     string         `json:"text"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Align    Align          `json:"align"`
	Anchor   VerticalAnchor `json:"anchor"`
	FontSize float64        `json:"font_size"`
	Weight   FontWeight     `json:"weight"`
	Color    string         `json:"color"`
}

type ImagePlacement struct {
	Rect   Rect   `json:"rect"`
	Shadow Shadow `json:"shadow"`
}

type CTAPlacement struct {
	Rect         Rect          `json:"rect"`
	CornerRadius float64       `json:"corner_radius"`
	Shape        CTAStyle      `json:"shape"`
	Fill         string        `json:"fill"`
	Shadow       Shadow        `json:"shadow"`
	Label        TextPlacement `json:"label"`
}

// LayoutPlan is the complete set of drawing instructions for one creative.
type LayoutPlan struct {
	Template   Template       `json:"template"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Background Background     `json:"background"`
	Image      ImagePlacement `json:"image"`
	Brand      TextPlacement  `json:"brand"`
	Tagline    *TextPlacement `json:"tagline,omitempty"`
	CTA        CTAPlacement   `json:"cta"`
}
