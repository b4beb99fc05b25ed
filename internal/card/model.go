package card

// Canvas size in logical units. Coordinates in a Document live in this space
// and are never clamped.
const (
	CanvasWidth  = 400
	CanvasHeight = 350
)

type Pattern string

const (
	PatternNone  Pattern = "none"
	PatternDots  Pattern = "dots"
	PatternLines Pattern = "lines"
	PatternGrid  Pattern = "grid"
)

type Overlay string

const (
	OverlayNone     Overlay = "none"
	OverlayGradient Overlay = "gradient"
	OverlayVignette Overlay = "vignette"
)

type BorderStyle string

const (
	BorderNone   BorderStyle = "none"
	BorderSolid  BorderStyle = "solid"
	BorderDouble BorderStyle = "double"
	BorderDashed BorderStyle = "dashed"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

type Shape string

const (
	ShapeCircle  Shape = "circle"
	ShapeSquare  Shape = "square"
	ShapeHexagon Shape = "hexagon"
)

type TextStyle string

const (
	TextNormal     TextStyle = "normal"
	TextItalic     TextStyle = "italic"
	TextBold       TextStyle = "bold"
	TextBoldItalic TextStyle = "boldItalic"
)

// Bold reports whether the style carries a bold weight.
func (s TextStyle) Bold() bool { return s == TextBold || s == TextBoldItalic }

// Italic reports whether the style is slanted.
func (s TextStyle) Italic() bool { return s == TextItalic || s == TextBoldItalic }

// TextField is a single line of text. (X, Y) is the baseline-left anchor.
type TextField struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size" validate:"gte=0"`
	Font string  `json:"font"`
}

// Service is a free-form text entry appended by the user.
type Service struct {
	TextField
	Color     string    `json:"color,omitempty"`
	TextStyle TextStyle `json:"textStyle,omitempty" validate:"omitempty,oneof=normal italic bold boldItalic"`
	Underline bool      `json:"underline,omitempty"`
	Shadow    bool      `json:"shadow,omitempty"`
}

type ImageStyle struct {
	Shape      Shape   `json:"shape" validate:"oneof=circle square hexagon"`
	Shadow     bool    `json:"shadow"`
	ShadowBlur float64 `json:"shadowBlur" validate:"gte=0"`
}

// ImageElement places an image asset into a Size x Size square anchored at
// (X, Y). An empty ImageRef means nothing is drawn.
type ImageElement struct {
	ImageRef string     `json:"imageRef,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Size     float64    `json:"size" validate:"gte=0"`
	Style    ImageStyle `json:"style"`
}

// HasImage reports whether the element references an asset.
func (e ImageElement) HasImage() bool { return e.ImageRef != "" }

type DesignStyle struct {
	Pattern                 Pattern      `json:"pattern" validate:"oneof=none dots lines grid"`
	Overlay                 Overlay      `json:"overlay" validate:"oneof=none gradient vignette"`
	BorderStyle             BorderStyle  `json:"borderStyle" validate:"oneof=none solid double dashed"`
	BackgroundGradient      bool         `json:"backgroundGradient"`
	GradientColors          []string     `json:"gradientColors"`
	BackgroundGradientType  GradientType `json:"backgroundGradientType" validate:"oneof=linear radial"`
	BackgroundGradientAngle float64      `json:"backgroundGradientAngle"`
}

// Document is everything needed to render one business card.
type Document struct {
	Name    TextField `json:"name"`
	Title   TextField `json:"title"`
	Company TextField `json:"company"`
	Email   TextField `json:"email"`
	Phone   TextField `json:"phone"`
	Website TextField `json:"website"`

	Services []Service `json:"services" validate:"dive"`

	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`

	ProfileImage ImageElement `json:"profileImage"`
	LogoImage    ImageElement `json:"logoImage"`

	DesignStyle DesignStyle `json:"designStyle"`
}

// NamedField pairs a text field with its element name.
type NamedField struct {
	Name  string
	Field TextField
}

// TextFields returns the fixed text fields in draw order.
func (d Document) TextFields() []NamedField {
	return []NamedField{
		{FieldName, d.Name},
		{FieldTitle, d.Title},
		{FieldCompany, d.Company},
		{FieldEmail, d.Email},
		{FieldPhone, d.Phone},
		{FieldWebsite, d.Website},
	}
}

// TextField returns a pointer to the named fixed text field.
func (d *Document) TextField(name string) (*TextField, bool) {
	switch name {
	case FieldName:
		return &d.Name, true
	case FieldTitle:
		return &d.Title, true
	case FieldCompany:
		return &d.Company, true
	case FieldEmail:
		return &d.Email, true
	case FieldPhone:
		return &d.Phone, true
	case FieldWebsite:
		return &d.Website, true
	}
	return nil, false
}

// Image returns a pointer to the named image element.
func (d *Document) Image(name string) (*ImageElement, bool) {
	switch name {
	case ElementProfileImage:
		return &d.ProfileImage, true
	case ElementLogoImage:
		return &d.LogoImage, true
	}
	return nil, false
}

// Clone returns a deep copy so callers can treat documents as values.
func (d Document) Clone() Document {
	out := d
	if d.Services != nil {
		out.Services = make([]Service, len(d.Services))
		copy(out.Services, d.Services)
	}
	if d.DesignStyle.GradientColors != nil {
		out.DesignStyle.GradientColors = append([]string(nil), d.DesignStyle.GradientColors...)
	}
	return out
}

// GradientStops returns evenly spaced stop offsets i/(n-1) for n colors.
// A single color is placed at 0.
func GradientStops(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{0}
	}
	stops := make([]float64, n)
	for i := range stops {
		stops[i] = float64(i) / float64(n-1)
	}
	return stops
}
