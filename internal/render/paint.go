package render

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// gradientSource adapts a gradient to an image.Image so it can be used as a
// raster fill source. offset maps a pixel centre to its position along the
// gradient.
type gradientSource struct {
	offset func(x, y float64) float64
	stops  []Stop
}

func (s gradientSource) ColorModel() color.Model { return color.NRGBAModel }

func (s gradientSource) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (s gradientSource) At(x, y int) color.Color {
	return colorAt(s.stops, s.offset(float64(x)+0.5, float64(y)+0.5))
}

// Stop is one color stop of a gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// colorAt blends the two stops around t in gamma-encoded sRGB with straight
// alpha. Outside the stop range the end colors extend. Stops must be sorted
// by offset; of two stops at the same offset the later one wins.
func colorAt(stops []Stop, t float64) color.NRGBA {
	switch {
	case len(stops) == 0:
		return color.NRGBA{}
	case math.IsNaN(t) || t <= stops[0].Offset:
		return stops[0].Color
	case t >= stops[len(stops)-1].Offset:
		return stops[len(stops)-1].Color
	}
	i := 1
	for i < len(stops)-1 && stops[i].Offset <= t {
		i++
	}
	a, b := stops[i-1], stops[i]
	span := b.Offset - a.Offset
	if span <= 0 {
		return b.Color
	}
	u := (t - a.Offset) / span

	r, g, bl := toColorful(a.Color).BlendRgb(toColorful(b.Color), u).Clamped().RGB255()
	alpha := float64(a.Color.A) + (float64(b.Color.A)-float64(a.Color.A))*u
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Max(0, math.Min(255, alpha+0.5)))}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// LinearGradient returns a fill source running from (x0, y0) to (x1, y1).
// Beyond the end points the end colors extend.
func LinearGradient(x0, y0, x1, y1 float64, stops ...Stop) image.Image {
	dx, dy := x1-x0, y1-y0
	l2 := dx*dx + dy*dy
	return gradientSource{
		stops: stops,
		offset: func(x, y float64) float64 {
			if l2 == 0 {
				return 0
			}
			return ((x-x0)*dx + (y-y0)*dy) / l2
		},
	}
}

// RadialGradient returns a fill source centred on (cx, cy) running from
// radius r0 to r1.
func RadialGradient(cx, cy, r0, r1 float64, stops ...Stop) image.Image {
	return gradientSource{
		stops: stops,
		offset: func(x, y float64) float64 {
			if r1 == r0 {
				return 0
			}
			return (math.Hypot(x-cx, y-cy) - r0) / (r1 - r0)
		},
	}
}

// Solid returns a uniform fill source.
func Solid(c color.Color) image.Image {
	return image.NewUniform(c)
}
