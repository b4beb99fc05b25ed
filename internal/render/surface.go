package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Surface is the drawing target the renderer paints onto. Canvas is the
// raster implementation; tests substitute a recorder.
type Surface interface {
	Bounds() image.Rectangle
	Fill(p Path, src image.Image)
	StrokeLine(x0, y0, x1, y1, width float64, src image.Image)
	StrokeRect(x, y, w, h, width float64, src image.Image)
	// SetDash sets the dash pattern for later strokes. No arguments means solid.
	SetDash(pattern ...float64)
	Dash() []float64
	// Composite draws layer over the surface with source-over blending.
	Composite(layer image.Image)
	// DrawText draws s with its baseline-left anchor at (x, y).
	DrawText(s string, face font.Face, x, y float64, src image.Image)
	MeasureText(s string, face font.Face) float64
}

// Canvas is a Surface backed by an RGBA pixel buffer.
type Canvas struct {
	img  *image.RGBA
	dash []float64
}

// NewCanvas returns a fully transparent w x h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image exposes the underlying pixels. The canvas keeps ownership.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) Fill(p Path, src image.Image) {
	if p.Empty() {
		return
	}
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for _, s := range p.segs {
		switch s.op {
		case opMove:
			z.MoveTo(float32(s.pts[0].X), float32(s.pts[0].Y))
		case opLine:
			z.LineTo(float32(s.pts[0].X), float32(s.pts[0].Y))
		case opCubic:
			z.CubeTo(
				float32(s.pts[0].X), float32(s.pts[0].Y),
				float32(s.pts[1].X), float32(s.pts[1].Y),
				float32(s.pts[2].X), float32(s.pts[2].Y),
			)
		case opClose:
			z.ClosePath()
		}
	}
	z.ClosePath()
	z.Draw(c.img, b, src, b.Min)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, src image.Image) {
	var p Path
	for _, seg := range dashSegments(Point{x0, y0}, Point{x1, y1}, c.dash, 0) {
		addSegmentQuad(&p, seg[0], seg[1], width)
	}
	c.Fill(p, src)
}

// StrokeRect strokes the rectangle outline centred on its edges with mitred
// corners. A dash pattern runs continuously around the perimeter starting at
// the top-left corner.
func (c *Canvas) StrokeRect(x, y, w, h, width float64, src image.Image) {
	if len(c.dash) == 0 {
		half := width / 2
		var p Path
		p.Rect(x-half, y-half, w+width, h+width)
		// inner hole, wound the other way
		if w > width && h > width {
			p.MoveTo(x+half, y+half)
			p.LineTo(x+half, y+h-half)
			p.LineTo(x+w-half, y+h-half)
			p.LineTo(x+w-half, y+half)
			p.Close()
		}
		c.Fill(p, src)
		return
	}
	corners := []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	var p Path
	phase := 0.0
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[i+1]
		for _, seg := range dashSegments(a, b, c.dash, phase) {
			addSegmentQuad(&p, seg[0], seg[1], width)
		}
		phase += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	c.Fill(p, src)
}

func (c *Canvas) SetDash(pattern ...float64) {
	if len(pattern) == 0 {
		c.dash = nil
		return
	}
	c.dash = append([]float64(nil), pattern...)
}

func (c *Canvas) Dash() []float64 { return c.dash }

func (c *Canvas) Composite(layer image.Image) {
	r := layer.Bounds()
	draw.Draw(c.img, r, layer, r.Min, draw.Over)
}

func (c *Canvas) DrawText(s string, face font.Face, x, y float64, src image.Image) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	d.DrawString(s)
}

func (c *Canvas) MeasureText(s string, face font.Face) float64 {
	return measure(s, face)
}

func measure(s string, face font.Face) float64 {
	adv := font.MeasureString(face, s)
	return float64(adv) / 64
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// addSegmentQuad adds a butt-capped rectangle of the given width along a-b.
func addSegmentQuad(p *Path, a, b Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	p.Polygon(
		Point{a.X + nx, a.Y + ny},
		Point{b.X + nx, b.Y + ny},
		Point{b.X - nx, b.Y - ny},
		Point{a.X - nx, a.Y - ny},
	)
}

// dashSegments splits a-b into the "on" intervals of pattern, where phase is
// the distance already travelled along the dashed outline. An empty pattern
// yields the whole segment.
func dashSegments(a, b Point, pattern []float64, phase float64) [][2]Point {
	l := math.Hypot(b.X-a.X, b.Y-a.Y)
	if len(pattern) == 0 {
		return [][2]Point{{a, b}}
	}
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64(nil), pattern...), pattern...)
	}
	total := 0.0
	for _, v := range pattern {
		total += v
	}
	if total <= 0 || l == 0 {
		return [][2]Point{{a, b}}
	}
	at := func(t float64) Point {
		return Point{a.X + (b.X-a.X)*t/l, a.Y + (b.Y-a.Y)*t/l}
	}

	// locate the dash entry that phase falls in
	off := math.Mod(phase, total)
	i := 0
	for off >= pattern[i] {
		off -= pattern[i]
		i = (i + 1) % len(pattern)
	}

	var out [][2]Point
	pos := 0.0
	for pos < l {
		step := pattern[i] - off
		off = 0
		end := math.Min(pos+step, l)
		if i%2 == 0 && end > pos {
			out = append(out, [2]Point{at(pos), at(end)})
		}
		pos = end
		i = (i + 1) % len(pattern)
	}
	return out
}
