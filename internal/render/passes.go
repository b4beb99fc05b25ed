package render

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/youruser/vcardapp/internal/card"
	imagepkg "github.com/youruser/vcardapp/internal/image"
)

const (
	patternSpacing = 20
	borderPadding  = 10
	borderWidth    = 2
	doubleInset    = 5
	shadowOffset   = 3

	textShadowOffset = 2
	textShadowBlur   = 4
)

var (
	white        = color.NRGBA{255, 255, 255, 255}
	black        = color.NRGBA{0, 0, 0, 255}
	patternColor = color.NRGBA{0, 0, 0, 26}
	shadowColor  = color.NRGBA{0, 0, 0, 77}
	borderDash   = []float64{10, 10}
)

const defaultImageSize = 100

func canvasRect(s Surface) (Path, float64, float64) {
	b := s.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	var p Path
	p.Rect(0, 0, w, h)
	return p, w, h
}

func (r *Renderer) drawBackground(doc card.Document, s Surface) {
	full, w, h := canvasRect(s)
	ds := doc.DesignStyle
	bg := r.color("backgroundColor", doc.BackgroundColor, white)

	if !ds.BackgroundGradient {
		s.Fill(full, Solid(bg))
		return
	}

	switch len(ds.GradientColors) {
	case 0:
		s.Fill(full, Solid(bg))
		return
	case 1:
		s.Fill(full, Solid(r.color("designStyle.gradientColors", ds.GradientColors[0], bg)))
		return
	}

	offsets := card.GradientStops(len(ds.GradientColors))
	stops := make([]Stop, len(offsets))
	for i, off := range offsets {
		stops[i] = Stop{Offset: off, Color: r.color("designStyle.gradientColors", ds.GradientColors[i], bg)}
	}

	cx, cy := w/2, h/2
	var src image.Image
	if ds.BackgroundGradientType == card.GradientRadial {
		src = RadialGradient(cx, cy, 0, math.Max(w, h)/2, stops...)
	} else {
		theta := ds.BackgroundGradientAngle * math.Pi / 180
		dx, dy := math.Cos(theta)*w, math.Sin(theta)*h
		src = LinearGradient(cx-dx, cy-dy, cx+dx, cy+dy, stops...)
	}
	s.Fill(full, src)
}

func (r *Renderer) drawPattern(p card.Pattern, s Surface) {
	_, w, h := canvasRect(s)
	src := Solid(patternColor)
	switch p {
	case card.PatternDots:
		for x := 0.0; x < w; x += patternSpacing {
			for y := 0.0; y < h; y += patternSpacing {
				var dot Path
				dot.Circle(x, y, 1)
				s.Fill(dot, src)
			}
		}
	case card.PatternLines:
		for y := 0.0; y < h; y += patternSpacing {
			s.StrokeLine(0, y, w, y, 1, src)
		}
	case card.PatternGrid:
		for x := 0.0; x < w; x += patternSpacing {
			for y := 0.0; y < h; y += patternSpacing {
				s.StrokeRect(x, y, patternSpacing, patternSpacing, 1, src)
			}
		}
	}
}

func (r *Renderer) drawImage(ctx context.Context, name string, el card.ImageElement, s Surface) {
	if !el.HasImage() {
		return
	}
	img, err := r.loadImage(ctx, el.ImageRef)
	if err != nil {
		r.imageFailed(name, err)
		return
	}

	size := el.Size
	if size <= 0 {
		size = defaultImageSize
	}
	clip := ClipPath(el.Style.Shape, el.X, el.Y, size)
	if clip.Empty() {
		r.log.Warn("unknown image shape", "element", name, "shape", el.Style.Shape)
		return
	}

	bounds := s.Bounds()
	if el.Style.Shadow {
		silhouette := imagepkg.ShadowLayer(
			imagepkg.ScaleSquare(img, el.X+shadowOffset, el.Y+shadowOffset, size, bounds),
			shadowColor)
		layer := NewCanvas(bounds.Dx(), bounds.Dy())
		layer.Fill(clip.Translate(shadowOffset, shadowOffset), silhouette)
		s.Composite(imagepkg.Blur(layer.Image(), el.Style.ShadowBlur))
	}
	s.Fill(clip, imagepkg.ScaleSquare(img, el.X, el.Y, size, bounds))
}

func (r *Renderer) drawText(doc card.Document, s Surface, faces *faceCache) {
	textColor := r.color("textColor", doc.TextColor, black)
	warned := map[string]bool{}
	checkFamily := func(family string) {
		if !r.fonts.Has(family) && !warned[family] {
			warned[family] = true
			r.log.Warn("font family not loaded, using fallback", "family", family)
		}
	}

	for _, nf := range doc.TextFields() {
		f := nf.Field
		if f.Text == "" || f.Size <= 0 {
			continue
		}
		checkFamily(f.Font)
		ff, err := faces.get(f.Font, card.TextNormal, f.Size)
		if err != nil {
			r.log.Warn("text field skipped", "field", nf.Name, "error", err)
			continue
		}
		s.DrawText(f.Text, ff, f.X, f.Y, Solid(textColor))
	}

	for i, svc := range doc.Services {
		if svc.Text == "" || svc.Size <= 0 {
			continue
		}
		c := textColor
		if svc.Color != "" {
			c = r.color(card.ServiceElement(i)+".color", svc.Color, textColor)
		}
		checkFamily(svc.Font)
		ff, err := faces.get(svc.Font, svc.TextStyle, svc.Size)
		if err != nil {
			r.log.Warn("service skipped", "index", i, "error", err)
			continue
		}

		if svc.Shadow {
			b := s.Bounds()
			layer := NewCanvas(b.Dx(), b.Dy())
			layer.DrawText(svc.Text, ff, svc.X+textShadowOffset, svc.Y+textShadowOffset, Solid(shadowColor))
			s.Composite(imagepkg.Blur(layer.Image(), textShadowBlur))
		}
		s.DrawText(svc.Text, ff, svc.X, svc.Y, Solid(c))
		if svc.Underline {
			width := s.MeasureText(svc.Text, ff)
			thick := math.Max(1, svc.Size/15)
			uy := svc.Y + svc.Size*0.1 + thick/2
			s.StrokeLine(svc.X, uy, svc.X+width, uy, thick, Solid(c))
		}
	}
}

func (r *Renderer) drawOverlay(o card.Overlay, s Surface) {
	full, w, h := canvasRect(s)
	switch o {
	case card.OverlayGradient:
		s.Fill(full, LinearGradient(0, 0, w, h,
			Stop{0, color.NRGBA{255, 255, 255, 26}},
			Stop{1, color.NRGBA{0, 0, 0, 26}},
		))
	case card.OverlayVignette:
		s.Fill(full, RadialGradient(w/2, h/2, 0, math.Max(w, h)/1.5,
			Stop{0, color.NRGBA{}},
			Stop{1, shadowColor},
		))
	}
}

func (r *Renderer) drawBorder(doc card.Document, s Surface) {
	style := doc.DesignStyle.BorderStyle
	if style == card.BorderNone || style == "" {
		return
	}
	_, w, h := canvasRect(s)
	src := Solid(r.color("textColor", doc.TextColor, black))
	inset := func(pad float64) {
		s.StrokeRect(pad, pad, w-pad*2, h-pad*2, borderWidth, src)
	}

	switch style {
	case card.BorderSolid:
		inset(borderPadding)
	case card.BorderDouble:
		inset(borderPadding)
		inset(borderPadding + doubleInset)
	case card.BorderDashed:
		s.SetDash(borderDash...)
		defer s.SetDash()
		inset(borderPadding)
	}
}
