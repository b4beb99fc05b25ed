package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ScaleSquare stretches img over the square (x, y, size, size) and returns
// only the part of it that falls inside window. The result carries the
// bounds of that intersection, so its memory is bounded by window however
// large the square is.
func ScaleSquare(img image.Image, x, y, size float64, window image.Rectangle) *image.NRGBA {
	vis := squareBounds(x, y, size).Intersect(window)
	out := image.NewNRGBA(vis)
	if vis.Empty() || img.Bounds().Empty() {
		return out
	}

	// Shrink large sources up front so the resampling kernel never spans
	// more than a few source pixels.
	side := int(math.Ceil(size))
	if sb := img.Bounds(); sb.Dx() > side || sb.Dy() > side {
		img = imaging.Resize(img, min(sb.Dx(), side), min(sb.Dy(), side), imaging.Lanczos)
	}

	sb := img.Bounds()
	sx, sy := size/float64(sb.Dx()), size/float64(sb.Dy())
	m := f64.Aff3{
		sx, 0, x - float64(sb.Min.X)*sx,
		0, sy, y - float64(sb.Min.Y)*sy,
	}
	xdraw.CatmullRom.Transform(out, m, img, sb, xdraw.Src, nil)
	return out
}

// squareBounds is the pixel rectangle covering the square, saturated so that
// far-off geometry still converts to int.
func squareBounds(x, y, size float64) image.Rectangle {
	const limit = 1 << 30
	clamp := func(v float64) int {
		return int(math.Max(-limit, math.Min(limit, v)))
	}
	return image.Rect(
		clamp(math.Floor(x)), clamp(math.Floor(y)),
		clamp(math.Ceil(x+size)), clamp(math.Ceil(y+size)),
	)
}

// ShadowLayer returns a silhouette of img painted in c. Each pixel keeps the
// source alpha scaled by the alpha of c. The result keeps the bounds of img.
func ShadowLayer(img image.Image, c color.NRGBA) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := src.NRGBAAt(x, y).A
			out.SetNRGBA(x, y, color.NRGBA{
				R: c.R, G: c.G, B: c.B,
				A: uint8((uint32(a)*uint32(c.A) + 127) / 255),
			})
		}
	}
	out.Rect = out.Rect.Add(img.Bounds().Min)
	return out
}

// Blur softens img the way a CSS shadow blur radius does, using a Gaussian
// with sigma = radius/2. A radius of zero returns an unblurred copy. The
// result keeps the bounds of img.
func Blur(img image.Image, radius float64) *image.NRGBA {
	var out *image.NRGBA
	if radius <= 0 {
		out = imaging.Clone(img)
	} else {
		out = imaging.Blur(img, radius/2)
	}
	out.Rect = out.Rect.Add(img.Bounds().Min)
	return out
}
