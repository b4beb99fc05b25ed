package render

import (
	"math"

	"github.com/youruser/vcardapp/internal/card"
)

// ClipPath returns the mask an image element is drawn through. The result
// always lies inside the square (x, y, size, size). Unknown shapes yield an
// empty path, which masks everything out.
func ClipPath(shape card.Shape, x, y, size float64) Path {
	var p Path
	switch shape {
	case card.ShapeCircle:
		p.Circle(x+size/2, y+size/2, size/2)
	case card.ShapeSquare:
		p.Rect(x, y, size, size)
	case card.ShapeHexagon:
		v := HexagonVertices(x, y, size)
		p.Polygon(v[:]...)
	}
	return p
}

// HexagonVertices places vertex i at angle i*60 degrees around the center of
// the bounding square, starting on the +x axis.
func HexagonVertices(x, y, size float64) [6]Point {
	var out [6]Point
	r := size / 2
	cx, cy := x+r, y+r
	const step = 2 * math.Pi / 6
	for i := range out {
		out[i] = Point{
			X: cx + r*math.Cos(step*float64(i)),
			Y: cy + r*math.Sin(step*float64(i)),
		}
	}
	return out
}
