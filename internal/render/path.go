package render

import "math"

type Point struct {
	X, Y float64
}

type segOp uint8

const (
	opMove segOp = iota
	opLine
	opCubic
	opClose
)

type segment struct {
	op  segOp
	pts [3]Point
}

// Path is a sequence of sub-paths in canvas units.
type Path struct {
	segs []segment
}

func (p *Path) MoveTo(x, y float64) {
	p.segs = append(p.segs, segment{op: opMove, pts: [3]Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.segs = append(p.segs, segment{op: opLine, pts: [3]Point{{x, y}}})
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.segs = append(p.segs, segment{op: opCubic, pts: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

func (p *Path) Close() {
	p.segs = append(p.segs, segment{op: opClose})
}

// Rect adds a clockwise rectangle.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a circle approximated by four cubic arcs.
func (p *Path) Circle(cx, cy, r float64) {
	const k = 0.5522847498307936
	o := r * k
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+o, cx+o, cy+r, cx, cy+r)
	p.CubicTo(cx-o, cy+r, cx-r, cy+o, cx-r, cy)
	p.CubicTo(cx-r, cy-o, cx-o, cy-r, cx, cy-r)
	p.CubicTo(cx+o, cy-r, cx+r, cy-o, cx+r, cy)
	p.Close()
}

// Polygon adds a closed polygon through pts.
func (p *Path) Polygon(pts ...Point) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
}

// Empty reports whether the path has no drawing segments.
func (p Path) Empty() bool { return len(p.segs) == 0 }

// Translate returns a copy of p moved by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := Path{segs: make([]segment, len(p.segs))}
	for i, s := range p.segs {
		for j := range s.pts {
			s.pts[j].X += dx
			s.pts[j].Y += dy
		}
		out.segs[i] = s
	}
	return out
}

// Vertices returns the end point of every move, line and curve segment.
func (p Path) Vertices() []Point {
	var out []Point
	for _, s := range p.segs {
		switch s.op {
		case opMove, opLine:
			out = append(out, s.pts[0])
		case opCubic:
			out = append(out, s.pts[2])
		}
	}
	return out
}

// Bounds returns the bounding box of every point in the path, control points
// included.
func (p Path) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range p.segs {
		n := 0
		switch s.op {
		case opMove, opLine:
			n = 1
		case opCubic:
			n = 3
		}
		for _, pt := range s.pts[:n] {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	return minX, minY, maxX, maxY
}
