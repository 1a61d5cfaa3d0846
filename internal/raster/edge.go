package raster

import "math"

// maxCoord bounds vertex coordinates so edge products stay inside int64.
const maxCoord = 1 << 28

// maxAttrs is the most per-vertex attributes any fill interpolates
// (r, g, b for smooth Gouraud).
const maxAttrs = 3

// depthPlane is z as a linear function of screen position, derived once per
// triangle from its edge vectors.
type depthPlane struct {
	z0         float64
	x0, y0     int
	dzdx, dzdy float64
}

// At evaluates the plane at (x, y).
func (p depthPlane) At(x, y int) float64 {
	return p.z0 + float64(x-p.x0)*p.dzdx + float64(y-p.y0)*p.dzdy
}

// triangle is the per-draw setup shared by every fill: vertices sorted by y,
// edge vectors from the top vertex, the depth plane and the attribute values
// the fill wants interpolated.
type triangle struct {
	v [3]Vertex

	e1x, e1y, e2x, e2y int64
	cross              int64

	plane depthPlane
	clip  bool
	// shortLeft is set when the two short edges (through the middle vertex)
	// bound the spans on the left.
	shortLeft bool

	n    int
	attr [3][maxAttrs]Fixed
	grad [maxAttrs]Fixed
}

// span is one visible run of a scanline, [xs, xe) on row y, with the
// attribute values and depth already corrected to xs.
type span struct {
	y, xs, xe int
	off       int
	a         [maxAttrs]Fixed
	z         float64
}

// setup sorts the vertices, applies the depth gate and rejects degenerate or
// fully clipped triangles. It reports false when nothing should be drawn.
func (c *Context) setup(a, b, v Vertex) (triangle, bool) {
	var t triangle
	if !c.SaveDepth {
		a.Z, b.Z, v.Z = 0, 0, 0
	}
	if !finite(a.Z) || !finite(b.Z) || !finite(v.Z) {
		c.stats.Skipped++
		return t, false
	}

	for _, p := range [3]Vertex{a, b, v} {
		if p.X < -maxCoord || p.X > maxCoord || p.Y < -maxCoord || p.Y > maxCoord {
			c.stats.Skipped++
			return t, false
		}
	}

	if b.Y < a.Y {
		a, b = b, a
	}
	if v.Y < b.Y {
		b, v = v, b
		if b.Y < a.Y {
			a, b = b, a
		}
	}
	t.v = [3]Vertex{a, b, v}

	t.e1x, t.e1y = int64(b.X-a.X), int64(b.Y-a.Y)
	t.e2x, t.e2y = int64(v.X-a.X), int64(v.Y-a.Y)
	t.cross = t.e1x*t.e2y - t.e2x*t.e1y
	if t.cross == 0 {
		c.stats.Skipped++
		return t, false
	}
	t.shortLeft = t.cross < 0

	if c.pixels == nil || a.Y >= c.clipBottom || v.Y <= c.clipTop {
		c.stats.Culled++
		return t, false
	}
	minX, maxX := min(a.X, b.X, v.X), max(a.X, b.X, v.X)
	if maxX < c.clipLeft || minX >= c.clipRight {
		c.stats.Culled++
		return t, false
	}
	t.clip = c.ClipX || minX < c.clipLeft || maxX > c.clipRight

	cross := float64(t.cross)
	dz1, dz2 := float64(b.Z-a.Z), float64(v.Z-a.Z)
	t.plane = depthPlane{
		z0:   float64(a.Z),
		x0:   a.X,
		y0:   a.Y,
		dzdx: (dz1*float64(t.e2y) - dz2*float64(t.e1y)) / cross,
		dzdy: (dz2*float64(t.e1x) - dz1*float64(t.e2x)) / cross,
	}
	return t, true
}

// gradients derives the constant x-step of each of the first n attributes.
// Attribute values must already be in t.attr, in sorted vertex order.
func (t *triangle) gradients(n int) {
	t.n = n
	for i := range n {
		d1 := t.attr[1][i] - t.attr[0][i]
		d2 := t.attr[2][i] - t.attr[0][i]
		t.grad[i] = (d1*Fixed(t.e2y) - d2*Fixed(t.e1y)) / Fixed(t.cross)
	}
}

// area is the triangle's screen-space area (shoelace formula).
func (t *triangle) area() float64 {
	return math.Abs(float64(t.cross)) / 2
}

// edge is a walked triangle side: x and the attribute values at the current
// row, each with its per-row step.
type edge struct {
	x, dx Fixed
	a, da [maxAttrs]Fixed
}

// newEdge starts the edge from vertex i to vertex j at row. The edge must
// span at least one row.
func newEdge(t *triangle, i, j, row int, attrs bool) edge {
	var e edge
	p, q := t.v[i], t.v[j]
	dy := q.Y - p.Y
	k := Fixed(row - p.Y)
	e.dx = slope(ToFixed(q.X-p.X), dy)
	e.x = ToFixed(p.X) + e.dx*k
	if attrs {
		for a := range t.n {
			e.da[a] = slope(t.attr[j][a]-t.attr[i][a], dy)
			e.a[a] = t.attr[i][a] + e.da[a]*k
		}
	}
	return e
}

func (e *edge) step(n int) {
	e.x += e.dx
	for a := range n {
		e.a[a] += e.da[a]
	}
}

// walk visits every visible span of t top to bottom. Spans cover
// [floor(left), floor(right)) so shared edges are drawn once.
func (c *Context) walk(t *triangle, fn func(s *span)) {
	var s span
	for _, half := range [2][2]int{{0, 1}, {1, 2}} {
		top := max(t.v[half[0]].Y, c.clipTop)
		bottom := min(t.v[half[1]].Y, c.clipBottom)
		if top >= bottom {
			continue
		}
		long := newEdge(t, 0, 2, top, !t.shortLeft)
		short := newEdge(t, half[0], half[1], top, t.shortLeft)
		left, right := &long, &short
		if t.shortLeft {
			left, right = &short, &long
		}

		zRow := t.plane.At(0, top)
		for y := top; y < bottom; y++ {
			xs, xe := left.x.Int(), right.x.Int()
			if t.clip {
				xs = max(xs, c.clipLeft)
				xe = min(xe, c.clipRight)
			}
			if xs < xe {
				s.y, s.xs, s.xe = y, xs, xe
				s.off = y * c.width
				// One correction covers both the sub-pixel offset of the
				// edge and any columns removed by the clamp.
				delta := float64(ToFixed(xs) - left.x)
				for a := range t.n {
					s.a[a] = left.a[a] + Fixed(math.Floor(delta*float64(t.grad[a])/float64(FixedOne)))
				}
				s.z = zRow + float64(xs)*t.plane.dzdx
				fn(&s)
			}
			left.step(t.n)
			right.step(0)
			zRow += t.plane.dzdy
		}
	}
}

func finite(z float32) bool {
	return !math.IsNaN(float64(z)) && !math.IsInf(float64(z), 0)
}
