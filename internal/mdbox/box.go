// Package mdbox implements the cubic simulation cell and its boundary
// handling, reflecting or periodic.
package mdbox

import "math"

// Kind selects how out-of-bounds atoms are handled.
type Kind int

const (
	Reflect Kind = iota
	Periodic
)

// Vec3 is a 3-component vector used for positions, velocities and forces.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3    { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3    { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Box is a cubic simulation cell centred at the origin with half-side H and
// volume (2H)^3.
type Box struct {
	HalfSide float64
	Boundary Kind
	// Damping is applied to the reflected velocity component.
	Damping float64
}

// New creates a box with the given half-side and boundary kind, using a
// default reflection damping of 0.98.
func New(halfSide float64, boundary Kind) *Box {
	return &Box{HalfSide: halfSide, Boundary: boundary, Damping: 0.98}
}

// Volume returns (2H)^3.
func (b *Box) Volume() float64 {
	side := 2 * b.HalfSide
	return side * side * side
}

// SetVolume rescales HalfSide to match the given volume, used by the
// barostat to grow/shrink the box under NPT.
func (b *Box) SetVolume(v float64) {
	side := math.Cbrt(v)
	b.HalfSide = side / 2
}

func wrapAxis(x, h float64) float64 {
	side := 2 * h
	// floor-based modulo into [-h, h)
	y := math.Mod(x+h, side)
	if y < 0 {
		y += side
	}
	return y - h
}

// Wrap maps r into [-H, H) on each axis for a periodic box; identity for a
// reflecting box.
func (b *Box) Wrap(r Vec3) Vec3 {
	if b.Boundary != Periodic {
		return r
	}
	return Vec3{
		X: wrapAxis(r.X, b.HalfSide),
		Y: wrapAxis(r.Y, b.HalfSide),
		Z: wrapAxis(r.Z, b.HalfSide),
	}
}

func minImageAxis(d, h float64) float64 {
	side := 2 * h
	for d >= h {
		d -= side
	}
	for d < -h {
		d += side
	}
	return d
}

// MinImage adjusts the displacement d = r_i - r_j to its minimum image under
// periodic boundaries; identity under reflecting boundaries.
func (b *Box) MinImage(d Vec3) Vec3 {
	if b.Boundary != Periodic {
		return d
	}
	return Vec3{
		X: minImageAxis(d.X, b.HalfSide),
		Y: minImageAxis(d.Y, b.HalfSide),
		Z: minImageAxis(d.Z, b.HalfSide),
	}
}

// Reflect applies the reflecting-wall rule to a single atom's position and
// velocity and returns the updated pair: any axis exceeding |H| has its
// velocity inverted and damped, and its position pulled back to 0.99*H on
// that side.
func (b *Box) Reflect(r, v Vec3) (Vec3, Vec3) {
	if b.Boundary != Reflect {
		return r, v
	}
	rr, vv := r, v
	rr.X, vv.X = reflectAxis(rr.X, vv.X, b.HalfSide, b.Damping)
	rr.Y, vv.Y = reflectAxis(rr.Y, vv.Y, b.HalfSide, b.Damping)
	rr.Z, vv.Z = reflectAxis(rr.Z, vv.Z, b.HalfSide, b.Damping)
	return rr, vv
}

func reflectAxis(r, v, h, damping float64) (float64, float64) {
	if math.Abs(r) > h {
		sign := 1.0
		if r < 0 {
			sign = -1.0
		}
		return sign * 0.99 * h, -damping * v
	}
	return r, v
}

// ApplyBoundary dispatches to Wrap or Reflect according to b.Boundary.
func (b *Box) ApplyBoundary(r, v Vec3) (Vec3, Vec3) {
	switch b.Boundary {
	case Periodic:
		return b.Wrap(r), v
	default:
		return b.Reflect(r, v)
	}
}
