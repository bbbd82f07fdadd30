// Package geometry provides the vector and angle helpers shared by route
// synthesis and vehicle motion. Positions are planar screen units and angles
// are radians measured counter-clockwise from +X.
package geometry

import (
	"math"

	"github.com/quasilyte/gmath"
)

// Vec is a 2D point or direction.
type Vec = gmath.Vec

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, Tau)
	if a < 0 {
		a += Tau
	}
	if a >= Tau {
		a -= Tau
	}
	return a
}

// Sweep returns the endpoints of the angular interval travelled from a to b.
// Both angles are normalized first; then 2π is added to whichever endpoint is
// smaller when the raw interval is not already the requested one (the short
// way round, or the long way when pickLarger is set). Interpolating linearly
// between the returned values traces the intended arc.
func Sweep(a, b float64, pickLarger bool) (from, to float64) {
	a, b = NormalizeAngle(a), NormalizeAngle(b)
	span := math.Abs(b - a)
	if (!pickLarger && span > math.Pi) || (pickLarger && span < math.Pi) {
		if a < b {
			a += Tau
		} else {
			b += Tau
		}
	}
	return a, b
}

// LerpAngle interpolates from a to b at t along the arc chosen by Sweep.
// The result is not normalized and may exceed 2π.
func LerpAngle(a, b, t float64, pickLarger bool) float64 {
	from, to := Sweep(a, b, pickLarger)
	return from + (to-from)*t
}

// AngleBetween is the unsigned short-way span between a and b.
func AngleBetween(a, b float64) float64 {
	from, to := Sweep(a, b, false)
	return math.Abs(to - from)
}

// FromAngle returns the unit vector pointing at angle a.
func FromAngle(a float64) Vec {
	return Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// Perp rotates v by +90°.
func Perp(v Vec) Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Cross is the z component of the 3D cross product of a and b.
func Cross(a, b Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vec) Vec {
	return a.Add(b).Mulf(0.5)
}

// Heading returns atan2 of v.
func Heading(v Vec) float64 {
	return float64(v.Angle())
}

// Finite reports whether both components of v are finite numbers.
func Finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
