package geometry

import "math"

// CompassStep is the angular spacing of the eight track directions.
const CompassStep = math.Pi / 4

// AlignTolerance is how far (in screen units) a run's endpoint may sit off a
// compass ray and still count as aligned with it.
const AlignTolerance = 1e-6

// CompassDir returns the unit vector of compass direction k (k*45°).
func CompassDir(k int) Vec {
	return FromAngle(float64(k) * CompassStep)
}

// CompassIndex returns the index in [0, 8) of the compass direction nearest
// to v. Exact half-way angles round away from zero.
func CompassIndex(v Vec) int {
	k := int(math.Round(Heading(v) / CompassStep))
	return ((k % 8) + 8) % 8
}

// IsCompassAligned reports whether v already points along one of the eight
// compass directions.
func IsCompassAligned(v Vec) bool {
	return math.Abs(Cross(v, CompassDir(CompassIndex(v)))) <= AlignTolerance
}

// DecomposeCompass splits v into its components along the two compass
// directions that bracket it, so near+far == v. near lies along the bracket
// closer to v's own heading; on an exact tie the clockwise bracket wins.
func DecomposeCompass(v Vec) (near, far Vec) {
	theta := Heading(v)
	k0 := math.Floor(theta / CompassStep)
	u0 := FromAngle(k0 * CompassStep)
	u1 := FromAngle((k0 + 1) * CompassStep)

	det := Cross(u0, u1)
	lo := u0.Mulf(Cross(v, u1) / det)
	hi := u1.Mulf(Cross(u0, v) / det)

	if theta-k0*CompassStep <= CompassStep/2 {
		return lo, hi
	}
	return hi, lo
}
