// Package kinematics defines the MotionModel interface that sets a vehicle's
// speed along each kind of track segment, along with built-in implementations.
//
// Adding a new speed profile requires only implementing MotionModel and
// registering it in the JSON discriminator in the vehicle package; the motion
// controller itself never needs to change.
package kinematics

// MotionModel is the speed contract every profile must satisfy. Distances are
// in track units, speeds in units per second and time in seconds.
type MotionModel interface {
	// VMax returns the vehicle's maximum speed. Every value returned by the
	// other methods lies in [0, VMax].
	VMax() float64

	// Cruise eases speed towards VMax over dt seconds on open track.
	Cruise(speed, dt float64) float64

	// Approach returns the speed while braking into a stop, given the
	// fraction f of the braking zone still ahead (1 on entry, 0 at the stop).
	// It never drops to zero before the stop so the vehicle always arrives.
	Approach(f float64) float64

	// Depart returns the speed while pulling away from a stop, given the
	// fraction f of the departure zone already covered.
	Depart(f float64) float64

	// RampFraction maps a distance along a terminal stub to the fraction fed
	// to Approach or Depart.
	RampFraction(distance float64) float64
}
