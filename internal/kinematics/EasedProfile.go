package kinematics

import "math"

// EasedModelName is the JSON discriminator string for the Eased profile.
const EasedModelName = "eased"

// EasedProfile implements MotionModel with exponential easing on open track
// and speeds proportional to the distance left (or covered) near stops.
//
// JSON discriminator: "model": "eased"
type EasedProfile struct {
	VMaxVal float64 `json:"v_max"`        // maximum speed, units/s
	Rate    float64 `json:"acceleration"` // easing rate towards VMax, 1/s
	Creep   float64 `json:"creep"`        // speed floor near stops, fraction of VMax
	Ramp    float64 `json:"ramp_length"`  // braking/departure zone on terminal stubs, units
}

func (e EasedProfile) VMax() float64 { return e.VMaxVal }

func (e EasedProfile) Cruise(speed, dt float64) float64 {
	k := clamp01(e.Rate * dt)
	return clamp(speed+(e.VMaxVal-speed)*k, 0, e.VMaxVal)
}

func (e EasedProfile) Approach(f float64) float64 {
	return e.VMaxVal * math.Min(e.Creep+math.Max(f, 0), 1)
}

// Depart is floored at the creep speed as well: a vehicle leaving a stop at
// zero covered distance would otherwise never move.
func (e EasedProfile) Depart(f float64) float64 {
	return e.VMaxVal * math.Min(math.Max(e.Creep, f), 1)
}

func (e EasedProfile) RampFraction(distance float64) float64 {
	if e.Ramp <= 0 {
		return 1
	}
	return math.Max(distance, 0) / e.Ramp
}

// WithDefaults fills every zero field from d.
func (e EasedProfile) WithDefaults(d EasedProfile) EasedProfile {
	if e.VMaxVal == 0 {
		e.VMaxVal = d.VMaxVal
	}
	if e.Rate == 0 {
		e.Rate = d.Rate
	}
	if e.Creep == 0 {
		e.Creep = d.Creep
	}
	if e.Ramp == 0 {
		e.Ramp = d.Ramp
	}
	return e
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
