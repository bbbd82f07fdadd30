package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func profile() EasedProfile {
	return EasedProfile{VMaxVal: 200, Rate: 0.25, Creep: 0.05, Ramp: 50}
}

func TestEasedProfile_ImplementsMotionModel(t *testing.T) {
	var _ MotionModel = EasedProfile{}
}

func TestEasedProfile_CruiseEasesTowardsVMax(t *testing.T) {
	p := profile()
	v := 0.0
	prev := v
	for i := 0; i < 3000; i++ {
		v = p.Cruise(v, 1.0/60)
		assert.GreaterOrEqual(t, v, prev)
		assert.LessOrEqual(t, v, p.VMax())
		prev = v
	}
	assert.InDelta(t, 200, v, 1)
}

func TestEasedProfile_CruiseNeverOvershoots(t *testing.T) {
	p := profile()
	// A huge step would overshoot without clamping the easing factor.
	assert.Equal(t, 200.0, p.Cruise(10, 100))
	assert.Equal(t, 200.0, p.Cruise(250, 1.0/60))
}

func TestEasedProfile_ApproachHasCreepFloor(t *testing.T) {
	p := profile()
	assert.InDelta(t, 10, p.Approach(0), 1e-9)
	assert.InDelta(t, 10, p.Approach(-0.5), 1e-9)
	assert.InDelta(t, 110, p.Approach(0.5), 1e-9)
	assert.Equal(t, 200.0, p.Approach(1))
	assert.Equal(t, 200.0, p.Approach(3))
}

func TestEasedProfile_DepartHasCreepFloor(t *testing.T) {
	p := profile()
	assert.InDelta(t, 10, p.Depart(0), 1e-9)
	assert.InDelta(t, 100, p.Depart(0.5), 1e-9)
	assert.Equal(t, 200.0, p.Depart(2))
}

func TestEasedProfile_RampFraction(t *testing.T) {
	p := profile()
	assert.InDelta(t, 0.5, p.RampFraction(25), 1e-9)
	assert.Equal(t, 0.0, p.RampFraction(-3))

	p.Ramp = 0
	assert.Equal(t, 1.0, p.RampFraction(0))
}

func TestEasedProfile_WithDefaults(t *testing.T) {
	got := EasedProfile{VMaxVal: 80}.WithDefaults(profile())
	assert.Equal(t, EasedProfile{VMaxVal: 80, Rate: 0.25, Creep: 0.05, Ramp: 50}, got)
}
