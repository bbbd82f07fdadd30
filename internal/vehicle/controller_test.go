package vehicle

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/kinematics"
	"github.com/cxd309/metro-engine/internal/route"
	"github.com/cxd309/metro-engine/internal/station"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tol   = 1e-6
	frame = 1.0 / 60
)

var profile = kinematics.EasedProfile{VMaxVal: 200, Rate: 0.25, Creep: 0.05, Ramp: 50}

func newController() *Controller {
	return NewController(1.0, 8, profile, zerolog.Nop())
}

func buildPath(t *testing.T, loop bool, points ...geometry.Vec) *route.Path {
	t.Helper()
	dir := station.NewDirectory(station.Dimensions{Scale: 15, TrackWidth: 6, TrackGap: 2})
	stops := make([]route.Stop, len(points))
	occ := make([]int, len(points))
	for i, p := range points {
		id, err := dir.Add(string(rune('a'+i)), "", p, 1)
		require.NoError(t, err)
		stops[i] = route.Stop{Station: id, Side: station.Right}
		occ[i] = 1
	}
	p, err := route.Synthesize(stops, loop, dir, occ, route.Geometry{TerminalStub: 20})
	require.NoError(t, err)
	return p
}

// twoStop is T(-1) 0..20, L 20..50, L 50..80, T(+1) 80..100, all at y=23.
func twoStop(t *testing.T) *route.Path {
	return buildPath(t, false, geometry.Vec{X: 0, Y: 0}, geometry.Vec{X: 100, Y: 0})
}

func triangle(t *testing.T) *route.Path {
	return buildPath(t, true,
		geometry.Vec{X: 0, Y: 0},
		geometry.Vec{X: 300, Y: 40},
		geometry.Vec{X: 120, Y: 260},
	)
}

func placed(t *testing.T, c *Controller, p *route.Path) *Vehicle {
	t.Helper()
	v := New(Spec{VehicleID: "v1", RouteID: "r1"})
	c.Place(v, p)
	return v
}

func TestPlace_NonLoopedStartsAtOriginTerminus(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := placed(t, c, p)

	assert.Equal(t, 0, v.Segment)
	assert.Equal(t, route.Backward, v.Dir)
	assert.Equal(t, StateDwelling, v.State)
	assert.InDelta(t, 0, v.Distance, tol)
	assert.InDelta(t, 0, v.Position.X, tol)
	assert.InDelta(t, 23, v.Position.Y, tol)
	assert.InDelta(t, math.Pi, v.Heading, tol)
	assert.Equal(t, v.Heading, v.Rendered)
}

func TestPlace_LoopedStartsOnFirstPlatform(t *testing.T) {
	c := newController()
	p := triangle(t)
	v := placed(t, c, p)

	assert.Equal(t, p.FirstPlatform(), v.Segment)
	assert.Equal(t, route.Forward, v.Dir)
	seg := p.Segment(v.Segment)
	assert.Equal(t, route.KindArriveArc, seg.Kind())
	assert.InDelta(t, seg.Length(), v.Distance, tol)
}

func TestTick_DwellPinsUntilThresholdCrossed(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := placed(t, c, p)
	start := v.Position

	for i := 0; i < 3; i++ {
		c.Tick(v, p, 0.3)
		require.Equal(t, StateDwelling, v.State, "tick %d", i)
		assert.InDelta(t, start.X, v.Position.X, tol)
		assert.InDelta(t, start.Y, v.Position.Y, tol)
		assert.Equal(t, 0.0, v.Speed)
	}

	c.Tick(v, p, 0.3)
	assert.Equal(t, StateRunning, v.State)
	assert.Equal(t, route.Forward, v.Dir, "origin terminus reverses on departure")
	assert.Equal(t, 0, v.Segment)
	assert.Greater(t, v.Distance, 0.0)
	assert.Equal(t, 0.0, v.DwellTimer)
}

func TestTick_SpeedStaysInBounds(t *testing.T) {
	c := newController()
	for name, p := range map[string]*route.Path{"two stop": twoStop(t), "loop": triangle(t)} {
		t.Run(name, func(t *testing.T) {
			v := placed(t, c, p)
			for i := 0; i < 60*40; i++ {
				c.Tick(v, p, frame)
				require.GreaterOrEqual(t, v.Speed, 0.0)
				require.LessOrEqual(t, v.Speed, profile.VMax()+tol)
				seg := p.Segment(v.Segment)
				require.GreaterOrEqual(t, v.Distance, -tol)
				require.LessOrEqual(t, v.Distance, seg.Length()+tol)
			}
		})
	}
}

func TestTick_ReversesOnlyWhenLeavingOwnTerminus(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := placed(t, c, p)

	reversals := 0
	for i := 0; i < 60*30; i++ {
		prevDir, prevState, prevSeg := v.Dir, v.State, p.Segment(v.Segment)
		c.Tick(v, p, frame)

		end, terminal := prevSeg.Terminus()
		atOwnTerminus := prevState == StateDwelling && terminal && end == prevDir
		departed := prevState == StateDwelling && v.State == StateRunning

		if v.Dir != prevDir {
			reversals++
			require.True(t, atOwnTerminus, "tick %d reversed away from a terminus", i)
		}
		if atOwnTerminus && departed {
			require.NotEqual(t, prevDir, v.Dir, "tick %d left terminus without reversing", i)
		}
	}
	assert.GreaterOrEqual(t, reversals, 4)
}

func TestTick_LargeDeltaStaysOnTrack(t *testing.T) {
	c := newController()
	p := twoStop(t)
	require.Equal(t, 4, p.Len())
	v := placed(t, c, p)

	visited := map[float64]bool{}
	for i := 0; i < 200; i++ {
		c.Tick(v, p, 100*frame)

		require.True(t, geometry.Finite(v.Position))
		require.InDelta(t, 23, v.Position.Y, tol, "tick %d", i)
		require.GreaterOrEqual(t, v.Position.X, -tol)
		require.LessOrEqual(t, v.Position.X, 100+tol)
		if v.State == StateDwelling {
			visited[math.Round(v.Position.X)] = true
		}
	}
	assert.True(t, visited[0], "reached the origin terminus")
	assert.True(t, visited[100], "reached the far terminus")
}

func TestTick_LoopedVisitsEveryPlatform(t *testing.T) {
	c := newController()
	p := triangle(t)
	v := placed(t, c, p)

	dwelled := map[station.ID]bool{}
	wrapped := false
	for i := 0; i < 60*60; i++ {
		prev := v.Segment
		c.Tick(v, p, frame)
		if v.Segment < prev {
			wrapped = true
		}
		if v.State == StateDwelling {
			seg := p.Segment(v.Segment)
			require.Equal(t, route.KindArriveArc, seg.Kind())
			dwelled[seg.Station()] = true
		}
		require.Equal(t, route.Forward, v.Dir)
	}
	assert.True(t, wrapped)
	assert.Equal(t, map[station.ID]bool{0: true, 1: true, 2: true}, dwelled)
}

func TestTick_OvershootCarriesIntoNextSegment(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := New(Spec{VehicleID: "v1"})
	v.Segment = 1
	v.Dir = route.Forward
	v.Distance = 25
	v.Speed = 200
	v.State = StateRunning

	// Line 1 is 30 long: 5 left, then 10 onto line 2.
	c.Tick(v, p, 15.0/200)
	assert.Equal(t, 2, v.Segment)
	assert.InDelta(t, 10, v.Distance, tol)
	assert.Equal(t, StateRunning, v.State)
}

func TestTick_ArrivalClampsAtStop(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := New(Spec{VehicleID: "v1"})
	v.Segment = 2
	v.Dir = route.Forward
	v.Distance = 29
	v.Speed = 200
	v.State = StateRunning

	c.Tick(v, p, 1)
	assert.Equal(t, 3, v.Segment)
	assert.Equal(t, StateDwelling, v.State)
	assert.InDelta(t, p.Segment(3).Length(), v.Distance, tol)
	assert.InDelta(t, 100, v.Position.X, tol)
	assert.Equal(t, 0.0, v.Speed)
}

func TestRevalidate_ClampsStaleState(t *testing.T) {
	c := newController()
	p := twoStop(t)

	v := New(Spec{VehicleID: "v1"})
	v.Segment = 11
	v.Distance = 1e6
	v.State = StateRunning
	require.True(t, c.Revalidate(v, p))
	assert.Equal(t, 3, v.Segment)
	assert.InDelta(t, p.Segment(3).Length(), v.Distance, tol)
	assert.False(t, c.Revalidate(v, p))

	d := New(Spec{VehicleID: "v2"})
	d.Segment = 2
	d.Distance = 5
	d.Dir = route.Forward
	d.State = StateDwelling
	require.True(t, c.Revalidate(d, p))
	assert.InDelta(t, p.Segment(2).Length(), d.Distance, tol)
}

func TestTick_PanicsOnStaleIndex(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := placed(t, c, p)
	v.Segment = 9
	assert.Panics(t, func() { c.Tick(v, p, frame) })
}

func TestTick_PanicsOnNaNDistance(t *testing.T) {
	c := newController()
	p := twoStop(t)
	v := placed(t, c, p)
	v.State = StateRunning
	v.Distance = math.NaN()
	assert.Panics(t, func() { c.Tick(v, p, frame) })
}

func TestEase_TurnsPartWayTowardsHeading(t *testing.T) {
	c := NewController(1, 6, profile, zerolog.Nop())
	v := &Vehicle{Heading: math.Pi / 2, Rendered: 0}
	c.ease(v, 1.0/12)
	assert.InDelta(t, math.Pi/4, v.Rendered, tol)

	// Easing takes the short way across 0.
	v = &Vehicle{Heading: 0.1, Rendered: geometry.Tau - 0.1}
	c.ease(v, 1.0/12)
	assert.InDelta(t, 0, math.Remainder(v.Rendered, geometry.Tau), tol)
}

func TestUnit_ImplementsMover(t *testing.T) {
	c := newController()
	p := twoStop(t)
	var m Mover = NewUnit(Spec{VehicleID: "v1", RouteID: "r1"}, c)
	m.Place(p)
	assert.True(t, m.Dwelling())
	assert.Equal(t, "r1", m.Route())

	s := m.Snapshot(p)
	assert.Equal(t, "v1", s.VehicleID)
	assert.Equal(t, "terminal_line", s.Kind)
	assert.Equal(t, StateDwelling, s.State)
	assert.InDelta(t, 23, s.Y, tol)
}

func TestSpec_UnmarshalJSON(t *testing.T) {
	var s Spec
	require.NoError(t, json.Unmarshal([]byte(`{
		"vehicle_id": "t1",
		"route_id": "red",
		"kinematics": {"model": "eased", "v_max": 120, "acceleration": 0.5}
	}`), &s))
	assert.Equal(t, "t1", s.VehicleID)
	assert.Equal(t, "red", s.RouteID)
	assert.Equal(t, kinematics.EasedProfile{VMaxVal: 120, Rate: 0.5}, s.Kinem)

	require.NoError(t, json.Unmarshal([]byte(`{"vehicle_id": "t2", "route_id": "red"}`), &s))
	assert.Nil(t, s.Kinem)

	err := json.Unmarshal([]byte(`{"vehicle_id": "t3", "kinematics": {"model": "warp"}}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kinematics model")
}
