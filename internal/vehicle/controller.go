package vehicle

import (
	"fmt"
	"math"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/kinematics"
	"github.com/cxd309/metro-engine/internal/route"
	"github.com/rs/zerolog"
)

// Controller advances vehicles along their route paths. It holds no per-vehicle
// state, so one controller serves every vehicle in a world.
type Controller struct {
	DwellTime float64                // seconds spent at each stop
	TurnRate  float64                // heading easing rate, 1/s; 0 snaps
	Default   kinematics.MotionModel // used by vehicles without their own profile
	log       zerolog.Logger
}

// NewController creates a controller.
func NewController(dwell, turnRate float64, def kinematics.MotionModel, log zerolog.Logger) *Controller {
	return &Controller{DwellTime: dwell, TurnRate: turnRate, Default: def, log: log}
}

func (c *Controller) model(v *Vehicle) kinematics.MotionModel {
	if v.Kinem != nil {
		return v.Kinem
	}
	return c.Default
}

// Place puts v at its starting stop, dwelling. On a non-looped path that is the
// origin terminus, facing backward so the first departure reverses it onto the
// route. On a looped path it is the platform of the first stop.
func (c *Controller) Place(v *Vehicle, p *route.Path) {
	mustUsable(p)
	if p.Looped() {
		v.Segment = p.FirstPlatform()
		v.Dir = route.Forward
	} else {
		v.Segment = 0
		v.Dir = route.Backward
	}
	seg := p.Segment(v.Segment)
	v.Distance = seg.EndOfTravel(v.Dir)
	v.Speed = 0
	v.DwellTimer = 0
	v.State = StateDwelling
	c.sample(v, p)
	v.Rendered = v.Heading
}

// Tick advances v by delta seconds along p.
func (c *Controller) Tick(v *Vehicle, p *route.Path, delta float64) {
	mustUsable(p)
	if v.Segment < 0 || v.Segment >= p.Len() {
		panic(fmt.Sprintf("vehicle %q: segment %d outside path of %d", v.VehicleID, v.Segment, p.Len()))
	}

	if v.State == StateDwelling {
		v.DwellTimer += delta
		v.Distance = p.Segment(v.Segment).EndOfTravel(v.Dir)
		if v.DwellTimer > c.DwellTime {
			c.depart(v, p)
		}
	}

	if v.State == StateRunning {
		c.updateSpeed(v, p.Segment(v.Segment), delta)
		v.Distance += v.Speed * v.Dir.Sign() * delta
		c.resolve(v, p)
	}

	c.sample(v, p)
	c.ease(v, delta)
}

// Revalidate clamps v's segment index and distance onto a freshly rebuilt p.
// It reports whether anything had to change.
func (c *Controller) Revalidate(v *Vehicle, p *route.Path) bool {
	mustUsable(p)
	changed := false
	if v.Segment >= p.Len() {
		v.Segment = p.Len() - 1
		changed = true
	}
	if v.Segment < 0 {
		v.Segment = 0
		changed = true
	}
	seg := p.Segment(v.Segment)
	if v.State == StateDwelling {
		if end := seg.EndOfTravel(v.Dir); v.Distance != end {
			v.Distance = end
			changed = true
		}
	} else if d := math.Max(0, math.Min(v.Distance, seg.Length())); d != v.Distance {
		v.Distance = d
		changed = true
	}
	if changed {
		c.log.Warn().
			Str("vehicle", v.VehicleID).
			Int("segment", v.Segment).
			Float64("distance", v.Distance).
			Msg("vehicle clamped onto rebuilt path")
	}
	c.sample(v, p)
	return changed
}

// depart ends a dwell: a vehicle at its own terminus turns round on the same
// segment, any other moves on to the next one.
func (c *Controller) depart(v *Vehicle, p *route.Path) {
	seg := p.Segment(v.Segment)
	if end, ok := seg.Terminus(); ok && end == v.Dir {
		v.Dir = v.Dir.Reversed()
		v.Distance = seg.StartOfTravel(v.Dir)
		c.log.Trace().Str("vehicle", v.VehicleID).Int("segment", v.Segment).Stringer("dir", v.Dir).Msg("reversed")
	} else {
		c.advance(v, p)
	}
	v.Speed = 0
	v.DwellTimer = 0
	v.State = StateRunning
	c.log.Trace().Str("vehicle", v.VehicleID).Int("segment", v.Segment).Msg("departed")
}

// advance moves v onto the start of the next segment in its direction.
func (c *Controller) advance(v *Vehicle, p *route.Path) {
	next, ok := p.Next(v.Segment, v.Dir)
	if !ok {
		panic(fmt.Sprintf("vehicle %q: ran off the %s end of a non-looped route", v.VehicleID, v.Dir))
	}
	v.Segment = next
	v.Distance = p.Segment(next).StartOfTravel(v.Dir)
}

func (c *Controller) arrive(v *Vehicle, seg route.Segment) {
	v.Distance = seg.EndOfTravel(v.Dir)
	v.Speed = 0
	v.DwellTimer = 0
	v.State = StateDwelling
	c.log.Trace().Str("vehicle", v.VehicleID).Int("segment", v.Segment).Int("station", seg.Station()).Msg("dwelling")
}

func (c *Controller) updateSpeed(v *Vehicle, seg route.Segment, delta float64) {
	m := c.model(v)
	braking := seg.StopsAt(v.Dir)
	switch seg.Kind() {
	case route.KindTerminalLine:
		if braking {
			v.Speed = m.Approach(m.RampFraction(seg.DistanceToEnd(v.Distance, v.Dir)))
		} else {
			v.Speed = m.Depart(m.RampFraction(seg.DistanceToStart(v.Distance, v.Dir)))
		}
	case route.KindArriveArc, route.KindLeaveArc:
		progress := seg.Progress(v.Distance, v.Dir)
		if braking {
			v.Speed = m.Approach(1 - progress)
		} else {
			v.Speed = m.Depart(progress)
		}
	default:
		v.Speed = m.Cruise(v.Speed, delta)
	}
}

// resolve carries v across every segment end it has passed this tick. A segment
// that ends in a stop always catches the vehicle, so stops are never skipped
// and reversal only ever happens from a dwell.
func (c *Controller) resolve(v *Vehicle, p *route.Path) {
	limit := 2*p.Len() + 2
	for i := 0; ; i++ {
		if math.IsNaN(v.Distance) || math.IsInf(v.Distance, 0) {
			panic(fmt.Sprintf("vehicle %q: distance %v on segment %d", v.VehicleID, v.Distance, v.Segment))
		}
		seg := p.Segment(v.Segment)
		if !seg.Ended(v.Distance, v.Dir) {
			return
		}
		if seg.StopsAt(v.Dir) {
			c.arrive(v, seg)
			return
		}
		if i >= limit {
			panic(fmt.Sprintf("vehicle %q: crossed %d segments in one tick without reaching a stop", v.VehicleID, i))
		}
		overshoot := -seg.DistanceToEnd(v.Distance, v.Dir)
		c.advance(v, p)
		v.Distance += overshoot * v.Dir.Sign()
	}
}

func (c *Controller) sample(v *Vehicle, p *route.Path) {
	seg := p.Segment(v.Segment)
	v.Position = seg.PositionAt(v.Distance)
	h := seg.HeadingAt(v.Distance)
	if v.Dir < 0 {
		h += math.Pi
	}
	v.Heading = geometry.NormalizeAngle(h)
	if !geometry.Finite(v.Position) {
		panic(fmt.Sprintf("vehicle %q: non-finite position on segment %d (%s)", v.VehicleID, v.Segment, seg))
	}
}

// ease turns the rendered heading towards the travel heading.
func (c *Controller) ease(v *Vehicle, delta float64) {
	if c.TurnRate <= 0 {
		v.Rendered = v.Heading
		return
	}
	t := math.Min(c.TurnRate*delta, 1)
	v.Rendered = geometry.NormalizeAngle(geometry.LerpAngle(v.Rendered, v.Heading, t, false))
}

func mustUsable(p *route.Path) {
	if p == nil || p.Len() < 2 {
		panic("vehicle: route has no usable path")
	}
}
