package route

import (
	"fmt"
	"math"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/station"
)

// Direction is the sense of travel along a route's segment sequence.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Sign returns the direction as a float multiplier.
func (d Direction) Sign() float64 { return float64(d) }

// Reversed returns the opposite direction.
func (d Direction) Reversed() Direction { return -d }

func (d Direction) String() string {
	if d < 0 {
		return "backward"
	}
	return "forward"
}

// Kind tags the geometric variant of a Segment.
type Kind int

const (
	KindLine Kind = iota
	KindTerminalLine
	KindArriveArc
	KindLeaveArc
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindTerminalLine:
		return "terminal_line"
	case KindArriveArc:
		return "arrive_arc"
	case KindLeaveArc:
		return "leave_arc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Arc describes a platform curve around a station centre. Entrance and Exit
// are the angles of the incoming and outgoing tracks; Middle is the platform
// point halfway along the chosen sweep.
type Arc struct {
	Center     geometry.Vec
	Radius     float64
	Entrance   float64
	Middle     float64
	Exit       float64
	PickLarger bool
}

// Segment is one immutable piece of a route's realised path.
type Segment struct {
	kind     Kind
	begin    geometry.Vec
	end      geometry.Vec
	terminus Direction // TerminalLine only
	arc      Arc       // arcs only
	station  station.ID
	length   float64
}

func newLine(begin, end geometry.Vec, st station.ID) Segment {
	return Segment{
		kind:    KindLine,
		begin:   begin,
		end:     end,
		station: st,
		length:  begin.DistanceTo(end),
	}
}

func newArc(kind Kind, arc Arc, st station.ID) Segment {
	s := Segment{kind: kind, arc: arc, station: st}
	from, to := s.localAngles()
	s.length = arc.Radius * geometry.AngleBetween(from, to)
	s.begin = s.PositionAt(0)
	s.end = s.PositionAt(s.length)
	return s
}

// asTerminal returns a copy of a line retagged as the terminus at the given
// end of the route.
func (s Segment) asTerminal(end Direction) Segment {
	s.kind = KindTerminalLine
	s.terminus = end
	return s
}

// Kind returns the segment variant.
func (s Segment) Kind() Kind { return s.kind }

// Station is the station this segment leaves from or arrives at.
func (s Segment) Station() station.ID { return s.station }

// Length is the Euclidean length for lines and radius × span for arcs.
func (s Segment) Length() float64 { return s.length }

// Begin is the point at distance 0.
func (s Segment) Begin() geometry.Vec { return s.begin }

// End is the point at distance Length().
func (s Segment) End() geometry.Vec { return s.end }

// Arc returns the arc parameters; ok is false for lines.
func (s Segment) Arc() (Arc, bool) {
	return s.arc, s.kind == KindArriveArc || s.kind == KindLeaveArc
}

// Terminus reports which end of the route a TerminalLine closes.
func (s Segment) Terminus() (Direction, bool) {
	return s.terminus, s.kind == KindTerminalLine
}

func (s Segment) isArc() bool { return s.kind == KindArriveArc || s.kind == KindLeaveArc }

// localAngles are the two angles this half of the platform arc runs between.
func (s Segment) localAngles() (from, to float64) {
	if s.kind == KindArriveArc {
		return s.arc.Entrance, s.arc.Middle
	}
	return s.arc.Middle, s.arc.Exit
}

// fraction maps a distance to [0, 1]. Zero-length segments are complete.
func (s Segment) fraction(distance float64) float64 {
	if s.length <= 0 {
		return 1
	}
	return math.Max(0, math.Min(distance/s.length, 1))
}

// PositionAt samples the point distance units from the segment start.
func (s Segment) PositionAt(distance float64) geometry.Vec {
	t := s.fraction(distance)
	if !s.isArc() {
		return s.begin.Add(s.end.Sub(s.begin).Mulf(t))
	}
	from, to := s.localAngles()
	angle := geometry.LerpAngle(from, to, t, false)
	return s.arc.Center.Add(geometry.FromAngle(angle).Mulf(s.arc.Radius))
}

// HeadingAt is the tangent angle pointing towards increasing distance.
func (s Segment) HeadingAt(distance float64) float64 {
	if !s.isArc() {
		return geometry.Heading(s.end.Sub(s.begin))
	}
	from, to := s.localAngles()
	from, to = geometry.Sweep(from, to, false)
	angle := from + (to-from)*s.fraction(distance)
	if to >= from {
		return angle + math.Pi/2
	}
	return angle - math.Pi/2
}

// Progress is the fraction of the segment covered when travelling in dir:
// 0 at the point being left, 1 at the point being approached.
func (s Segment) Progress(distance float64, dir Direction) float64 {
	if s.length <= 0 {
		return 1
	}
	if dir > 0 {
		return distance / s.length
	}
	return 1 - distance/s.length
}

// DistanceToEnd is how far remains before the approached end. Negative once
// the vehicle has overshot it.
func (s Segment) DistanceToEnd(distance float64, dir Direction) float64 {
	if dir > 0 {
		return s.length - distance
	}
	return distance
}

// DistanceToStart is how far the vehicle has come from the end it left.
func (s Segment) DistanceToStart(distance float64, dir Direction) float64 {
	if dir > 0 {
		return distance
	}
	return s.length - distance
}

// Ended reports whether travel in dir has reached or passed the far end.
func (s Segment) Ended(distance float64, dir Direction) bool {
	return s.Progress(distance, dir) >= 1
}

// StartOfTravel is the distance value at the end a vehicle in dir leaves from.
func (s Segment) StartOfTravel(dir Direction) float64 {
	if dir > 0 {
		return 0
	}
	return s.length
}

// EndOfTravel is the distance value at the end a vehicle in dir moves towards.
func (s Segment) EndOfTravel(dir Direction) float64 {
	if dir > 0 {
		return s.length
	}
	return 0
}

// StopsAt reports whether a vehicle travelling in dir brakes along this
// segment and dwells at its far end: the platform centre of an arc pair, or
// the terminus of a TerminalLine.
func (s Segment) StopsAt(dir Direction) bool {
	switch s.kind {
	case KindTerminalLine:
		return s.terminus == dir
	case KindArriveArc:
		return dir > 0
	case KindLeaveArc:
		return dir < 0
	default:
		return false
	}
}

func (s Segment) String() string {
	return fmt.Sprintf("%s(%.2f,%.2f -> %.2f,%.2f len=%.2f)", s.kind, s.begin.X, s.begin.Y, s.end.X, s.end.Y, s.length)
}
