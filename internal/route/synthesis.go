package route

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/station"
)

var (
	// ErrMalformedTopology covers stop lists that cannot form a route.
	ErrMalformedTopology = errors.New("malformed topology")
	// ErrDegenerateGeometry covers zero-length directions, runs and radii.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// minLength is the shortest direction vector or run accepted by synthesis.
const minLength = 1e-9

// Locator is what synthesis needs from the station directory.
type Locator interface {
	Position(id station.ID) (geometry.Vec, error)
	EffectiveRadius(id station.ID, occupancy int) (float64, error)
}

// Geometry holds the track construction settings.
type Geometry struct {
	// TerminalStub is the length of the braking stub split off each end of a
	// non-looped route. Zero retags the whole end run instead.
	TerminalStub float64
}

// Stop is a station reference plus the side its track leaves on.
type Stop struct {
	Station station.ID
	Side    station.Side
}

// Synthesize converts an ordered stop list into the segment sequence of one
// route. occupancy is indexed by station ID and gives, for each station, the
// number of routes at that station up to and including this one.
//
// Each consecutive stop pair contributes two Lines meeting at a turning
// point. Every intermediate stop contributes an ArriveArc/LeaveArc pair
// around its platform; a looped route closes with the first stop's pair.
// A non-looped route instead has a TerminalLine at each end.
func Synthesize(stops []Stop, loop bool, loc Locator, occupancy []int, geo Geometry) (*Path, error) {
	if err := checkTopology(stops, loop, occupancy); err != nil {
		return nil, err
	}

	n := len(stops)
	pairs := n - 1
	if loop {
		pairs = n
	}

	segments := make([]Segment, 0, 4*n)
	var (
		entrance    geometry.Vec // previous pair's entrance offset at the current station
		firstExit   geometry.Vec
		firstRadius float64
	)
	for idx := 0; idx < pairs; idx++ {
		curr, next := stops[idx], stops[(idx+1)%n]

		currPos, err := loc.Position(curr.Station)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", idx, err)
		}
		nextPos, err := loc.Position(next.Station)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", (idx+1)%n, err)
		}
		currRadius, err := radius(loc, curr.Station, occupancy)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", idx, err)
		}
		nextRadius, err := radius(loc, next.Station, occupancy)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", (idx+1)%n, err)
		}

		toNext := nextPos.Sub(currPos)
		if toNext.Len() < minLength {
			return nil, fmt.Errorf("stations %d and %d coincide: %w", curr.Station, next.Station, ErrDegenerateGeometry)
		}
		perp := geometry.Perp(toNext).Normalized()

		exit := perp.Mulf(currRadius * curr.Side.Factor())
		if idx == 0 {
			firstExit = exit
			firstRadius = currRadius
		} else {
			segments = append(segments, platformArcs(toNext, entrance, exit, currPos, currRadius, curr.Station)...)
		}
		entrance = perp.Mulf(nextRadius * next.Side.Factor())

		run, err := movingRun(currPos.Add(exit), nextPos.Add(entrance), currRadius, nextRadius, curr.Station, next.Station)
		if err != nil {
			return nil, fmt.Errorf("run %d->%d: %w", idx, (idx+1)%n, err)
		}
		segments = append(segments, run...)
	}

	if loop {
		firstPos, _ := loc.Position(stops[0].Station)
		secondPos, _ := loc.Position(stops[1].Station)
		segments = append(segments, platformArcs(secondPos.Sub(firstPos), entrance, firstExit, firstPos, firstRadius, stops[0].Station)...)
	} else {
		segments = splitTermini(segments, geo.TerminalStub)
	}
	return newPath(segments, loop), nil
}

func checkTopology(stops []Stop, loop bool, occupancy []int) error {
	if len(stops) < 2 {
		return fmt.Errorf("%d stops, need at least 2: %w", len(stops), ErrMalformedTopology)
	}
	if loop && len(stops) < 3 {
		return fmt.Errorf("looped route has %d stops, need at least 3: %w", len(stops), ErrMalformedTopology)
	}
	for i, s := range stops {
		if s.Side != station.Left && s.Side != station.Right {
			return fmt.Errorf("stop %d: invalid side %d: %w", i, int(s.Side), ErrMalformedTopology)
		}
		if s.Station < 0 || s.Station >= len(occupancy) {
			return fmt.Errorf("stop %d: station %d has no occupancy entry: %w", i, s.Station, ErrMalformedTopology)
		}
		if occupancy[s.Station] < 1 {
			return fmt.Errorf("stop %d: station %d occupancy %d < 1: %w", i, s.Station, occupancy[s.Station], ErrMalformedTopology)
		}
		last := i == len(stops)-1
		if last && !loop {
			break
		}
		next := stops[(i+1)%len(stops)]
		if next.Station == s.Station {
			return fmt.Errorf("stops %d and %d repeat station %d: %w", i, (i+1)%len(stops), s.Station, ErrMalformedTopology)
		}
	}
	return nil
}

func radius(loc Locator, id station.ID, occupancy []int) (float64, error) {
	r, err := loc.EffectiveRadius(id, occupancy[id])
	if err != nil {
		return 0, err
	}
	if !(r > 0) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("station %d radius %v: %w", id, r, ErrDegenerateGeometry)
	}
	return r, nil
}

// movingRun builds the two straight Lines between a platform exit and the next
// platform entrance. When the run is not already on a compass heading, the
// leg next to the smaller-radius station follows the compass direction
// nearest to the run and the other leg takes the remaining bracket
// direction; the lines meet at that turning point. Aligned runs turn at
// their midpoint. Swapping the endpoints yields the same turning point.
func movingRun(from, to geometry.Vec, fromRadius, toRadius float64, fromStation, toStation station.ID) ([]Segment, error) {
	d := to.Sub(from)
	if d.Len() < minLength {
		return nil, fmt.Errorf("platform exit meets next entrance: %w", ErrDegenerateGeometry)
	}

	pivot := geometry.Midpoint(from, to)
	if !geometry.IsCompassAligned(d) {
		near, far := geometry.DecomposeCompass(d)
		if fromRadius <= toRadius {
			pivot = from.Add(near)
		} else {
			pivot = from.Add(far)
		}
	}
	return []Segment{
		newLine(from, pivot, fromStation),
		newLine(pivot, to, toStation),
	}, nil
}

// platformArcs builds the arrive/leave pair around a platform. entrance and
// exit are offsets from the station centre, both of length radius. The pair
// sweeps the long way round when going the short way would double back
// against the direction to the next station.
func platformArcs(toNext, entrance, exit, center geometry.Vec, radius float64, st station.ID) []Segment {
	entranceAngle := geometry.Heading(entrance)
	exitAngle := geometry.Heading(exit)
	pickLarger := toNext.Dot(exit.Sub(entrance)) < 0
	middle := geometry.LerpAngle(entranceAngle, exitAngle, 0.5, pickLarger)

	arc := Arc{
		Center:     center,
		Radius:     radius,
		Entrance:   entranceAngle,
		Middle:     middle,
		Exit:       exitAngle,
		PickLarger: pickLarger,
	}
	return []Segment{
		newArc(KindArriveArc, arc, st),
		newArc(KindLeaveArc, arc, st),
	}
}

// splitTermini marks the two ends of a non-looped route. With a positive stub
// length the end lines are split so only a short braking stub is the
// TerminalLine; otherwise the whole end lines are retagged.
func splitTermini(segments []Segment, stub float64) []Segment {
	first, last := segments[0], segments[len(segments)-1]
	if stub <= 0 {
		segments[0] = first.asTerminal(Backward)
		segments[len(segments)-1] = last.asTerminal(Forward)
		return segments
	}

	out := make([]Segment, 0, len(segments)+2)

	s := math.Min(stub, first.Length()/2)
	cut := first.Begin().Add(first.End().Sub(first.Begin()).Normalized().Mulf(s))
	out = append(out,
		newLine(first.Begin(), cut, first.Station()).asTerminal(Backward),
		newLine(cut, first.End(), first.Station()),
	)
	out = append(out, segments[1:len(segments)-1]...)

	s = math.Min(stub, last.Length()/2)
	cut = last.End().Sub(last.End().Sub(last.Begin()).Normalized().Mulf(s))
	out = append(out,
		newLine(last.Begin(), cut, last.Station()),
		newLine(cut, last.End(), last.Station()).asTerminal(Forward),
	)
	return out
}
