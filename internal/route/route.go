// Package route turns ordered station stops into concrete track geometry and
// keeps each route's segment sequence current as station occupancy changes.
package route

import (
	"slices"

	"github.com/cxd309/metro-engine/internal/station"
)

// ID identifies a route.
type ID = string

// Route is an ordered stop list plus the path realised from it. The path is
// only valid while the route is not dirty.
type Route struct {
	id    ID
	stops []Stop
	loop  bool
	dirty bool
	path  *Path
	view  []int // occupancy seen by each stop at the last successful build
}

// New creates a dirty route; its path is built on the next network update.
func New(id ID, stops []Stop, loop bool) *Route {
	return &Route{
		id:    id,
		stops: slices.Clone(stops),
		loop:  loop,
		dirty: true,
	}
}

func (r *Route) ID() ID         { return r.id }
func (r *Route) Looped() bool   { return r.loop }
func (r *Route) Dirty() bool    { return r.dirty }
func (r *Route) Stops() []Stop  { return slices.Clone(r.stops) }
func (r *Route) MarkDirty()     { r.dirty = true }
func (r *Route) Path() *Path    { return r.path }
func (r *Route) StopCount() int { return len(r.stops) }

// Stations returns the distinct stations the route calls at, in first-visit
// order.
func (r *Route) Stations() []station.ID {
	seen := make(map[station.ID]bool, len(r.stops))
	out := make([]station.ID, 0, len(r.stops))
	for _, s := range r.stops {
		if !seen[s.Station] {
			seen[s.Station] = true
			out = append(out, s.Station)
		}
	}
	return out
}

// Rebuild synthesises a fresh path and swaps it in. On error the previous
// path is kept and the route stays dirty.
func (r *Route) Rebuild(loc Locator, occupancy []int, geo Geometry) error {
	p, err := Synthesize(r.stops, r.loop, loc, occupancy, geo)
	if err != nil {
		return err
	}
	r.path = p
	r.view = r.occupancyView(occupancy)
	r.dirty = false
	return nil
}

func (r *Route) occupancyView(occupancy []int) []int {
	view := make([]int, len(r.stops))
	for i, s := range r.stops {
		if s.Station >= 0 && s.Station < len(occupancy) {
			view[i] = occupancy[s.Station]
		}
	}
	return view
}

// observe marks the route dirty when the occupancy it would be built with
// differs from what it was last built with.
func (r *Route) observe(occupancy []int) {
	if !slices.Equal(r.view, r.occupancyView(occupancy)) {
		r.dirty = true
	}
}
