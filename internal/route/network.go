package route

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// ErrUnknownRoute is returned when a route ID is not in the network.
var ErrUnknownRoute = errors.New("unknown route")

// Network is the collection of routes sharing one station directory. Routes
// are processed in the order they were added; that order decides which
// route's track sits innermost at a shared station.
type Network struct {
	geo    Geometry
	order  []ID
	routes map[ID]*Route
	log    zerolog.Logger
}

// NewNetwork creates an empty network.
func NewNetwork(geo Geometry, log zerolog.Logger) *Network {
	return &Network{
		geo:    geo,
		routes: make(map[ID]*Route),
		log:    log,
	}
}

// Add registers a new route. Its path is built on the next Update.
func (n *Network) Add(r *Route) error {
	if _, exists := n.routes[r.ID()]; exists {
		return fmt.Errorf("route %q already exists", r.ID())
	}
	n.routes[r.ID()] = r
	n.order = append(n.order, r.ID())
	return nil
}

// Remove drops a route. Routes added after it see lower occupancy on the
// next Update and are rebuilt then.
func (n *Network) Remove(id ID) error {
	if _, ok := n.routes[id]; !ok {
		return fmt.Errorf("route %q: %w", id, ErrUnknownRoute)
	}
	delete(n.routes, id)
	n.order = slices.DeleteFunc(n.order, func(o ID) bool { return o == id })
	return nil
}

// Get returns the route with the given ID.
func (n *Network) Get(id ID) (*Route, error) {
	r, ok := n.routes[id]
	if !ok {
		return nil, fmt.Errorf("route %q: %w", id, ErrUnknownRoute)
	}
	return r, nil
}

// Routes returns the routes in processing order.
func (n *Network) Routes() []*Route {
	out := make([]*Route, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.routes[id])
	}
	return out
}

// Len returns the number of routes.
func (n *Network) Len() int { return len(n.order) }

// Occupancy computes, into a freshly allocated array indexed by station ID,
// the number of routes at each station after every route has been counted.
// Unused stations count 1.
func (n *Network) Occupancy(stationCount int) []int {
	occ := newOccupancy(stationCount)
	for _, id := range n.order {
		occ.add(n.routes[id])
	}
	return occ
}

type occupancy []int

func newOccupancy(stationCount int) occupancy {
	occ := make(occupancy, stationCount)
	for i := range occ {
		occ[i] = 1
	}
	return occ
}

func (o occupancy) add(r *Route) {
	for _, s := range r.Stations() {
		if s >= 0 && s < len(o) {
			o[s]++
		}
	}
}

// Update recomputes station occupancy and rebuilds every dirty route. Each
// route is built against the occupancy of the routes before it, so parallel
// routes nest outwards at shared stations. It returns the IDs of routes
// whose path was replaced; callers must revalidate vehicles on those routes
// before ticking them. Routes that fail to build keep their previous path
// and their errors are joined into the returned error.
func (n *Network) Update(loc Locator, stationCount int) ([]ID, error) {
	occ := newOccupancy(stationCount)

	var (
		rebuilt []ID
		errs    []error
	)
	for _, id := range n.order {
		r := n.routes[id]
		r.observe(occ)
		if r.Dirty() {
			if err := r.Rebuild(loc, occ, n.geo); err != nil {
				n.log.Error().Err(err).Str("route", id).Msg("route rebuild failed")
				errs = append(errs, fmt.Errorf("route %q: %w", id, err))
			} else {
				p := r.Path()
				n.log.Debug().
					Str("route", id).
					Int("segments", p.Len()).
					Float64("track_length", p.TrackLength()).
					Msg("route rebuilt")
				rebuilt = append(rebuilt, id)
			}
		}
		occ.add(r)
	}
	return rebuilt, errors.Join(errs...)
}
