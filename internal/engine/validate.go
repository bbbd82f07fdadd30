package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/metro-engine/internal/route"
	"github.com/cxd309/metro-engine/internal/station"
)

// ErrInvalidInput wraps every problem found by Validate.
var ErrInvalidInput = errors.New("invalid simulation input")

// Validate checks a SimulationInput before any geometry is built. Every
// problem is reported, not just the first.
func Validate(input SimulationInput) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...))
	}

	if input.Meta.TimeStep < 0 || math.IsNaN(input.Meta.TimeStep) {
		fail("time_step %v", input.Meta.TimeStep)
	}
	if input.Meta.RunTime < 0 || math.IsNaN(input.Meta.RunTime) {
		fail("run_time %v", input.Meta.RunTime)
	}

	stations := make(map[string]bool, len(input.Stations))
	for i, s := range input.Stations {
		switch {
		case s.StationID == "":
			fail("station %d: empty station_id", i)
		case stations[s.StationID]:
			fail("station %q: duplicate station_id", s.StationID)
		}
		stations[s.StationID] = true
		if !finite(s.Loc.X) || !finite(s.Loc.Y) {
			fail("station %q: non-finite location", s.StationID)
		}
		if s.Size < 0 || !finite(s.Size) {
			fail("station %q: size %v", s.StationID, s.Size)
		}
	}

	routes := make(map[route.ID]bool, len(input.Routes))
	for _, r := range input.Routes {
		if routes[r.RouteID] {
			fail("route %q: duplicate route_id", r.RouteID)
		}
		routes[r.RouteID] = true
		errs = append(errs, validateRoute(r, stations)...)
	}

	vehicles := make(map[string]bool, len(input.Vehicles))
	for i, v := range input.Vehicles {
		switch {
		case v.VehicleID == "":
			fail("vehicle %d: empty vehicle_id", i)
		case vehicles[v.VehicleID]:
			fail("vehicle %q: duplicate vehicle_id", v.VehicleID)
		}
		vehicles[v.VehicleID] = true
		if !routes[v.RouteID] {
			fail("vehicle %q: unknown route %q", v.VehicleID, v.RouteID)
		}
	}
	return errors.Join(errs...)
}

func validateRoute(r RouteInput, stations map[string]bool) []error {
	var errs []error
	fail := func(format string, args ...any) {
		args = append([]any{r.RouteID}, args...)
		errs = append(errs, fmt.Errorf("route %q: "+format+": %w", append(args, ErrInvalidInput)...))
	}

	if r.RouteID == "" {
		fail("empty route_id")
	}
	n := len(r.Stops)
	if n < 2 {
		fail("%d stops, need at least 2", n)
	}
	if r.Loop && n < 3 {
		fail("looped route has %d stops, need at least 3", n)
	}
	for i, s := range r.Stops {
		if !stations[s.Station] {
			fail("stop %d: unknown station %q", i, s.Station)
		}
		if s.Side != station.Left && s.Side != station.Right {
			fail("stop %d: side must be left or right", i)
		}
		if n < 2 || (i == n-1 && !r.Loop) {
			continue
		}
		if next := r.Stops[(i+1)%n]; next.Station == s.Station {
			fail("stops %d and %d both call at %q", i, (i+1)%n, s.Station)
		}
	}
	return errs
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
