// Package engine implements the metro simulation loop.
//
// The simulation advances in fixed timesteps. Each step has two passes:
//
//  1. Topology pass - station occupancy is recomputed and every dirty route
//     rebuilds its path; vehicles on a rebuilt route are clamped onto the
//     new path.
//
//  2. Motion pass - every vehicle dwells, departs, reverses or moves along
//     its route's current path.
//
// The topology pass always completes before any vehicle reads a path.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/metro-engine/internal/config"
	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/kinematics"
	"github.com/cxd309/metro-engine/internal/route"
	"github.com/cxd309/metro-engine/internal/station"
	"github.com/cxd309/metro-engine/internal/vehicle"
	"github.com/rs/zerolog"
)

// ErrRouteInUse is returned when removing a route that still has vehicles.
var ErrRouteInUse = errors.New("route has vehicles assigned")

// NewWorld constructs a World from a SimulationInput, building every route
// and placing each vehicle at its route's first stop.
func NewWorld(input SimulationInput, params config.Params, log zerolog.Logger) (*World, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	meta := input.Meta
	if meta.TimeStep == 0 {
		meta.TimeStep = params.Sim.TimeStep
	}
	if meta.RunTime == 0 {
		meta.RunTime = params.Sim.RunTime
	}

	stations := station.NewDirectory(station.Dimensions{
		Scale:      params.Station.Scale,
		TrackWidth: params.Track.Width,
		TrackGap:   params.Track.Gap,
	})
	for _, s := range input.Stations {
		if _, err := stations.Add(s.StationID, s.Name, geometry.Vec{X: s.Loc.X, Y: s.Loc.Y}, s.Size); err != nil {
			return nil, fmt.Errorf("adding station: %w", err)
		}
	}

	def := defaultProfile(params)
	w := &World{
		meta:     meta,
		params:   params,
		stations: stations,
		network:  route.NewNetwork(route.Geometry{TerminalStub: params.Track.TerminalStub}, log),
		ctl:      vehicle.NewController(params.Vehicle.DwellTime, params.Vehicle.TurnRate, def, log),
		log:      log,
	}

	for _, r := range input.Routes {
		if err := w.AddRoute(r); err != nil {
			return nil, err
		}
	}
	if _, err := w.network.Update(w.stations, w.stations.Len()); err != nil {
		return nil, fmt.Errorf("building routes: %w", err)
	}

	for _, spec := range input.Vehicles {
		if k, ok := spec.Kinem.(kinematics.EasedProfile); ok {
			spec.Kinem = k.WithDefaults(def)
		}
		if err := w.AddVehicle(spec); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("simulation", meta.SimulationID).
		Int("stations", stations.Len()).
		Int("routes", w.network.Len()).
		Int("vehicles", len(w.movers)).
		Msg("world ready")
	return w, nil
}

func defaultProfile(params config.Params) kinematics.EasedProfile {
	return kinematics.EasedProfile{
		VMaxVal: params.Vehicle.MaxSpeed,
		Rate:    params.Vehicle.Acceleration,
		Creep:   params.Vehicle.Creep,
		Ramp:    params.Vehicle.RampLength,
	}
}

// AddRoute registers a route. Its path is built on the next step.
func (w *World) AddRoute(in RouteInput) error {
	known := make(map[string]bool, w.stations.Len())
	for _, s := range w.stations.Stations() {
		known[s.Key] = true
	}
	if err := errors.Join(validateRoute(in, known)...); err != nil {
		return err
	}

	stops := make([]route.Stop, len(in.Stops))
	for i, s := range in.Stops {
		id, err := w.stations.Lookup(s.Station)
		if err != nil {
			return fmt.Errorf("route %q stop %d: %w", in.RouteID, i, err)
		}
		stops[i] = route.Stop{Station: id, Side: s.Side}
	}
	return w.network.Add(route.New(in.RouteID, stops, in.Loop))
}

// RemoveRoute drops a route. Routes that shared its stations move inwards on
// the next step. A route with vehicles on it cannot be removed.
func (w *World) RemoveRoute(id route.ID) error {
	for _, m := range w.movers {
		if m.Route() == id {
			return fmt.Errorf("route %q: vehicle %q: %w", id, m.ID(), ErrRouteInUse)
		}
	}
	return w.network.Remove(id)
}

// AddVehicle places a new vehicle on a built route.
func (w *World) AddVehicle(spec vehicle.Spec) error {
	p, err := w.path(spec.RouteID)
	if err != nil {
		return fmt.Errorf("vehicle %q: %w", spec.VehicleID, err)
	}
	m := vehicle.NewUnit(spec, w.ctl)
	m.Place(p)
	w.movers = append(w.movers, m)
	return nil
}

func (w *World) path(id route.ID) (*route.Path, error) {
	r, err := w.network.Get(id)
	if err != nil {
		return nil, err
	}
	if r.Path() == nil {
		return nil, fmt.Errorf("route %q has not been built", id)
	}
	return r.Path(), nil
}

// Run executes the full simulation and returns the log. The first row is the
// initial placement at t=0.
func (w *World) Run() (SimulationLog, error) {
	log := SimulationLog{Meta: w.meta}
	dt := w.meta.TimeStep
	steps := int(math.Floor(w.meta.RunTime/dt + 1e-9))
	for i := 0; i <= steps; i++ {
		w.curTime = float64(i) * dt
		if i > 0 {
			if err := w.Step(dt); err != nil {
				return SimulationLog{}, fmt.Errorf("at t=%.2f: %w", w.curTime, err)
			}
		}
		log.Output = append(log.Output, SimulationLogRow{Timestamp: w.curTime, VehicleLogs: w.Snapshots()})
	}
	return log, nil
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) error {
	// Pass 1: rebuild dirty routes and clamp their vehicles onto the new paths.
	rebuilt, err := w.network.Update(w.stations, w.stations.Len())
	if err != nil {
		return fmt.Errorf("updating routes: %w", err)
	}
	for _, id := range rebuilt {
		p, err := w.path(id)
		if err != nil {
			return err
		}
		for _, m := range w.movers {
			if m.Route() == id {
				m.Revalidate(p)
			}
		}
	}

	// Pass 2: move every vehicle along its route's current path.
	for _, m := range w.movers {
		p, err := w.path(m.Route())
		if err != nil {
			return fmt.Errorf("vehicle %q: %w", m.ID(), err)
		}
		m.Update(p, dt)
	}
	return nil
}

// Snapshots returns the state of every vehicle.
func (w *World) Snapshots() []vehicle.Snapshot {
	out := make([]vehicle.Snapshot, len(w.movers))
	for i, m := range w.movers {
		p, _ := w.path(m.Route())
		out[i] = m.Snapshot(p)
	}
	return out
}

// Network returns the route collection.
func (w *World) Network() *route.Network { return w.network }

// Stations returns the station directory.
func (w *World) Stations() *station.Directory { return w.stations }

// Meta returns the effective run parameters.
func (w *World) Meta() SimulationMeta { return w.meta }
