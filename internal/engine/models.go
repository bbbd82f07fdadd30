package engine

import (
	"github.com/cxd309/metro-engine/internal/config"
	"github.com/cxd309/metro-engine/internal/route"
	"github.com/cxd309/metro-engine/internal/station"
	"github.com/cxd309/metro-engine/internal/vehicle"
	"github.com/rs/zerolog"
)

// SimulationMeta holds the identity and timing parameters for a simulation run.
// Zero timing fields fall back to the configured sim defaults.
type SimulationMeta struct {
	SimulationID string  `json:"simulation_id"`
	RunTime      float64 `json:"run_time"`  // seconds
	TimeStep     float64 `json:"time_step"` // seconds
}

// Location is a planar position.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StationInput describes one station.
type StationInput struct {
	StationID string   `json:"station_id"`
	Name      string   `json:"name,omitempty"`
	Loc       Location `json:"loc"`
	Size      float64  `json:"size"`
}

// StopInput is one call of a route at a station.
type StopInput struct {
	Station string       `json:"station"`
	Side    station.Side `json:"side"`
}

// RouteInput describes one route.
type RouteInput struct {
	RouteID route.ID    `json:"route_id"`
	Stops   []StopInput `json:"stops"`
	Loop    bool        `json:"loop,omitempty"`
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta     SimulationMeta `json:"simulation_meta"`
	Stations []StationInput `json:"stations"`
	Routes   []RouteInput   `json:"routes"`
	Vehicles []vehicle.Spec `json:"vehicles"`
}

// SimulationLogRow is the state of all vehicles at a single simulation timestep.
type SimulationLogRow struct {
	Timestamp   float64            `json:"timestamp"` // seconds
	VehicleLogs []vehicle.Snapshot `json:"vehicle_logs"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta   SimulationMeta     `json:"simulation_meta"`
	Output []SimulationLogRow `json:"output"`
}

// World is the simulation state: stations, the route network and the
// vehicles travelling it.
type World struct {
	meta     SimulationMeta
	params   config.Params
	stations *station.Directory
	network  *route.Network
	ctl      *vehicle.Controller
	movers   []vehicle.Mover
	curTime  float64
	log      zerolog.Logger
}
