// Package vehicle defines vehicle state and the controller that moves a vehicle
// along its route's segment sequence tick by tick.
package vehicle

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/kinematics"
	"github.com/cxd309/metro-engine/internal/route"
)

// ID is a unique string identifier for a vehicle.
type ID = string

// State describes the current motion state of a vehicle.
type State string

const (
	StateDwelling State = "dwelling"
	StateRunning  State = "running"
)

// Spec is the static definition of a vehicle.
// The speed profile is held by the Kinem field; adding a new profile only
// requires implementing kinematics.MotionModel and registering it in
// UnmarshalJSON below.
type Spec struct {
	VehicleID ID                     `json:"vehicle_id"`
	RouteID   route.ID               `json:"route_id"`
	Kinem     kinematics.MotionModel `json:"-"` // set by UnmarshalJSON; nil means the configured default
}

// kinematicsDisc is the minimum JSON structure needed to read the model discriminator.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// specJSON is the raw JSON shape of a Spec, before the kinematics model is resolved.
type specJSON struct {
	VehicleID ID              `json:"vehicle_id"`
	RouteID   route.ID        `json:"route_id"`
	Kinem     json.RawMessage `json:"kinematics"`
}

// UnmarshalJSON implements json.Unmarshaler for Spec.
// An optional "kinematics" object must carry a "model" discriminator key that
// selects the concrete profile; the rest of the object is forwarded to that
// profile's own unmarshaler.
//
// Supported models:
//   - "eased": v_max / acceleration / creep / ramp_length.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var aux specJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.VehicleID = aux.VehicleID
	s.RouteID = aux.RouteID
	s.Kinem = nil

	if len(aux.Kinem) == 0 || string(aux.Kinem) == "null" {
		return nil
	}

	var disc kinematicsDisc
	if err := json.Unmarshal(aux.Kinem, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading kinematics model discriminator: %w", s.VehicleID, err)
	}

	switch disc.Model {
	case kinematics.EasedModelName:
		var k kinematics.EasedProfile
		if err := json.Unmarshal(aux.Kinem, &k); err != nil {
			return fmt.Errorf("vehicle %q: parsing eased kinematics: %w", s.VehicleID, err)
		}
		s.Kinem = k
	default:
		return fmt.Errorf("vehicle %q: unknown kinematics model %q", s.VehicleID, disc.Model)
	}
	return nil
}

// Vehicle is a Spec enriched with live simulation state.
type Vehicle struct {
	Spec
	Segment    int
	Distance   float64 // along the current segment, in [0, length]
	Dir        route.Direction
	Speed      float64
	State      State
	DwellTimer float64
	Position   geometry.Vec
	Heading    float64 // direction of travel
	Rendered   float64 // Heading eased over time, for drawing
}

// New creates a vehicle that still has to be placed on its route.
func New(spec Spec) *Vehicle {
	return &Vehicle{Spec: spec, Dir: route.Forward, State: StateDwelling}
}

// Snapshot is a point-in-time record of a vehicle's state.
type Snapshot struct {
	VehicleID ID              `json:"vehicle_id"`
	RouteID   route.ID        `json:"route_id"`
	Segment   int             `json:"segment"`
	Kind      string          `json:"segment_kind"`
	Distance  float64         `json:"distance"`
	Direction route.Direction `json:"direction"`
	Speed     float64         `json:"speed"`
	State     State           `json:"state"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Heading   float64         `json:"heading"`
}

// Snapshot returns a point-in-time record of the vehicle. kind is the kind of
// the segment the vehicle is on.
func (v *Vehicle) Snapshot(kind route.Kind) Snapshot {
	return Snapshot{
		VehicleID: v.VehicleID,
		RouteID:   v.RouteID,
		Segment:   v.Segment,
		Kind:      kind.String(),
		Distance:  v.Distance,
		Direction: v.Dir,
		Speed:     v.Speed,
		State:     v.State,
		X:         v.Position.X,
		Y:         v.Position.Y,
		Heading:   v.Rendered,
	}
}
