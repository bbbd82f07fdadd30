package vehicle

import "github.com/cxd309/metro-engine/internal/route"

// Mover is what the world needs from anything that travels a route.
type Mover interface {
	ID() ID
	Route() route.ID
	Place(p *route.Path)
	Update(p *route.Path, delta float64)
	Revalidate(p *route.Path) bool
	Snapshot(p *route.Path) Snapshot
	Dwelling() bool
	Location() (segment int, distance float64, dir route.Direction)
}

// Unit binds a vehicle to the controller that moves it.
type Unit struct {
	V   *Vehicle
	ctl *Controller
}

// NewUnit creates a Mover for spec driven by ctl.
func NewUnit(spec Spec, ctl *Controller) *Unit {
	return &Unit{V: New(spec), ctl: ctl}
}

func (u *Unit) ID() ID                           { return u.V.VehicleID }
func (u *Unit) Route() route.ID                  { return u.V.RouteID }
func (u *Unit) Place(p *route.Path)              { u.ctl.Place(u.V, p) }
func (u *Unit) Update(p *route.Path, dt float64) { u.ctl.Tick(u.V, p, dt) }
func (u *Unit) Revalidate(p *route.Path) bool    { return u.ctl.Revalidate(u.V, p) }
func (u *Unit) Dwelling() bool                   { return u.V.State == StateDwelling }

func (u *Unit) Location() (int, float64, route.Direction) {
	return u.V.Segment, u.V.Distance, u.V.Dir
}

func (u *Unit) Snapshot(p *route.Path) Snapshot {
	return u.V.Snapshot(p.Segment(u.V.Segment).Kind())
}
