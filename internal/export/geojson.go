// Package export renders route track geometry and vehicle positions as
// GeoJSON. Coordinates are the simulation's planar units, not WGS84.
package export

import (
	"math"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/cxd309/metro-engine/internal/route"
	"github.com/cxd309/metro-engine/internal/vehicle"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultArcStep is the arc length between samples when flattening arcs.
const DefaultArcStep = 2.0

func point(v geometry.Vec) orb.Point { return orb.Point{v.X, v.Y} }

// LineString flattens a path into a polyline. Arcs are sampled through the
// same PositionAt used for vehicle motion, at most step apart; zero-length
// segments add nothing. A looped path is closed back onto its first point.
func LineString(p *route.Path, step float64) orb.LineString {
	if step <= 0 {
		step = DefaultArcStep
	}
	var ls orb.LineString
	for i := 0; i < p.Len(); i++ {
		seg := p.Segment(i)
		if seg.Length() <= 0 {
			continue
		}
		if len(ls) == 0 {
			ls = append(ls, point(seg.Begin()))
		}
		n := 1
		if _, ok := seg.Arc(); ok {
			n = max(2, int(math.Ceil(seg.Length()/step)))
		}
		for k := 1; k <= n; k++ {
			ls = append(ls, point(seg.PositionAt(seg.Length()*float64(k)/float64(n))))
		}
	}
	if p.Looped() && len(ls) > 1 && ls[0] != ls[len(ls)-1] {
		ls = append(ls, ls[0])
	}
	return ls
}

// RouteFeature is one route's track as a LineString feature.
func RouteFeature(r *route.Route, step float64) *geojson.Feature {
	p := r.Path()
	f := geojson.NewFeature(LineString(p, step))
	f.ID = r.ID()
	f.Properties["kind"] = "route"
	f.Properties["route_id"] = r.ID()
	f.Properties["loop"] = r.Looped()
	f.Properties["segments"] = p.Len()
	f.Properties["track_length"] = p.TrackLength()
	return f
}

// VehicleFeature is a vehicle's position as a Point feature.
func VehicleFeature(s vehicle.Snapshot) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{s.X, s.Y})
	f.ID = s.VehicleID
	f.Properties["kind"] = "vehicle"
	f.Properties["vehicle_id"] = s.VehicleID
	f.Properties["route_id"] = s.RouteID
	f.Properties["state"] = string(s.State)
	f.Properties["speed"] = s.Speed
	f.Properties["heading"] = s.Heading
	return f
}

// Collection gathers every built route and the given vehicles. Routes that
// have never been built are left out.
func Collection(routes []*route.Route, vehicles []vehicle.Snapshot, step float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range routes {
		if r.Path() == nil {
			continue
		}
		fc.Append(RouteFeature(r, step))
	}
	for _, s := range vehicles {
		fc.Append(VehicleFeature(s))
	}
	return fc
}
