// Package station holds the station directory: where each station sits and
// how far out its platform tracks are pushed by the routes sharing it.
package station

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cxd309/metro-engine/internal/geometry"
)

// ID is a dense station index, usable directly as a scratch-array index.
type ID = int

// ErrUnknownStation is returned when an ID or key is not in the directory.
var ErrUnknownStation = errors.New("unknown station")

// Side selects which perpendicular offset a route's track takes at a stop.
type Side int

const (
	Left  Side = -1
	Right Side = 1
)

// Factor returns the signed multiplier applied to the perpendicular offset.
func (s Side) Factor() float64 { return float64(s) }

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if s != Left && s != Right {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Accepts "left"/"right"
// in any case.
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "left":
		*s = Left
	case "right":
		*s = Right
	default:
		return fmt.Errorf("invalid side %q: want \"left\" or \"right\"", string(text))
	}
	return nil
}

// Station is a fixed point on the map.
type Station struct {
	ID       ID
	Key      string
	Name     string
	Position geometry.Vec
	Size     float64 // base size before scaling
}

// Dimensions are the track measurements that turn occupancy into radius.
type Dimensions struct {
	Scale      float64 // multiplier applied to Station.Size
	TrackWidth float64
	TrackGap   float64
}

// Directory is the set of stations known to a world. Stations are added
// before the simulation starts and never move afterwards.
type Directory struct {
	dims     Dimensions
	stations []Station
	byKey    map[string]ID
}

// NewDirectory creates an empty directory using dims for radius computation.
func NewDirectory(dims Dimensions) *Directory {
	return &Directory{
		dims:  dims,
		byKey: make(map[string]ID),
	}
}

// Add appends a station and returns its ID. Keys must be unique.
func (d *Directory) Add(key, name string, pos geometry.Vec, size float64) (ID, error) {
	if _, exists := d.byKey[key]; exists {
		return 0, fmt.Errorf("station %q already exists", key)
	}
	if size < 0 {
		return 0, fmt.Errorf("station %q: negative size %v", key, size)
	}
	if !geometry.Finite(pos) {
		return 0, fmt.Errorf("station %q: non-finite position", key)
	}
	id := len(d.stations)
	d.stations = append(d.stations, Station{ID: id, Key: key, Name: name, Position: pos, Size: size})
	d.byKey[key] = id
	return id, nil
}

// Len returns the number of stations.
func (d *Directory) Len() int { return len(d.stations) }

// Get returns the station with the given ID.
func (d *Directory) Get(id ID) (Station, error) {
	if id < 0 || id >= len(d.stations) {
		return Station{}, fmt.Errorf("station %d: %w", id, ErrUnknownStation)
	}
	return d.stations[id], nil
}

// Lookup resolves a station key to its ID.
func (d *Directory) Lookup(key string) (ID, error) {
	id, ok := d.byKey[key]
	if !ok {
		return 0, fmt.Errorf("station %q: %w", key, ErrUnknownStation)
	}
	return id, nil
}

// Position returns the station's centre.
func (d *Directory) Position(id ID) (geometry.Vec, error) {
	s, err := d.Get(id)
	if err != nil {
		return geometry.Vec{}, err
	}
	return s.Position, nil
}

// EffectiveRadius is the distance from the station centre to the track of a
// route that sees occupancy routes at this station (itself included).
func (d *Directory) EffectiveRadius(id ID, occupancy int) (float64, error) {
	s, err := d.Get(id)
	if err != nil {
		return 0, err
	}
	return s.Size*d.dims.Scale + (d.dims.TrackWidth+d.dims.TrackGap)*float64(occupancy), nil
}

// Stations returns a copy of every station in ID order.
func (d *Directory) Stations() []Station {
	out := make([]Station, len(d.stations))
	copy(out, d.stations)
	return out
}
