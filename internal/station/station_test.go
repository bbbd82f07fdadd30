package station

import (
	"encoding/json"
	"testing"

	"github.com/cxd309/metro-engine/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(Dimensions{Scale: 15, TrackWidth: 6, TrackGap: 2})
	_, err := d.Add("a", "Alpha", geometry.Vec{X: 0, Y: 0}, 1)
	require.NoError(t, err)
	_, err = d.Add("b", "Bravo", geometry.Vec{X: 100, Y: 0}, 2)
	require.NoError(t, err)
	return d
}

func TestDirectory_AddAssignsDenseIDs(t *testing.T) {
	d := newDirectory(t)
	assert.Equal(t, 2, d.Len())

	id, err := d.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	s, err := d.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Bravo", s.Name)
	assert.Equal(t, 100.0, s.Position.X)
}

func TestDirectory_DuplicateKey(t *testing.T) {
	d := newDirectory(t)
	_, err := d.Add("a", "again", geometry.Vec{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestDirectory_Unknown(t *testing.T) {
	d := newDirectory(t)

	_, err := d.Get(7)
	assert.ErrorIs(t, err, ErrUnknownStation)

	_, err = d.Position(-1)
	assert.ErrorIs(t, err, ErrUnknownStation)

	_, err = d.Lookup("zulu")
	assert.ErrorIs(t, err, ErrUnknownStation)

	_, err = d.EffectiveRadius(9, 1)
	assert.ErrorIs(t, err, ErrUnknownStation)
}

func TestDirectory_EffectiveRadiusGrowsWithOccupancy(t *testing.T) {
	d := newDirectory(t)

	r1, err := d.EffectiveRadius(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 15+8, r1, 1e-9)

	r3, err := d.EffectiveRadius(0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 15+24, r3, 1e-9)

	rb, err := d.EffectiveRadius(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 30+8, rb, 1e-9)
}

func TestSide_JSON(t *testing.T) {
	var sides []Side
	require.NoError(t, json.Unmarshal([]byte(`["left","RIGHT"]`), &sides))
	assert.Equal(t, []Side{Left, Right}, sides)

	out, err := json.Marshal(sides)
	require.NoError(t, err)
	assert.JSONEq(t, `["left","right"]`, string(out))

	var s Side
	assert.Error(t, json.Unmarshal([]byte(`"up"`), &s))
	assert.Equal(t, -1.0, Left.Factor())
}
