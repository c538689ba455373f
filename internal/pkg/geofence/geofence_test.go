package geofence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stLouis = Location{Name: "Costco - St Louis", Lat: 38.627, Lng: -90.199, RadiusM: 150}

func TestDistanceM(t *testing.T) {
	// same point
	assert.Zero(t, DistanceM(38.627, -90.199, 38.627, -90.199))

	// one degree of latitude is roughly 111.2 km
	d := DistanceM(38.0, -90.0, 39.0, -90.0)
	assert.InDelta(t, 111195, d, 200)
}

func TestResolveGates(t *testing.T) {
	r := NewResolver()
	inside := Reading{Lat: stLouis.Lat, Lng: stLouis.Lng}

	// too noisy: 150m accuracy against the 120m maximum, even though the
	// fix is dead center of the circle
	noisy := inside
	noisy.AccuracyM = 150
	assert.Nil(t, r.Resolve(noisy, []Location{stLouis}))

	// too old
	stale := inside
	stale.Age = 11 * time.Minute
	assert.Nil(t, r.Resolve(stale, []Location{stLouis}))

	// fresh and precise
	got := r.Resolve(inside, []Location{stLouis})
	require.NotNil(t, got)
	assert.Equal(t, stLouis.Name, got.Location.Name)
}

func TestResolveBoundaryIsInclusive(t *testing.T) {
	r := NewResolver()
	center := Location{Name: "Center", Lat: 0, Lng: 0, RadiusM: DistanceM(0, 0, 0, 0.001)}
	reading := Reading{Lat: 0, Lng: 0.001}

	got := r.Resolve(reading, []Location{center})
	require.NotNil(t, got)
	assert.InDelta(t, center.RadiusM, got.DistanceM, 0.0001)
}

func TestResolveNearestWins(t *testing.T) {
	r := NewResolver()
	near := Location{Name: "Near", Lat: 0, Lng: 0.0005, RadiusM: 500}
	far := Location{Name: "Far", Lat: 0, Lng: 0.003, RadiusM: 500}
	reading := Reading{Lat: 0, Lng: 0}

	got := r.Resolve(reading, []Location{far, near})
	require.NotNil(t, got)
	assert.Equal(t, "Near", got.Location.Name)
}

func TestResolveTieBreaksOnName(t *testing.T) {
	r := NewResolver()
	a := Location{Name: "Alpha", Lat: 0, Lng: 0.001, RadiusM: 500}
	b := Location{Name: "Beta", Lat: 0, Lng: -0.001, RadiusM: 500}
	reading := Reading{Lat: 0, Lng: 0}

	got := r.Resolve(reading, []Location{b, a})
	require.NotNil(t, got)
	assert.Equal(t, "Alpha", got.Location.Name)
}

func TestResolveOutsideEveryCircle(t *testing.T) {
	r := NewResolver()
	reading := Reading{Lat: 38.8, Lng: -90.199}
	assert.Nil(t, r.Resolve(reading, []Location{stLouis}))
}
