package route

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmFixture = `{
	"code": "Ok",
	"routes": [{
		"distance": 462000,
		"duration": 27000,
		"geometry": {"coordinates": [[80.2707, 13.0827], [78.1198, 9.9252]]}
	}]
}`

func TestGenerateRouteFromOSRM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(osrmFixture))
	}))
	defer server.Close()

	p := NewPlanner(server.URL)
	summary := p.GenerateRoute(context.Background(), "Chennai", "Madurai", "car")

	assert.False(t, summary.IsFallback)
	assert.Equal(t, 462.0, summary.DistanceKM)
	assert.Equal(t, 450, summary.DurationMinutes)
	assert.Equal(t, "Chennai, India", summary.From.Address)
	assert.Equal(t, "Madurai, India", summary.To.Address)

	// GeoJSON [lng, lat] pairs come back as [lat, lng].
	require.Len(t, summary.Directions, 2)
	assert.Equal(t, []float64{13.0827, 80.2707}, summary.Directions[0])
	assert.Equal(t, []float64{9.9252, 78.1198}, summary.Directions[1])
}

func TestGenerateRouteFallsBackWhenRoutingFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "NoRoute", "message": "no route"}`))
	}))
	defer server.Close()

	p := NewPlanner(server.URL)
	summary := p.GenerateRoute(context.Background(), "Chennai", "Madurai", "walk")

	assert.True(t, summary.IsFallback)
	assert.Equal(t, fallbackDurationMinutes, summary.DurationMinutes)
	assert.Equal(t, float64(fallbackDistanceKM), summary.DistanceKM)
	require.Len(t, summary.Directions, 2)
	assert.Equal(t, []float64{13.0827, 80.2707}, summary.Directions[0])
}

func TestGenerateRouteFallsBackWhenServerUnreachable(t *testing.T) {
	p := NewPlanner("http://127.0.0.1:1")
	summary := p.GenerateRoute(context.Background(), "Chennai", "Madurai", "car")
	assert.True(t, summary.IsFallback)
}

func TestGeocodeUnknownNameDefaultsToChennai(t *testing.T) {
	// No MAPS_CREDENTIALS in the test environment, so unknown names take
	// the fixed fallback.
	ep := geocodeLocation(context.Background(), "Atlantis")
	assert.Equal(t, 13.0827, ep.Lat)
	assert.Equal(t, 80.2707, ep.Lng)
	assert.Contains(t, ep.Address, "Atlantis")
}

func TestStoreRemembersPerSubject(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("user-1")
	assert.False(t, ok)

	summary := fallbackRoute(cityCoords["Chennai"], cityCoords["Madurai"], "bus")
	s.Set("user-1", summary)

	got, ok := s.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, "bus", got.TransportMode)

	s.Clear("user-1")
	_, ok = s.Get("user-1")
	assert.False(t, ok)

	// Empty subject IDs are ignored rather than stored.
	s.Set("", summary)
	_, ok = s.Get("")
	assert.False(t, ok)
}
