package geocode

import (
	"context"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlineProbe(_ context.Context) bool  { return true }
func offlineProbe(_ context.Context) bool { return false }

func newTestClient(probe func(ctx context.Context) bool) *Client {
	return New(Config{
		BaseURL:   "https://geo.test/search",
		UserAgent: "divelog-test/1.0",
		Timeout:   2 * time.Second,
		Probe:     probe,
	})
}

func TestLookupSuccess(t *testing.T) {
	defer gock.Off()
	gock.New("https://geo.test").
		Get("/search").
		MatchParam("q", "Blue Hole").
		MatchParam("format", "json").
		MatchParam("limit", "1").
		MatchHeader("User-Agent", "divelog-test/1.0").
		Reply(200).
		JSON([]map[string]string{{"lat": "28.5723", "lon": "34.5370"}})

	c := newTestClient(onlineProbe)
	pt, err := c.Lookup(context.Background(), "Blue Hole")
	require.NoError(t, err)

	assert.InDelta(t, 28.5723, pt.Lat, 1e-9)
	assert.InDelta(t, 34.5370, pt.Lon, 1e-9)
	assert.True(t, gock.IsDone())
}

func TestLookupCachesSuccess(t *testing.T) {
	defer gock.Off()
	gock.New("https://geo.test").
		Get("/search").
		Times(1).
		Reply(200).
		JSON([]map[string]string{{"lat": "45.6", "lon": "10.7"}})

	c := newTestClient(onlineProbe)

	first, err := c.Lookup(context.Background(), "Lake Garda")
	require.NoError(t, err)

	// Same name, different casing: served from cache, no second request.
	second, err := c.Lookup(context.Background(), "  LAKE GARDA ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, gock.IsDone())
}

func TestLookupNoResults(t *testing.T) {
	defer gock.Off()
	gock.New("https://geo.test").
		Get("/search").
		Times(1).
		Reply(200).
		JSON([]map[string]string{})

	c := newTestClient(onlineProbe)

	_, err := c.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)

	// The failure is cached too.
	_, err = c.Lookup(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.True(t, gock.IsDone())
}

func TestLookupNoConnectivity(t *testing.T) {
	defer gock.Off()

	c := newTestClient(offlineProbe)
	_, err := c.Lookup(context.Background(), "Blue Hole")
	assert.ErrorIs(t, err, ErrNoConnectivity)
	assert.True(t, gock.IsDone(), "no request issued when the probe fails")
}

func TestLookupServerError(t *testing.T) {
	defer gock.Off()
	gock.New("https://geo.test").
		Get("/search").
		Reply(503)

	c := newTestClient(onlineProbe)
	_, err := c.Lookup(context.Background(), "Blue Hole")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestLookupBadCoordinatePayload(t *testing.T) {
	defer gock.Off()
	gock.New("https://geo.test").
		Get("/search").
		Reply(200).
		JSON([]map[string]string{{"lat": "north", "lon": "east"}})

	c := newTestClient(onlineProbe)
	_, err := c.Lookup(context.Background(), "Blue Hole")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}
