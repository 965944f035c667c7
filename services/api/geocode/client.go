package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Point is a resolved coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Failures surfaced to the import pipeline. Both are cached so repeated
// lookups of the same name within one run stay off the network.
var (
	ErrNoConnectivity = errors.New("no internet connection available")
	ErrNoResults      = errors.New("no geocoding results found")
)

const cacheSize = 512

// Config holds the settings for a geocoding client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Probe     func(ctx context.Context) bool
}

// Client resolves free-text place names against a nominatim-style search
// endpoint, one best match per lookup. A client is constructed per import
// run; its cache keeps successful and failed outcomes alike, so a file with
// repeated locations issues each network call at most once.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	delay     time.Duration
	probe     func(ctx context.Context) bool
	cache     *lru.Cache[string, outcome]
}

type outcome struct {
	point Point
	err   error
}

// New constructs a client. A nil Probe falls back to dialing the default
// host list.
func New(cfg Config) *Client {
	cache, _ := lru.New[string, outcome](cacheSize)
	c := &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		delay:     cfg.Delay,
		probe:     cfg.Probe,
		cache:     cache,
	}
	if c.probe == nil {
		c.probe = func(ctx context.Context) bool {
			return Probe(ctx, DefaultProbeHosts, DefaultProbeTimeout)
		}
	}
	return c
}

// Lookup resolves place to a coordinate pair. Cached outcomes return
// immediately and bypass the rate-limit delay.
func (c *Client) Lookup(ctx context.Context, place string) (Point, error) {
	key := strings.ToLower(strings.TrimSpace(place))
	if out, ok := c.cache.Get(key); ok {
		return out.point, out.err
	}

	out := c.lookupLive(ctx, place)
	c.cache.Add(key, out)
	return out.point, out.err
}

func (c *Client) lookupLive(ctx context.Context, place string) outcome {
	if !c.probe(ctx) {
		return outcome{err: ErrNoConnectivity}
	}
	// The upstream service rate-limits clients; pause after every live call.
	defer c.pause(ctx)

	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return outcome{err: errors.Wrap(err, "build geocoding request")}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return outcome{err: errors.Wrap(err, "geocoding request failed")}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return outcome{err: errors.Newf("geocoding service returned status %d", resp.StatusCode)}
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return outcome{err: errors.Wrap(err, "decode geocoding response")}
	}
	if len(results) == 0 {
		return outcome{err: ErrNoResults}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return outcome{err: errors.Wrap(err, "parse geocoding latitude")}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return outcome{err: errors.Wrap(err, "parse geocoding longitude")}
	}
	return outcome{point: Point{Lat: lat, Lon: lon}}
}

func (c *Client) pause(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
