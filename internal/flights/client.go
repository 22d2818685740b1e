// Package flights proxies flight lookups to the aviationstack API.
package flights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/metrics"
)

// Cache stores raw upstream lookups. Implemented by store.RedisCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
}

// Record is one element of the upstream "data" array. Any nested object or
// field may be absent.
type Record struct {
	FlightStatus *string   `json:"flight_status"`
	Flight       *flightID `json:"flight"`
	Departure    *endpoint `json:"departure"`
	Arrival      *endpoint `json:"arrival"`
	Airline      *airline  `json:"airline"`
	Live         *live     `json:"live"`
}

type flightID struct {
	IATA *string `json:"iata"`
}

type endpoint struct {
	Airport   *string `json:"airport"`
	Scheduled *string `json:"scheduled"`
}

type airline struct {
	Name *string `json:"name"`
}

type live struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type apiResponse struct {
	Data  []Record  `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client calls GET /v1/flights with an explicit timeout, a circuit breaker
// and an optional cache in front.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]Record]
	cache      Cache
}

// NewClient builds a client. cache may be nil.
func NewClient(baseURL, apiKey string, timeout time.Duration, cache Cache) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]Record](gobreaker.Settings{
		Name:        "flight-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A caller hanging up says nothing about the upstream.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c
}

// Lookup returns the upstream records for a flight IATA code and optional
// YYYY-MM-DD date. No records is a NotFound error.
func (c *Client) Lookup(ctx context.Context, flightIATA, flightDate string) ([]Record, error) {
	key := cacheKey(flightIATA, flightDate)

	if records, ok := c.fromCache(ctx, key); ok {
		return nonEmpty(records)
	}

	records, err := c.breaker.Execute(func() ([]Record, error) {
		return c.fetch(ctx, flightIATA, flightDate)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.FlightAPIRequestsTotal.WithLabelValues("rejected").Inc()
		}
		return nil, apperr.Upstream("Failed to fetch flight data", err)
	}

	c.toCache(ctx, key, records)
	return nonEmpty(records)
}

func nonEmpty(records []Record) ([]Record, error) {
	if len(records) == 0 {
		return nil, apperr.NotFound("No flight found for the given number")
	}
	return records, nil
}

func (c *Client) fetch(ctx context.Context, flightIATA, flightDate string) ([]Record, error) {
	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("flight_iata", flightIATA)
	if flightDate != "" {
		params.Set("flight_date", flightDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("flight-api: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.FlightAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FlightAPIRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("flight-api /v1/flights: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp); err != nil {
		metrics.FlightAPIRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.FlightAPIRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("flight-api /v1/flights: decode: %w", err)
	}
	if body.Error != nil {
		metrics.FlightAPIRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("flight-api /v1/flights: %s: %s", body.Error.Code, body.Error.Message)
	}

	metrics.FlightAPIRequestsTotal.WithLabelValues("ok").Inc()
	if body.Data == nil {
		body.Data = []Record{}
	}
	return body.Data, nil
}

// checkResp returns an error carrying the upstream body when the status is not 2xx.
func checkResp(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("flight-api /v1/flights returned %d: %s", resp.StatusCode, string(body))
}

func cacheKey(flightIATA, flightDate string) string {
	return strings.ToUpper(flightIATA) + ":" + flightDate
}

func (c *Client) fromCache(ctx context.Context, key string) ([]Record, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		metrics.FlightCacheRequestsTotal.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Str("key", key).Msg("flight cache read failed")
		return nil, false
	}
	if !ok {
		metrics.FlightCacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		metrics.FlightCacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.FlightCacheRequestsTotal.WithLabelValues("hit").Inc()
	return records, true
}

func (c *Client) toCache(ctx context.Context, key string, records []Record) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("flight cache write failed")
	}
}
