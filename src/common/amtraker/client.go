package amtraker

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Amtraker v3 endpoint.
const DefaultBaseURL = "https://api-v3.amtraker.com/v3"

// Client calls the Amtraker API. It carries only immutable configuration,
// holds no connection state between calls, and is safe for concurrent use.
// Each operation performs exactly one GET; there are no retries and no
// caching, so callers decide their own backoff policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client pointed at the production endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL returns a client pointed at the given endpoint. This
// is also how tests point the client at a local mock server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Trains lists every train currently tracked, keyed by train number.
func (c *Client) Trains(ctx context.Context) (TrainsByNumber, error) {
	body, err := c.get(ctx, "/trains")
	if err != nil {
		return nil, err
	}
	return UnmarshalTrains(body)
}

// TrainsDebug is Trains with path-annotated decode errors carrying the raw
// response body. Intended for troubleshooting schema drift, never required
// in production.
func (c *Client) TrainsDebug(ctx context.Context) (TrainsByNumber, error) {
	body, err := c.get(ctx, "/trains")
	if err != nil {
		return nil, err
	}
	return UnmarshalTrainsDebug(body)
}

// Train looks up a single train by trainID or train number; the service
// disambiguates. The result may hold zero, one, or several trains under the
// matching number.
func (c *Client) Train(ctx context.Context, identifier string) (TrainsByNumber, error) {
	body, err := c.get(ctx, "/trains/"+url.PathEscape(identifier))
	if err != nil {
		return nil, err
	}
	return UnmarshalTrains(body)
}

// TrainDebug is Train with path-annotated decode errors.
func (c *Client) TrainDebug(ctx context.Context, identifier string) (TrainsByNumber, error) {
	body, err := c.get(ctx, "/trains/"+url.PathEscape(identifier))
	if err != nil {
		return nil, err
	}
	return UnmarshalTrainsDebug(body)
}

// Stations lists every station in the network, keyed by station code.
func (c *Client) Stations(ctx context.Context) (StationsByCode, error) {
	body, err := c.get(ctx, "/stations")
	if err != nil {
		return nil, err
	}
	return UnmarshalStations(body)
}

// StationsDebug is Stations with path-annotated decode errors.
func (c *Client) StationsDebug(ctx context.Context) (StationsByCode, error) {
	body, err := c.get(ctx, "/stations")
	if err != nil {
		return nil, err
	}
	return UnmarshalStationsDebug(body)
}

// Station looks up a single station by code. An unknown code yields an
// empty mapping, not an error.
func (c *Client) Station(ctx context.Context, code string) (StationsByCode, error) {
	body, err := c.get(ctx, "/stations/"+url.PathEscape(code))
	if err != nil {
		return nil, err
	}
	return UnmarshalStations(body)
}

// StationDebug is Station with path-annotated decode errors.
func (c *Client) StationDebug(ctx context.Context, code string) (StationsByCode, error) {
	body, err := c.get(ctx, "/stations/"+url.PathEscape(code))
	if err != nil {
		return nil, err
	}
	return UnmarshalStationsDebug(body)
}

// get performs one round trip and buffers the full body. Transport-level
// failures, including caller cancellation, come back as *RequestError; a
// non-200 status comes back as *APIError with the body text as the message.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
