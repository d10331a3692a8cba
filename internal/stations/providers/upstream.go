package providers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

// Client implements stations.Source against the EV finder directory
// API. Construct it explicitly and inject it; there are no package
// globals. The bearer token may change over the client's lifetime via
// SetToken and ClearToken.
type Client struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
	metrics *observability.Metrics

	mu    sync.RWMutex
	token string
}

func NewClient(client *http.Client, baseURL, token string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		name:    "ev-finder-api",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("ev-finder-api"),
		logger:  logger,
		metrics: metrics,
		token:   token,
	}
}

func (c *Client) Name() string {
	return c.name
}

// SetToken installs the bearer token sent on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token; subsequent requests go out
// unauthenticated.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Fetch retrieves the station collection for the query. The API wraps
// every response in a success/data/error envelope; success=false is an
// error even on HTTP 200. Individual records that fail validation are
// dropped with a warning rather than failing the batch.
func (c *Client) Fetch(ctx context.Context, q stations.Query) ([]stations.Station, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		if q.Near != nil {
			values.Set("lat", strconv.FormatFloat(q.Near.Lat, 'f', -1, 64))
			values.Set("lng", strconv.FormatFloat(q.Near.Lng, 'f', -1, 64))
		}
		if q.RadiusKm > 0 {
			values.Set("radius", strconv.FormatFloat(q.RadiusKm, 'f', -1, 64))
		}
		if q.SearchText != "" {
			values.Set("search", q.SearchText)
		}
		if len(q.ConnectorTypes) > 0 {
			values.Set("connectorTypes", strings.Join(q.ConnectorTypes, ","))
		}

		u := c.baseURL + "/api/stations"
		if enc := values.Encode(); enc != "" {
			u += "?" + enc
		}
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if token := c.bearer(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := decodeEnvelope(resp.Body, "station api")
	if err != nil {
		return nil, err
	}

	return decodeBatch(raw, c.logger, c.metrics, c.name), nil
}
