package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

// BackoffConfig controls exponential retry delays.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles the HTTP client with its retry policy.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// defaultBackoff keeps a full retry run well inside one refresh cycle.
func defaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience executes the request with retries,
// exponential backoff, and a circuit breaker. Rate limits and 5xx
// responses are retryable; an open circuit fails fast without
// consuming retry budget.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (any, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if stErr := classifyStatus(resp.StatusCode); stErr != nil {
				drain(resp)
				return nil, stErr
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		if !waitBackoff(ctx, retryDelay(cfg.Backoff, attempt)) {
			return nil, ctx.Err()
		}
		attempt++
	}
}

// classifyStatus maps a response status onto a retryable error, or nil
// for 2xx.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return errServerError
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", errUnexpected, code)
	}
	return nil
}

// retryDelay doubles the initial interval per attempt, capped at
// MaxInterval.
func retryDelay(b BackoffConfig, attempt int) time.Duration {
	delay := b.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
	if b.MaxInterval > 0 && delay > b.MaxInterval {
		delay = b.MaxInterval
	}
	return delay
}

func waitBackoff(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// drain discards and closes a response body so the underlying
// connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// envelope is the wrapper every stations API payload uses.
type envelope struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Error   string            `json:"error"`
}

// decodeEnvelope unwraps a success/data/error payload. A success=false
// body is an error regardless of HTTP status.
func decodeEnvelope(r io.Reader, what string) ([]json.RawMessage, error) {
	var payload envelope
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = "unspecified error"
		}
		return nil, fmt.Errorf("%s reported failure: %s", what, msg)
	}
	return payload.Data, nil
}

// decodeBatch runs the strict record decode, reporting rejects without
// failing the batch.
func decodeBatch(raw []json.RawMessage, logger *slog.Logger, metrics *observability.Metrics, source string) []stations.Station {
	list, rejects := stations.DecodeStations(raw)
	for _, err := range rejects {
		logger.Warn("dropping malformed station record", "source", source, "error", err)
	}
	if len(rejects) > 0 {
		metrics.DecodeRejects.Add(float64(len(rejects)))
	}
	return list
}
