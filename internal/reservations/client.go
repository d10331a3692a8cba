// Package reservations forwards charging-session reservation calls to
// the upstream ledger. It is a thin passthrough: no booking rules, no
// state machine, no retries. Each mutation carries an idempotency key
// so the upstream can deduplicate.
package reservations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

var validate = validator.New()

// Reservation mirrors the upstream ledger record.
type Reservation struct {
	ID        string    `json:"id"`
	StationID string    `json:"stationId"`
	UserID    string    `json:"userId,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`
}

// Request is a reservation creation payload.
type Request struct {
	StationID string    `json:"stationId" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
}

// Client calls the reservation API. Mutations are sent once; the
// circuit breaker is the only resilience layer because a blind retry
// of a non-idempotent upstream could double-book.
type Client struct {
	baseURL string
	httpc   *http.Client
	circuit *gobreaker.CircuitBreaker
	token   string
	logger  *slog.Logger
}

func New(client *http.Client, baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "reservations-api",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		token:  token,
		logger: logger,
	}
}

// Create books a reservation. An empty idempotencyKey gets a fresh
// uuid, so every user action maps to exactly one upstream booking even
// if the frontend resubmits.
func (c *Client) Create(ctx context.Context, req Request, idempotencyKey string) (Reservation, error) {
	if err := validate.Struct(req); err != nil {
		return Reservation{}, fmt.Errorf("invalid reservation request: %w", err)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Reservation{}, fmt.Errorf("encode reservation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reservations", bytes.NewReader(body))
	if err != nil {
		return Reservation{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	raw, err := c.send(httpReq)
	if err != nil {
		return Reservation{}, err
	}

	var r Reservation
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reservation{}, fmt.Errorf("decode reservation: %w", err)
	}
	c.logger.Info("reservation created", "station", req.StationID, "reservation", r.ID)
	return r, nil
}

// Cancel marks a reservation cancelled upstream. Whether the station
// or timeslot still exists is the upstream's concern.
func (c *Client) Cancel(ctx context.Context, id string) (Reservation, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.reservationURL(id)+"/cancel", nil)
	if err != nil {
		return Reservation{}, err
	}

	raw, err := c.send(httpReq)
	if err != nil {
		return Reservation{}, err
	}

	var r Reservation
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reservation{}, fmt.Errorf("decode reservation: %w", err)
	}
	c.logger.Info("reservation cancelled", "reservation", id)
	return r, nil
}

// Delete removes a reservation record upstream.
func (c *Client) Delete(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.reservationURL(id), nil)
	if err != nil {
		return err
	}

	if _, err := c.send(httpReq); err != nil {
		return err
	}
	c.logger.Info("reservation deleted", "reservation", id)
	return nil
}

func (c *Client) reservationURL(id string) string {
	return c.baseURL + "/api/reservations/" + url.PathEscape(id)
}

// send executes one attempt through the circuit breaker and unwraps
// the success/data/error envelope.
func (c *Client) send(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	result, err := c.circuit.Execute(func() (any, error) {
		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read reservation response: %w", err)
		}

		var env struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
			Error   string          `json:"error"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("reservation api: status %d: %w", resp.StatusCode, err)
		}
		if !env.Success {
			msg := env.Error
			if msg == "" {
				msg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			return nil, fmt.Errorf("reservation api: %s", msg)
		}
		return env.Data, nil
	})
	if err != nil {
		return nil, err
	}

	raw, _ := result.(json.RawMessage)
	return raw, nil
}
