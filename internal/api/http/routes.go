package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/locate"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/refresh"
	"github.com/AzadehZam/ev-station-finder/internal/reservations"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
	"github.com/AzadehZam/ev-station-finder/internal/store"
)

var validate = validator.New()

// ErrorHandler is the centralized error response for the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// Deps carries everything the handlers need. Reservations and
// Resolver are optional; their routes degrade gracefully when unset.
type Deps struct {
	Snapshot     *store.Snapshot
	Coordinator  *refresh.Coordinator
	Resolver     locate.Resolver
	Reservations *reservations.Client
	Unit         geo.DisplayUnit
	Debounce     time.Duration
	Clock        clockwork.Clock
	Logger       *slog.Logger
	Metrics      *observability.Metrics
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	// The watch route must precede /stations/:id so the literal
	// segment is not captured as an id.
	v1.Get("/stations/watch", upgradeGuard, watchHandler(deps))
	v1.Get("/stations", searchHandler(deps))
	v1.Get("/stations/:id", stationHandler(deps))

	v1.Post("/refresh", refreshHandler(deps))
	v1.Get("/status", statusHandler(deps))
	v1.Put("/live-updates", liveUpdatesHandler(deps))

	v1.Post("/reservations", createReservationHandler(deps))
	v1.Post("/reservations/:id/cancel", cancelReservationHandler(deps))
	v1.Delete("/reservations/:id", deleteReservationHandler(deps))
}

func searchHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		user := req.user
		warning := ""
		if user == nil && req.Near != "" {
			p, w := locate.ResolveOrDefault(c.UserContext(), deps.Resolver, req.Near, deps.Logger, deps.Metrics)
			user, warning = &p, w
		}

		list, err := deps.Snapshot.Stations()
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "station data not loaded yet")
		}

		start := deps.Clock.Now()
		results := stations.Search(list, req.criteria(), user, deps.Unit)
		deps.Metrics.SearchTotal.Inc()
		deps.Metrics.SearchDuration.Observe(deps.Clock.Since(start).Seconds())

		resp := fiber.Map{
			"count":   len(results),
			"results": results,
		}
		if warning != "" {
			resp["warning"] = warning
		}
		return c.JSON(resp)
	}
}

func stationHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := deps.Snapshot.Station(c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrEmpty) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "station data not loaded yet")
			}
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no station with requested id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load station")
		}
		return c.JSON(st)
	}
}

func refreshHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Coordinator.Refresh(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "refresh failed: "+err.Error())
		}
		return c.JSON(deps.Coordinator.Status())
	}
}

func statusHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Coordinator.Status())
	}
}

func liveUpdatesHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Enabled *bool `json:"enabled" validate:"required"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "enabled field is required")
		}

		if err := deps.Coordinator.SetLiveUpdates(*body.Enabled); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(deps.Coordinator.Status())
	}
}

func createReservationHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Reservations == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "reservations not configured")
		}

		var req reservations.Request
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := deps.Reservations.Create(c.UserContext(), req, c.Get("Idempotency-Key"))
		if err != nil {
			var verr validator.ValidationErrors
			if errors.As(err, &verr) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func cancelReservationHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Reservations == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "reservations not configured")
		}

		res, err := deps.Reservations.Cancel(c.UserContext(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(res)
	}
}

func deleteReservationHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Reservations == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "reservations not configured")
		}

		if err := deps.Reservations.Delete(c.UserContext(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// searchQuery holds the query parameters of the stations endpoint.
type searchQuery struct {
	Text          string
	Connectors    []string
	MinRating     float64 `validate:"gte=0,lte=5"`
	PriceMin      float64 `validate:"gte=0,lte=1"`
	PriceMax      float64 `validate:"gte=0,lte=1,gtefield=PriceMin"`
	MaxDistanceKm float64 `validate:"gte=0"`
	Sort          string  `validate:"oneof=distance price rating"`
	Near          string

	user *geo.Point
}

func (q *searchQuery) bind(c *fiber.Ctx) error {
	q.Text = c.Query("q")
	if cs := c.Query("connectors"); cs != "" {
		for _, part := range strings.Split(cs, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.Connectors = append(q.Connectors, part)
			}
		}
	}

	var err error
	if q.MinRating, err = floatQuery(c, "minRating", 0); err != nil {
		return err
	}
	if q.PriceMin, err = floatQuery(c, "priceMin", 0); err != nil {
		return err
	}
	if q.PriceMax, err = floatQuery(c, "priceMax", 1); err != nil {
		return err
	}
	if q.MaxDistanceKm, err = floatQuery(c, "maxDistanceKm", 0); err != nil {
		return err
	}
	q.Sort = c.Query("sort", string(stations.SortByDistance))
	q.Near = c.Query("near")

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	switch {
	case latStr != "" && lngStr != "":
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return fmt.Errorf("invalid lat: %w", err)
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return fmt.Errorf("invalid lng: %w", err)
		}
		p := geo.Point{Lat: lat, Lng: lng}
		if !p.Valid() {
			return errors.New("lat/lng out of range")
		}
		q.user = &p
	case latStr != "" || lngStr != "":
		return errors.New("lat and lng must be provided together")
	}

	return nil
}

func (q *searchQuery) criteria() stations.Criteria {
	return stations.Criteria{
		SearchText:     q.Text,
		ConnectorTypes: q.Connectors,
		MaxDistanceKm:  q.MaxDistanceKm,
		PriceRange:     [2]float64{q.PriceMin, q.PriceMax},
		MinRating:      q.MinRating,
		Sort:           stations.SortKey(q.Sort),
	}
}

func floatQuery(c *fiber.Ctx, key string, def float64) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
