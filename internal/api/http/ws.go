package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/locate"
	"github.com/AzadehZam/ev-station-finder/internal/search"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

// clientMessage is one frame from the browser: new criteria on every
// keystroke or facet change, and optionally a position update.
type clientMessage struct {
	Criteria *stations.Criteria `json:"criteria"`
	Location *geo.Point         `json:"location"`
}

// searchFrame is one pushed result set.
type searchFrame struct {
	Count   int                     `json:"count"`
	Results []stations.SearchResult `json:"results"`
}

func upgradeGuard(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// watchHandler runs the live search socket: a Session per connection,
// debounced text edits, immediate facet changes, and a re-push when
// the snapshot refreshes underneath.
func watchHandler(deps Deps) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		deps.Metrics.WatchSessions.Inc()
		defer deps.Metrics.WatchSessions.Dec()

		user := initialLocation(conn)
		session := search.NewSession(search.Config{
			Snapshot: deps.Snapshot,
			Notifier: deps.Coordinator,
			Unit:     deps.Unit,
			Debounce: deps.Debounce,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
			Metrics:  deps.Metrics,
		}, user, stations.DefaultCriteria())
		defer session.Close()

		stop := make(chan struct{})
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for {
				select {
				case <-stop:
					return
				case results := <-session.Results():
					if err := conn.WriteJSON(searchFrame{Count: len(results), Results: results}); err != nil {
						return
					}
				}
			}
		}()

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			if msg.Location != nil && msg.Location.Valid() {
				p := *msg.Location
				session.SetLocation(&p)
			}
			if msg.Criteria != nil {
				session.Update(*msg.Criteria)
			}
		}

		close(stop)
		<-writerDone
	})
}

// initialLocation reads lat/lng from the upgrade request, falling back
// to the default area when they are absent or malformed.
func initialLocation(conn *websocket.Conn) *geo.Point {
	latStr, lngStr := conn.Query("lat"), conn.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			p := geo.Point{Lat: lat, Lng: lng}
			if p.Valid() {
				return &p
			}
		}
	}
	p := locate.DefaultLocation
	return &p
}
