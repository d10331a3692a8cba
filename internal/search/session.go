// Package search runs the interactive search loop for one client. A
// Session holds the client's criteria and location, debounces text
// edits, applies facet changes immediately, and re-runs the committed
// criteria whenever a fresh station snapshot lands. Results are
// published on a one-slot channel where a newer frame replaces an
// unread older one, so a slow consumer always sees the latest state.
package search

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
	"github.com/AzadehZam/ev-station-finder/internal/store"
)

// DefaultDebounce is the text-edit settle time.
const DefaultDebounce = 300 * time.Millisecond

// Notifier delivers snapshot-commit signals. The refresh coordinator
// implements it.
type Notifier interface {
	Subscribe() (<-chan struct{}, func())
}

// Config carries the session dependencies.
type Config struct {
	Snapshot *store.Snapshot
	Notifier Notifier
	Unit     geo.DisplayUnit
	Debounce time.Duration
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Session is one client's live search. Not safe for concurrent Update
// calls from multiple goroutines per client; each connection owns one
// Session.
type Session struct {
	cfg      Config
	debounce time.Duration

	mu       sync.Mutex
	criteria stations.Criteria
	user     *geo.Point
	pending  *stations.Criteria
	timer    clockwork.Timer
	closed   bool

	results chan []stations.SearchResult
	done    chan struct{}
	unsub   func()
}

// NewSession starts a session with the given criteria and runs the
// first search before returning, so a result frame is already
// available to the consumer.
func NewSession(cfg Config, user *geo.Point, initial stations.Criteria) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	s := &Session{
		cfg:      cfg,
		debounce: cfg.Debounce,
		criteria: initial,
		user:     user,
		results:  make(chan []stations.SearchResult, 1),
		done:     make(chan struct{}),
	}

	if cfg.Notifier != nil {
		ch, unsub := cfg.Notifier.Subscribe()
		s.unsub = unsub
		go s.watchSnapshot(ch)
	}

	s.run(initial)
	return s
}

// Results returns the frame channel. It is never closed; consumers
// stop reading after Close.
func (s *Session) Results() <-chan []stations.SearchResult {
	return s.results
}

// Criteria returns the committed criteria, excluding any text edit
// still waiting out its debounce.
func (s *Session) Criteria() stations.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Update applies new criteria. A change to the search text arms (or
// re-arms) the debounce timer; any other change commits and runs
// immediately, dropping a pending text edit in favor of the newer
// state.
func (s *Session) Update(c stations.Criteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if c.SearchText != s.criteria.SearchText {
		cc := c
		s.pending = &cc
		if s.timer != nil {
			s.timer.Reset(s.debounce)
		} else {
			s.timer = s.cfg.Clock.AfterFunc(s.debounce, s.fire)
		}
		s.mu.Unlock()
		return
	}

	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.criteria = c
	s.mu.Unlock()

	s.run(c)
}

// SetLocation changes the reference point and re-runs the committed
// criteria. A nil point drops distances from the results.
func (s *Session) SetLocation(p *geo.Point) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.user = p
	c := s.criteria
	s.mu.Unlock()

	s.run(c)
}

// Close stops the timer, detaches from the notifier, and ends the
// snapshot watch goroutine. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	if s.unsub != nil {
		s.unsub()
	}
	close(s.done)
}

// fire commits the debounced text edit.
func (s *Session) fire() {
	s.mu.Lock()
	if s.closed || s.pending == nil {
		s.mu.Unlock()
		return
	}
	c := *s.pending
	s.pending = nil
	s.criteria = c
	s.mu.Unlock()

	s.run(c)
}

func (s *Session) watchSnapshot(ch <-chan struct{}) {
	for {
		select {
		case <-s.done:
			return
		case <-ch:
			s.mu.Lock()
			closed := s.closed
			c := s.criteria
			s.mu.Unlock()
			if closed {
				return
			}
			s.run(c)
		}
	}
}

func (s *Session) run(c stations.Criteria) {
	list, err := s.cfg.Snapshot.Stations()
	if err != nil {
		// Nothing loaded yet; an empty frame keeps the client's view
		// consistent until the first commit lands.
		s.publish([]stations.SearchResult{})
		return
	}

	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	start := s.cfg.Clock.Now()
	results := stations.Search(list, c, user, s.cfg.Unit)
	s.cfg.Metrics.SearchTotal.Inc()
	s.cfg.Metrics.SearchDuration.Observe(s.cfg.Clock.Since(start).Seconds())
	s.cfg.Logger.Debug("search executed", "text", c.SearchText, "results", len(results))

	s.publish(results)
}

// publish puts the frame in the one-slot channel, replacing an unread
// older frame rather than blocking.
func (s *Session) publish(results []stations.SearchResult) {
	for {
		select {
		case s.results <- results:
			return
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}
