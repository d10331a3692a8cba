// Package refresh keeps the station snapshot current. It runs two
// kinds of refresh against the same fetch path: visible ones requested
// by a user, which surface their errors, and silent periodic ones,
// which only log. Overlapping refreshes are arbitrated by the
// snapshot's generation counter so the most recently started fetch
// wins regardless of completion order.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"

	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
	"github.com/AzadehZam/ev-station-finder/internal/store"
)

const (
	modeVisible = "visible"
	modeSilent  = "silent"

	// silentTimeout bounds a background fetch so a hung upstream
	// cannot pile up scheduler jobs.
	silentTimeout = 30 * time.Second
)

// Coordinator owns the refresh lifecycle for one station source.
type Coordinator struct {
	source   stations.Source
	snap     *store.Snapshot
	query    stations.Query
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	scheduler *gocron.Scheduler

	mu            sync.Mutex
	job           *gocron.Job
	refreshing    bool
	lastRefreshed time.Time
	lastErr       error

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Status is the coordinator state reported to clients.
type Status struct {
	Refreshing    bool       `json:"refreshing"`
	LiveUpdates   bool       `json:"liveUpdates"`
	LastRefreshed *time.Time `json:"lastRefreshed,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	StationCount  int        `json:"stationCount"`
}

// New creates a Coordinator. query is sent on every fetch; interval is
// the silent refresh cadence once live updates are enabled.
func New(
	source stations.Source,
	snap *store.Snapshot,
	query stations.Query,
	interval time.Duration,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Coordinator {
	return &Coordinator{
		source:    source,
		snap:      snap,
		query:     query,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		scheduler: gocron.NewScheduler(time.UTC),
		subs:      make(map[int]chan struct{}),
	}
}

// Start launches the scheduler and, when live is set, enables the
// periodic silent refresh.
func (c *Coordinator) Start(live bool) error {
	c.scheduler.StartAsync()
	if live {
		return c.SetLiveUpdates(true)
	}
	return nil
}

// Stop halts the scheduler and cancels any pending silent refreshes.
func (c *Coordinator) Stop() {
	c.scheduler.Stop()
}

// Refresh runs a user-requested refresh. The refreshing flag is up for
// its duration and a failure is recorded for status reporting as well
// as returned.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshing = true
	c.mu.Unlock()

	err := c.fetchOnce(ctx, modeVisible)

	c.mu.Lock()
	c.refreshing = false
	if err != nil {
		c.lastErr = err
	}
	c.mu.Unlock()

	return err
}

// refreshSilently is the scheduled job body. Failures are logged and
// counted but never surfaced; the previous snapshot stays in place.
func (c *Coordinator) refreshSilently() {
	ctx, cancel := context.WithTimeout(context.Background(), silentTimeout)
	defer cancel()

	if err := c.fetchOnce(ctx, modeSilent); err != nil {
		c.logger.Warn("background refresh failed", "source", c.source.Name(), "error", err)
	}
}

// fetchOnce draws a generation, fetches, and commits. A commit refused
// because a newer refresh started in the meantime is not an error; the
// stale result is simply dropped.
func (c *Coordinator) fetchOnce(ctx context.Context, mode string) error {
	start := c.clock.Now()
	gen := c.snap.Issue()

	list, err := c.source.Fetch(ctx, c.query)
	if err != nil {
		c.metrics.RefreshTotal.WithLabelValues(mode, "error").Inc()
		return fmt.Errorf("fetch stations: %w", err)
	}

	if !c.snap.Commit(gen, list) {
		c.metrics.StaleDrops.Inc()
		c.logger.Debug("discarding stale refresh", "mode", mode, "generation", gen)
		return nil
	}

	c.metrics.RefreshTotal.WithLabelValues(mode, "success").Inc()
	c.metrics.RefreshDuration.Observe(c.clock.Since(start).Seconds())
	c.metrics.StationsLoaded.Set(float64(len(list)))

	c.mu.Lock()
	c.lastRefreshed = c.clock.Now()
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("station snapshot committed", "mode", mode, "stations", len(list), "generation", gen)
	c.notify()
	return nil
}

// SetLiveUpdates schedules or removes the periodic silent refresh.
// Calling it with the current state is a no-op.
func (c *Coordinator) SetLiveUpdates(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enabled == (c.job != nil) {
		return nil
	}

	if !enabled {
		c.scheduler.RemoveByReference(c.job)
		c.job = nil
		c.metrics.LiveUpdates.Set(0)
		c.logger.Info("live updates disabled")
		return nil
	}

	seconds := int(c.interval.Seconds())
	if seconds <= 0 {
		seconds = 30
	}
	job, err := c.scheduler.Every(seconds).Seconds().Do(c.refreshSilently)
	if err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	c.job = job
	c.metrics.LiveUpdates.Set(1)
	c.logger.Info("live updates enabled", "interval", c.interval)
	return nil
}

// LiveUpdates reports whether the periodic refresh is scheduled.
func (c *Coordinator) LiveUpdates() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job != nil
}

// Status reports the current refresh state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Refreshing:   c.refreshing,
		LiveUpdates:  c.job != nil,
		StationCount: c.snap.Len(),
	}
	if !c.lastRefreshed.IsZero() {
		t := c.lastRefreshed
		st.LastRefreshed = &t
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Subscribe registers for snapshot-commit notifications. The channel
// carries at most one pending signal; a commit while one is pending is
// coalesced. The returned func unsubscribes.
func (c *Coordinator) Subscribe() (<-chan struct{}, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch

	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Coordinator) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
