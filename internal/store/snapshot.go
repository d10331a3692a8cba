package store

import (
	"errors"
	"sync"

	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

var (
	// ErrEmpty is returned before the first snapshot commit lands.
	ErrEmpty = errors.New("no station snapshot yet")

	// ErrNotFound is returned when a station id is not in the snapshot.
	ErrNotFound = errors.New("station not found")
)

// Snapshot is a concurrency-safe holder for the latest station
// collection. Refreshes replace the contents wholesale; a generation
// counter arbitrates between overlapping refreshes so the most
// recently started fetch always wins, regardless of completion order.
type Snapshot struct {
	mu       sync.RWMutex
	stations []stations.Station
	byID     map[string]int

	issued    uint64 // most recently issued generation
	committed uint64 // generation of the current contents
}

// NewSnapshot creates an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		byID: make(map[string]int),
	}
}

// Issue reserves the next fetch generation. Every refresh draws a
// generation before fetching and presents it at commit time.
func (s *Snapshot) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Commit installs the collection fetched under gen. It reports false,
// leaving the contents untouched, when a newer generation has been
// issued since; the caller discards the stale result.
func (s *Snapshot) Commit(gen uint64, list []stations.Station) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued {
		return false
	}

	s.stations = list
	s.byID = make(map[string]int, len(list))
	for i, st := range list {
		s.byID[st.ID] = i
	}
	s.committed = gen
	return true
}

// Stations returns a copy of the current collection. The Station
// values share underlying connector and amenity arrays; callers treat
// them as read-only.
func (s *Snapshot) Stations() ([]stations.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.committed == 0 {
		return nil, ErrEmpty
	}
	out := make([]stations.Station, len(s.stations))
	copy(out, s.stations)
	return out, nil
}

// Station looks up one station by id.
func (s *Snapshot) Station(id string) (stations.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.committed == 0 {
		return stations.Station{}, ErrEmpty
	}
	i, ok := s.byID[id]
	if !ok {
		return stations.Station{}, ErrNotFound
	}
	return s.stations[i], nil
}

// Len reports the station count of the current snapshot.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.stations)
}
