package providers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AzadehZam/ev-station-finder/internal/observability"
	"github.com/AzadehZam/ev-station-finder/internal/stations"
)

// Fixture implements stations.Source from a JSON file that uses the
// same envelope the live API returns. It exists for development and
// tests; cmd/genstations writes compatible files.
type Fixture struct {
	name    string
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewFixture(path string, logger *slog.Logger, metrics *observability.Metrics) *Fixture {
	return &Fixture{
		name:    "fixture",
		path:    path,
		logger:  logger,
		metrics: metrics,
	}
}

func (f *Fixture) Name() string {
	return f.name
}

// Fetch re-reads the file on every call so edits show up on the next
// refresh. The query is ignored; the search pipeline narrows results
// after the snapshot commit anyway.
func (f *Fixture) Fetch(ctx context.Context, _ stations.Query) ([]stations.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read station fixture: %w", err)
	}

	raw, err := decodeEnvelope(bytes.NewReader(data), "station fixture")
	if err != nil {
		return nil, err
	}

	return decodeBatch(raw, f.logger, f.metrics, f.name), nil
}
