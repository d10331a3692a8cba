package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AzadehZam/ev-station-finder/internal/geo"
)

type AppConfig struct {
	// Station directory API. When BaseURL is empty the server falls
	// back to the fixture file.
	UpstreamBaseURL  string
	UpstreamAPIToken string
	FixturePath      string
	HTTPTimeout      time.Duration

	// RefreshInterval controls the silent refresh cadence while live
	// updates are on.
	RefreshInterval time.Duration
	LiveUpdates     bool

	// Search behavior.
	SearchDebounce time.Duration
	DisplayUnits   geo.DisplayUnit

	// Default reference point and upstream query radius, used until a
	// client supplies its own position.
	DefaultLat     float64
	DefaultLng     float64
	SearchRadiusKm float64

	// GeocoderAPIKey enables free-text place lookups when set.
	GeocoderAPIKey string

	LogLevel  string
	LogFormat string

	Port            string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.UpstreamBaseURL = os.Getenv("UPSTREAM_BASE_URL")
	cfg.UpstreamAPIToken = os.Getenv("UPSTREAM_API_TOKEN")
	cfg.FixturePath = os.Getenv("FIXTURE_PATH")
	if cfg.UpstreamBaseURL == "" && cfg.FixturePath == "" {
		return nil, fmt.Errorf("no station source: set UPSTREAM_BASE_URL or FIXTURE_PATH")
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	// Silent refresh cadence: default 30 seconds.
	interval, err := getenvDuration("REFRESH_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = interval
	cfg.LiveUpdates = getenvBool("LIVE_UPDATES", true)

	debounce, err := getenvDuration("SEARCH_DEBOUNCE", "300ms")
	if err != nil {
		return nil, err
	}
	cfg.SearchDebounce = debounce

	// The historical frontend showed distances in the miles convention.
	units, err := geo.ParseDisplayUnit(getenvDefault("DISPLAY_UNITS", "miles"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_UNITS: %w", err)
	}
	cfg.DisplayUnits = units

	// Downtown Vancouver, the fallback when geolocation is unavailable.
	cfg.DefaultLat, err = getenvFloat("DEFAULT_LAT", 49.2827)
	if err != nil {
		return nil, err
	}
	cfg.DefaultLng, err = getenvFloat("DEFAULT_LNG", -123.1207)
	if err != nil {
		return nil, err
	}
	cfg.SearchRadiusKm, err = getenvFloat("SEARCH_RADIUS_KM", 25)
	if err != nil {
		return nil, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	cfg.Port = getenvDefault("PORT", "8080")

	shutdown, err := getenvDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = shutdown

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
