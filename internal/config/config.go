// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs at startup. Source
// credentials are optional: an adapter without credentials degrades to
// typed missing-credentials results instead of blocking the pipeline.
type Config struct {
	Addr   string
	DBPath string

	// Enrichment worker-pool size; tuned to the tightest external rate
	// limit among the sources.
	EnrichWorkers int

	GetSongBPMAPIKey  string
	GetSongBPMBaseURL string

	GoogleSearchAPIKey string
	GoogleSearchCX     string
	GoogleSearchURL    string

	SpotifyClientID     string
	SpotifyClientSecret string
}

// Load reads the environment (and .env when present) and validates the
// result.
func Load() (Config, error) {
	// A missing .env is the normal case in production.
	if err := godotenv.Load(); err == nil {
		log.Println("DEBUG config: loaded .env file")
	}

	cfg := Config{
		Addr:                getenvDefault("ADDR", ":8080"),
		DBPath:              getenvDefault("DB_PATH", "segue.db"),
		EnrichWorkers:       5,
		GetSongBPMAPIKey:    os.Getenv("GETSONGBPM_API_KEY"),
		GetSongBPMBaseURL:   getenvDefault("GETSONGBPM_BASE_URL", "https://api.getsongbpm.com"),
		GoogleSearchAPIKey:  os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleSearchCX:      os.Getenv("GOOGLE_SEARCH_CX"),
		GoogleSearchURL:     getenvDefault("GOOGLE_SEARCH_URL", "https://www.googleapis.com/customsearch/v1"),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
	}

	if raw := os.Getenv("ENRICH_WORKERS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Config{}, fmt.Errorf("config: ENRICH_WORKERS must be a positive integer, got %q", raw)
		}
		cfg.EnrichWorkers = parsed
	}

	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("config: DB_PATH must not be empty")
	}

	if cfg.GetSongBPMAPIKey == "" {
		log.Println("WARN config: GETSONGBPM_API_KEY not set; structured lookups will degrade")
	}
	if cfg.GoogleSearchAPIKey == "" || cfg.GoogleSearchCX == "" {
		log.Println("WARN config: web search credentials not set; fallback lookups will degrade")
	}

	return cfg, nil
}

// SpotifyConfigured reports whether the library provider can be wired.
func (c Config) SpotifyConfigured() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
