package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("ENRICH_WORKERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "segue.db" {
		t.Fatalf("DBPath = %q, want segue.db", cfg.DBPath)
	}
	if cfg.EnrichWorkers != 5 {
		t.Fatalf("EnrichWorkers = %d, want 5", cfg.EnrichWorkers)
	}
}

func TestLoadWorkerOverride(t *testing.T) {
	t.Setenv("ENRICH_WORKERS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnrichWorkers != 3 {
		t.Fatalf("EnrichWorkers = %d, want 3", cfg.EnrichWorkers)
	}
}

func TestLoadRejectsBadWorkerCount(t *testing.T) {
	for _, raw := range []string{"0", "-2", "many"} {
		t.Setenv("ENRICH_WORKERS", raw)
		if _, err := Load(); err == nil {
			t.Fatalf("ENRICH_WORKERS=%q should fail validation", raw)
		}
	}
}

func TestSpotifyConfigured(t *testing.T) {
	cfg := Config{SpotifyClientID: "id", SpotifyClientSecret: "secret"}
	if !cfg.SpotifyConfigured() {
		t.Fatal("both credentials set should report configured")
	}
	cfg.SpotifyClientSecret = ""
	if cfg.SpotifyConfigured() {
		t.Fatal("partial credentials should not report configured")
	}
}
