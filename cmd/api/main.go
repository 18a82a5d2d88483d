package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/segue/internal/adapters/getsongbpm"
	"github.com/ewilliams-labs/segue/internal/adapters/rest"
	"github.com/ewilliams-labs/segue/internal/adapters/spotify"
	"github.com/ewilliams-labs/segue/internal/adapters/sqlite"
	"github.com/ewilliams-labs/segue/internal/adapters/websearch"
	"github.com/ewilliams-labs/segue/internal/config"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	sessionStore, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer sessionStore.Close()

	primary := getsongbpm.NewClient(nil, cfg.GetSongBPMBaseURL, cfg.GetSongBPMAPIKey)
	fallback := websearch.NewClient(nil, cfg.GoogleSearchURL, cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX)

	var library ports.LibraryProvider
	if cfg.SpotifyConfigured() {
		library = spotify.NewClient(context.Background(), cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	} else {
		log.Println("WARN: Spotify credentials not set; playlist routes disabled")
	}

	// 3. Initialize Core Logic
	enricher := services.NewEnricher(primary, fallback, cfg.EnrichWorkers)
	reconciler := services.NewReconciler()
	recommender := services.NewRecommender()

	// 4. Initialize the "Driving" Adapter (The Interface)
	handler := rest.NewHandler(enricher, reconciler, recommender, sessionStore, library)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎧 Segue API is running on http://localhost%s", cfg.Addr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
