package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// DefaultWorkers matches the most conservative rate limit among the
// external sources.
const DefaultWorkers = 5

// Enricher fans a batch of tracks out through a bounded worker pool,
// applying the primary→fallback source policy per track. It always
// produces exactly one outcome per input track; individual lookup
// failures never abort or starve the batch.
type Enricher struct {
	primary  ports.MetadataSource
	fallback ports.WebSearcher
	workers  int
}

// NewEnricher constructs an Enricher with the given pool size.
func NewEnricher(primary ports.MetadataSource, fallback ports.WebSearcher, workers int) *Enricher {
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		primary:  primary,
		fallback: fallback,
		workers:  workers,
	}
}

// EnrichBatch enriches every track and returns exactly len(tracks)
// outcomes, re-joined to the input order. The only errors are contract
// violations (empty batch, blank track id) and caller cancellation; a
// canceled batch is discarded wholesale, never partially returned.
func (e *Enricher) EnrichBatch(ctx context.Context, tracks []domain.TrackRef) ([]domain.EnrichedTrack, error) {
	if len(tracks) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	for i, t := range tracks {
		if t.ID == "" || t.Title == "" {
			return nil, fmt.Errorf("enricher: track at index %d has empty id or title: %w", i, domain.ErrEmptyBatch)
		}
	}

	results := make([]domain.EnrichedTrack, len(tracks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker writes only its own index; no shared state.
				results[i] = e.enrichOne(ctx, tracks[i])
			}
		}()
	}

	for i := range tracks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enricher: batch abandoned: %w", err)
	}
	return results, nil
}

// enrichOne runs the primary→fallback policy for a single track. It never
// returns a fault: panics and adapter failures settle as "failed" outcomes.
func (e *Enricher) enrichOne(ctx context.Context, track domain.TrackRef) (out domain.EnrichedTrack) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARN enricher: lookup for track %s panicked: %v", track.ID, r)
			out = domain.EnrichedTrack{
				Track:  track,
				Source: domain.SourceFailed,
				Err: &domain.SourceError{
					Kind:       domain.ErrKindSourceUnavailable,
					Suggestion: "Retry the batch later",
				},
			}
		}
	}()

	if ctx.Err() != nil {
		return domain.EnrichedTrack{
			Track:  track,
			Source: domain.SourceFailed,
			Err: &domain.SourceError{
				Kind:       domain.ErrKindSourceUnavailable,
				Suggestion: "Batch was canceled before this track was processed",
			},
		}
	}

	lookup := e.primary.Lookup(ctx, track.Title, track.Artist)
	if lookup.OK() {
		// First match wins: the adapter orders matches best-first.
		match := lookup.Matches[0]
		return domain.EnrichedTrack{
			Track:  track,
			Source: domain.SourceStructured,
			Match:  &match,
		}
	}

	search := e.fallback.Search(ctx, track.Title, track.Artist)
	if search.OK() {
		return domain.EnrichedTrack{
			Track:  track,
			Source: domain.SourceFallback,
			Web:    &search,
		}
	}

	srcErr := search.Err
	if srcErr == nil {
		srcErr = lookup.Err
	}
	if srcErr == nil {
		srcErr = &domain.SourceError{
			Kind:       domain.ErrKindNoMatch,
			Suggestion: "Try being more specific with both song and artist names",
		}
	}
	return domain.EnrichedTrack{
		Track:  track,
		Source: domain.SourceFailed,
		Err:    srcErr,
	}
}
