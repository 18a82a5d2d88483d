package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// mockSource is a scriptable MetadataSource keyed by track title.
type mockSource struct {
	mu      sync.Mutex
	results map[string]domain.LookupResult
	calls   []string
}

func (m *mockSource) Lookup(ctx context.Context, title, artist string) domain.LookupResult {
	m.mu.Lock()
	m.calls = append(m.calls, title)
	m.mu.Unlock()
	if r, ok := m.results[title]; ok {
		return r
	}
	return domain.LookupResult{Err: &domain.SourceError{Kind: domain.ErrKindNoMatch}}
}

// mockSearcher is a scriptable WebSearcher keyed by track title.
type mockSearcher struct {
	mu      sync.Mutex
	results map[string]domain.SearchResult
	calls   []string
}

func (m *mockSearcher) Search(ctx context.Context, title, artist string) domain.SearchResult {
	m.mu.Lock()
	m.calls = append(m.calls, title)
	m.mu.Unlock()
	if r, ok := m.results[title]; ok {
		return r
	}
	return domain.SearchResult{Err: &domain.SourceError{Kind: domain.ErrKindNoMatch}}
}

func okLookup(id string) domain.LookupResult {
	return domain.LookupResult{Matches: []domain.Match{
		{ID: id, Title: "Song " + id, Artist: "Artist", Tempo: 120, KeyLabel: "A minor"},
	}}
}

func okSearch() domain.SearchResult {
	return domain.SearchResult{Snippets: []domain.Snippet{
		{Text: "120 BPM in A minor", SourceURL: "https://example.com"},
	}}
}

func TestEnricherBatchCompleteness(t *testing.T) {
	tracks := []domain.TrackRef{
		{ID: "t1", Title: "Alpha", Artist: "A"},
		{ID: "t2", Title: "Beta", Artist: "B"},
		{ID: "t3", Title: "Gamma", Artist: "C"},
		{ID: "t4", Title: "Delta", Artist: "D"},
	}
	source := &mockSource{results: map[string]domain.LookupResult{
		"Alpha": okLookup("m1"),
	}}
	searcher := &mockSearcher{results: map[string]domain.SearchResult{
		"Beta": okSearch(),
	}}

	e := NewEnricher(source, searcher, 2)
	got, err := e.EnrichBatch(context.Background(), tracks)
	if err != nil {
		t.Fatalf("EnrichBatch returned error: %v", err)
	}
	if len(got) != len(tracks) {
		t.Fatalf("got %d outcomes, want %d", len(got), len(tracks))
	}

	// Outcomes are re-joined to the original track identity.
	for i, out := range got {
		if out.Track.ID != tracks[i].ID {
			t.Fatalf("outcome %d is for track %s, want %s", i, out.Track.ID, tracks[i].ID)
		}
	}

	if got[0].Source != domain.SourceStructured || got[0].Match == nil {
		t.Fatalf("Alpha should be structured, got %+v", got[0])
	}
	if got[1].Source != domain.SourceFallback || got[1].Web == nil {
		t.Fatalf("Beta should be fallback, got %+v", got[1])
	}
	for _, i := range []int{2, 3} {
		if got[i].Source != domain.SourceFailed || got[i].Err == nil {
			t.Fatalf("outcome %d should be failed with a typed error, got %+v", i, got[i])
		}
	}
}

func TestEnricherPrimaryWinSkipsFallback(t *testing.T) {
	source := &mockSource{results: map[string]domain.LookupResult{
		"Alpha": okLookup("m1"),
	}}
	searcher := &mockSearcher{}

	e := NewEnricher(source, searcher, 1)
	_, err := e.EnrichBatch(context.Background(), []domain.TrackRef{{ID: "t1", Title: "Alpha", Artist: "A"}})
	if err != nil {
		t.Fatalf("EnrichBatch returned error: %v", err)
	}
	if len(searcher.calls) != 0 {
		t.Fatalf("fallback was invoked %d times for a structured hit", len(searcher.calls))
	}
}

func TestEnricherEmptyBatchFailsFast(t *testing.T) {
	e := NewEnricher(&mockSource{}, &mockSearcher{}, 2)

	if _, err := e.EnrichBatch(context.Background(), nil); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("empty batch: got err %v, want ErrEmptyBatch", err)
	}

	blank := []domain.TrackRef{{ID: "", Title: "Alpha"}}
	if _, err := e.EnrichBatch(context.Background(), blank); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("blank id: got err %v, want ErrEmptyBatch", err)
	}
}

func TestEnricherCanceledBatchIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnricher(&mockSource{}, &mockSearcher{}, 2)
	got, err := e.EnrichBatch(ctx, []domain.TrackRef{{ID: "t1", Title: "Alpha", Artist: "A"}})
	if err == nil {
		t.Fatal("expected error for canceled batch")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got err %v, want context.Canceled", err)
	}
	if got != nil {
		t.Fatalf("canceled batch must not return partial results, got %d", len(got))
	}
}

// gatedSource records the peak number of concurrent lookups.
type gatedSource struct {
	inFlight int32
	peak     int32
	release  chan struct{}
}

func (g *gatedSource) Lookup(ctx context.Context, title, artist string) domain.LookupResult {
	current := atomic.AddInt32(&g.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&g.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&g.peak, peak, current) {
			break
		}
	}
	<-g.release
	atomic.AddInt32(&g.inFlight, -1)
	return okLookup("m")
}

func TestEnricherRespectsWorkerBound(t *testing.T) {
	const workers = 2
	source := &gatedSource{release: make(chan struct{})}

	tracks := make([]domain.TrackRef, 6)
	for i := range tracks {
		tracks[i] = domain.TrackRef{ID: string(rune('a' + i)), Title: "T", Artist: "A"}
	}

	e := NewEnricher(source, &mockSearcher{}, workers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := e.EnrichBatch(context.Background(), tracks); err != nil {
			t.Errorf("EnrichBatch returned error: %v", err)
		}
	}()

	close(source.release)
	<-done

	if peak := atomic.LoadInt32(&source.peak); peak > workers {
		t.Fatalf("observed %d concurrent lookups, bound is %d", peak, workers)
	}
}

// panicSource panics on one title to prove a unit failure never takes the
// batch down.
type panicSource struct{}

func (panicSource) Lookup(ctx context.Context, title, artist string) domain.LookupResult {
	if title == "Boom" {
		panic("adapter bug")
	}
	return okLookup("m1")
}

func TestEnricherShieldsPanics(t *testing.T) {
	e := NewEnricher(panicSource{}, &mockSearcher{}, 2)
	tracks := []domain.TrackRef{
		{ID: "t1", Title: "Alpha", Artist: "A"},
		{ID: "t2", Title: "Boom", Artist: "B"},
	}

	got, err := e.EnrichBatch(context.Background(), tracks)
	if err != nil {
		t.Fatalf("EnrichBatch returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(got))
	}
	if got[1].Source != domain.SourceFailed || got[1].Err == nil {
		t.Fatalf("panicking unit should settle as failed, got %+v", got[1])
	}
	if got[0].Source != domain.SourceStructured {
		t.Fatalf("healthy unit should still succeed, got %+v", got[0])
	}
}
