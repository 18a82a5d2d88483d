package ports

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// MetadataSource is the structured lookup adapter. It never returns a Go
// error: network failures, missing credentials and empty result sets are
// all folded into the result's typed error variant.
type MetadataSource interface {
	Lookup(ctx context.Context, title, artist string) domain.LookupResult
}

// WebSearcher is the unstructured fallback adapter. Like MetadataSource,
// every failure mode is a typed result, never a fault.
type WebSearcher interface {
	Search(ctx context.Context, title, artist string) domain.SearchResult
}
