package ports

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// Session is one recommendation session: a reconciled batch plus the
// monotonically growing list of track ids already recommended. The engine
// never sees this type; the caller (the REST layer) owns it and derives
// the exclusion set from Recommended before each engine call.
type Session struct {
	ID          string
	Tracks      []domain.ReconciledTrack
	Recommended []string
}

// SessionRepository persists sessions across recommendation calls.
type SessionRepository interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	AppendRecommendation(ctx context.Context, sessionID, trackID string) error
}
