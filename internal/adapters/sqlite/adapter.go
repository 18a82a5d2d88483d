// Package sqlite provides a SQLite-backed implementation of the session
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// Adapter implements the session repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.SessionRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS session_tracks (
		session_id   TEXT NOT NULL,
		position     INTEGER NOT NULL,
		track_id     TEXT NOT NULL,
		title        TEXT NOT NULL,
		artist       TEXT NOT NULL,
		bpm          REAL,
		key          TEXT,
		camelot_key  TEXT,
		energy       REAL,
		danceability REAL,
		confidence   TEXT NOT NULL,
		reasoning    TEXT NOT NULL,
		PRIMARY KEY (session_id, position),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE TABLE IF NOT EXISTS session_recommendations (
		session_id TEXT NOT NULL,
		position   INTEGER NOT NULL,
		track_id   TEXT NOT NULL,
		PRIMARY KEY (session_id, position),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);`

	_, err := a.db.Exec(schema)
	return err
}

// CreateSession persists a session and its reconciled batch atomically.
func (a *Adapter) CreateSession(ctx context.Context, s ports.Session) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT INTO sessions (id) VALUES (?)", s.ID); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, t := range s.Tracks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_tracks
				(session_id, position, track_id, title, artist, bpm, key, camelot_key, energy, danceability, confidence, reasoning)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, t.TrackID, t.Title, t.Artist,
			nullFloat(t.BPM), nullString(t.Key), nullString(t.CamelotKey),
			nullFloat(t.Energy), nullFloat(t.Danceability),
			string(t.Confidence), t.Reasoning,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session track: %w", err)
		}
	}

	return tx.Commit()
}

// GetSession loads a session's reconciled batch and recommendation
// history, both in insertion order.
func (a *Adapter) GetSession(ctx context.Context, id string) (ports.Session, error) {
	row := a.db.QueryRowContext(ctx, "SELECT id FROM sessions WHERE id = ?", id)
	var s ports.Session
	if err := row.Scan(&s.ID); err != nil {
		if err == sql.ErrNoRows {
			return ports.Session{}, domain.ErrNotFound
		}
		return ports.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	trackRows, err := a.db.QueryContext(ctx, `
		SELECT track_id, title, artist, bpm, key, camelot_key, energy, danceability, confidence, reasoning
		FROM session_tracks
		WHERE session_id = ?
		ORDER BY position ASC`, id)
	if err != nil {
		return ports.Session{}, fmt.Errorf("failed to load session tracks: %w", err)
	}
	defer trackRows.Close()

	for trackRows.Next() {
		var t domain.ReconciledTrack
		var bpm, energy, dance sql.NullFloat64
		var key, camelot sql.NullString
		var confidence string
		if err := trackRows.Scan(&t.TrackID, &t.Title, &t.Artist, &bpm, &key, &camelot, &energy, &dance, &confidence, &t.Reasoning); err != nil {
			return ports.Session{}, fmt.Errorf("failed to scan session track: %w", err)
		}
		t.BPM = floatPtr(bpm)
		t.Key = stringPtr(key)
		t.CamelotKey = stringPtr(camelot)
		t.Energy = floatPtr(energy)
		t.Danceability = floatPtr(dance)
		t.Confidence = domain.Confidence(confidence)
		s.Tracks = append(s.Tracks, t)
	}
	if err := trackRows.Err(); err != nil {
		return ports.Session{}, fmt.Errorf("failed to iterate session tracks: %w", err)
	}

	recRows, err := a.db.QueryContext(ctx, `
		SELECT track_id
		FROM session_recommendations
		WHERE session_id = ?
		ORDER BY position ASC`, id)
	if err != nil {
		return ports.Session{}, fmt.Errorf("failed to load recommendations: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var trackID string
		if err := recRows.Scan(&trackID); err != nil {
			return ports.Session{}, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		s.Recommended = append(s.Recommended, trackID)
	}
	if err := recRows.Err(); err != nil {
		return ports.Session{}, fmt.Errorf("failed to iterate recommendations: %w", err)
	}

	return s, nil
}

// AppendRecommendation records one more recommended track id at the end
// of the session's history.
func (a *Adapter) AppendRecommendation(ctx context.Context, sessionID, trackID string) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO session_recommendations (session_id, position, track_id)
		SELECT ?, COALESCE(MAX(position) + 1, 0), ?
		FROM session_recommendations
		WHERE session_id = ?`,
		sessionID, trackID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to append recommendation: %w", err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
