package domain

import "errors"

// ErrorKind classifies every recoverable failure in the pipeline. Each
// kind is captured into a typed result field rather than propagated as a
// fault (see SourceError and the recommender's terminal reasons).
type ErrorKind string

const (
	ErrKindMissingCredentials     ErrorKind = "missing_credentials"
	ErrKindSourceUnavailable      ErrorKind = "source_unavailable"
	ErrKindNoMatch                ErrorKind = "no_match"
	ErrKindParseFailure           ErrorKind = "parse_failure"
	ErrKindCurrentTrackMissing    ErrorKind = "current_track_metadata_missing"
	ErrKindNoCompatibleCandidates ErrorKind = "no_compatible_candidates"
)

// ErrEmptyBatch is the programming-contract violation for an empty or
// invalid input list. It fails fast before any work is dispatched.
var ErrEmptyBatch = errors.New("domain: enrichment batch must contain at least one track")

// ErrNotFound indicates a requested entity does not exist in a repository.
var ErrNotFound = errors.New("domain: not found")
