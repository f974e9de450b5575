package services

import "context"

// IDHasher derives an opaque public identifier from a raw user identifier.
type IDHasher interface {
	Hash(ctx context.Context, raw string) string
}

// ReputationSource supplies a user's reputation score. The scoring algorithm
// lives outside this service.
type ReputationSource interface {
	Reputation(ctx context.Context, userID string) (float64, error)
}

// PermissionChecker reports whether a user may submit to a category. The
// eligibility computation lives outside this service.
type PermissionChecker interface {
	CanSubmit(ctx context.Context, userID, category string) (bool, error)
}

// StaticReputation is a ReputationSource returning a fixed score, used until
// the external scorer is wired.
type StaticReputation float64

func (r StaticReputation) Reputation(ctx context.Context, userID string) (float64, error) {
	return float64(r), nil
}

// OpenSubmissions is a PermissionChecker that allows every category, used
// until the external permission service is wired.
type OpenSubmissions struct{}

func (OpenSubmissions) CanSubmit(ctx context.Context, userID, category string) (bool, error) {
	return true, nil
}
