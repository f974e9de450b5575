package store

import (
	"context"

	"github.com/skipmark/skipmark-server/internal/model"
)

// Store exposes the read operations required by the aggregation services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// Methods taking a replicaOK argument may be served by a read replica when
// the driver has one configured; the hint is passed through per query rather
// than decided inside the driver.
type Store interface {
	Locks() Locks
	UserNames() UserNames
	Segments() Segments
	Warnings() Warnings
	Bans() Bans
	VIPs() VIPs
}

type Locks interface {
	// ListForVideo returns every lock row for the video, all categories.
	ListForVideo(ctx context.Context, videoID string) ([]model.LockRecord, error)
}

type UserNames interface {
	// Get returns the display name for a user, or model.ErrNotFound.
	Get(ctx context.Context, userID string) (string, error)
	// GetBatch resolves display names for the given set of user IDs in one
	// query. IDs without a stored name are absent from the result map.
	GetBatch(ctx context.Context, userIDs []string) (map[string]string, error)
}

type Segments interface {
	// SubmittedSummary scans the user's qualifying segments once and returns
	// the adjusted-duration-weighted minutes saved together with the segment
	// count. Per-segment reward time is clamped at maxRewardSeconds.
	SubmittedSummary(ctx context.Context, userID string, maxRewardSeconds float64, replicaOK bool) (model.SegmentSummary, error)
	// IgnoredCount counts downvoted or shadow-hidden segments.
	IgnoredCount(ctx context.Context, userID string, replicaOK bool) (int64, error)
	ViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error)
	IgnoredViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error)
	// LastSegmentID returns the UUID of the most recent submission, or
	// model.ErrNotFound when the user has none.
	LastSegmentID(ctx context.Context, userID string, replicaOK bool) (string, error)
	// HasReputableSubmissionBefore reports whether the user submitted a
	// positive-reputation segment before the given epoch-millisecond cutoff.
	HasReputableSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error)
	// HasSubmissionBefore reports whether the user submitted any segment
	// before the given epoch-millisecond cutoff.
	HasSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error)
}

type Warnings interface {
	CountActive(ctx context.Context, userID string, replicaOK bool) (int64, error)
	// LatestActiveReason returns the reason of the most recent active
	// warning, or "" when the user has none.
	LatestActiveReason(ctx context.Context, userID string, replicaOK bool) (string, error)
}

type Bans interface {
	IsShadowBanned(ctx context.Context, userID string, replicaOK bool) (bool, error)
}

type VIPs interface {
	IsVIP(ctx context.Context, userID string) (bool, error)
}
