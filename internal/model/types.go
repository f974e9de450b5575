package model

// LockRecord is one lock row for a (video, category) pair. At most one lock
// exists per pair; the reason is the human-readable justification entered by
// the locking user.
type LockRecord struct {
	VideoID  string
	Category string
	Reason   string
	UserID   string
}

// LockResult is the per-category answer of the lock-reason query. Categories
// without a lock are reported with Locked=0 and empty text fields.
type LockResult struct {
	Category string `json:"category"`
	Locked   int    `json:"locked"`
	Reason   string `json:"reason"`
	UserID   string `json:"userID"`
	UserName string `json:"userName"`
}

// SegmentSummary aggregates a user's qualifying submissions in a single scan.
// MinutesSaved and SegmentCount are derived together so the pair always
// reflects one consistent snapshot of the segments table.
type SegmentSummary struct {
	MinutesSaved float64
	SegmentCount int64
}
