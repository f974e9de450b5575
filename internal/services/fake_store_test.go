package services

import (
	"context"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// --- Fakes ---

// fakeStore serves canned rows and records the calls the aggregators make.
type fakeStore struct {
	locks    []model.LockRecord
	locksErr error

	names        map[string]string
	batchCalls   int
	lastBatchIDs []string
	batchErr     error

	summary      model.SegmentSummary
	summaryCalls int
	summaryErr   error

	ignoredCount  int64
	views         int64
	ignoredViews  int64
	lastSegment   string
	segmentsErr   error
	hasReputable  bool
	hasEarly      bool
	warningsCount int64
	warningReason string
	bannedUsers   map[string]bool
	vipUsers      map[string]bool
}

func (f *fakeStore) Locks() store.Locks         { return fakeLocks{f} }
func (f *fakeStore) UserNames() store.UserNames { return fakeUserNames{f} }
func (f *fakeStore) Segments() store.Segments   { return fakeSegments{f} }
func (f *fakeStore) Warnings() store.Warnings   { return fakeWarnings{f} }
func (f *fakeStore) Bans() store.Bans           { return fakeBans{f} }
func (f *fakeStore) VIPs() store.VIPs           { return fakeVIPs{f} }

type fakeLocks struct{ p *fakeStore }

func (l fakeLocks) ListForVideo(_ context.Context, videoID string) ([]model.LockRecord, error) {
	if l.p.locksErr != nil {
		return nil, l.p.locksErr
	}
	var out []model.LockRecord
	for _, rec := range l.p.locks {
		if rec.VideoID == videoID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeUserNames struct{ p *fakeStore }

func (u fakeUserNames) Get(_ context.Context, userID string) (string, error) {
	if name, ok := u.p.names[userID]; ok {
		return name, nil
	}
	return "", model.ErrNotFound
}

func (u fakeUserNames) GetBatch(_ context.Context, userIDs []string) (map[string]string, error) {
	u.p.batchCalls++
	u.p.lastBatchIDs = userIDs
	if u.p.batchErr != nil {
		return nil, u.p.batchErr
	}
	out := make(map[string]string)
	for _, id := range userIDs {
		if name, ok := u.p.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type fakeSegments struct{ p *fakeStore }

func (s fakeSegments) SubmittedSummary(_ context.Context, _ string, _ float64, _ bool) (model.SegmentSummary, error) {
	s.p.summaryCalls++
	if s.p.summaryErr != nil {
		return model.SegmentSummary{}, s.p.summaryErr
	}
	return s.p.summary, nil
}

func (s fakeSegments) IgnoredCount(_ context.Context, _ string, _ bool) (int64, error) {
	return s.p.ignoredCount, s.p.segmentsErr
}

func (s fakeSegments) ViewCount(_ context.Context, _ string, _ bool) (int64, error) {
	return s.p.views, s.p.segmentsErr
}

func (s fakeSegments) IgnoredViewCount(_ context.Context, _ string, _ bool) (int64, error) {
	return s.p.ignoredViews, s.p.segmentsErr
}

func (s fakeSegments) LastSegmentID(_ context.Context, _ string, _ bool) (string, error) {
	if s.p.lastSegment == "" {
		return "", model.ErrNotFound
	}
	return s.p.lastSegment, nil
}

func (s fakeSegments) HasReputableSubmissionBefore(_ context.Context, _ string, _ int64, _ bool) (bool, error) {
	return s.p.hasReputable, nil
}

func (s fakeSegments) HasSubmissionBefore(_ context.Context, _ string, _ int64, _ bool) (bool, error) {
	return s.p.hasEarly, nil
}

type fakeWarnings struct{ p *fakeStore }

func (w fakeWarnings) CountActive(_ context.Context, _ string, _ bool) (int64, error) {
	return w.p.warningsCount, nil
}

func (w fakeWarnings) LatestActiveReason(_ context.Context, _ string, _ bool) (string, error) {
	return w.p.warningReason, nil
}

type fakeBans struct{ p *fakeStore }

func (b fakeBans) IsShadowBanned(_ context.Context, userID string, _ bool) (bool, error) {
	return b.p.bannedUsers[userID], nil
}

type fakeVIPs struct{ p *fakeStore }

func (v fakeVIPs) IsVIP(_ context.Context, userID string) (bool, error) {
	return v.p.vipUsers[userID], nil
}

// fakeHasher derives a predictable opaque ID so tests can assert on it.
type fakeHasher struct{}

func (fakeHasher) Hash(_ context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	return "pub-" + raw
}
