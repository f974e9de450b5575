package storetest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// Rebind rewrites '?' placeholders into Postgres positional parameters.
// SQLite drivers pass the query through unchanged.
func Rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Run exercises the read contract against a store.Store implementation.
// db is used to seed fixture rows directly; bind adapts '?' placeholders to
// the driver's parameter syntax (pass Rebind for postgres, nil for sqlite).
// Fixture identifiers are unique per run so the suite is safe against
// persistent databases.
func Run(t *testing.T, db *sql.DB, s store.Store, bind func(string) string) {
	t.Helper()
	if bind == nil {
		bind = func(q string) string { return q }
	}

	ctx := context.Background()
	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, bind(query), args...); err != nil {
			t.Fatalf("seed %q: %v", query, err)
		}
	}

	suffix := uuid.New().String()
	u1 := "u1-" + suffix
	u2 := "u2-" + suffix
	banned := "ban-" + suffix
	vip := "vip-" + suffix
	video := "vid-" + suffix

	exec(`INSERT INTO user_names (user_id, user_name) VALUES (?, ?)`, u1, "Alice")

	exec(`INSERT INTO segments (uuid, user_id, start_time, end_time, votes, views, action_type, shadow_hidden, reputation, time_submitted)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"seg1-"+suffix, u1, 0.0, 120.0, 0, 10, "skip", 0, 5.0, int64(1500000000000))
	exec(`INSERT INTO segments (uuid, user_id, start_time, end_time, votes, views, action_type, shadow_hidden, reputation, time_submitted)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"seg2-"+suffix, u1, 10.0, 20.0, 0, 100, "chapter", 0, 0.0, int64(1600000000000))
	exec(`INSERT INTO segments (uuid, user_id, start_time, end_time, votes, views, action_type, shadow_hidden, reputation, time_submitted)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"seg3-"+suffix, u1, 0.0, 30.0, -5, 7, "skip", 0, 0.0, int64(1700000000000))

	exec(`INSERT INTO lock_categories (video_id, category, reason, user_id) VALUES (?, ?, ?, ?)`,
		video, "sponsor", "ad", u1)
	exec(`INSERT INTO lock_categories (video_id, category, reason, user_id) VALUES (?, ?, ?, ?)`,
		video, "intro", "reused intro", u2)

	exec(`INSERT INTO warnings (user_id, reason, issue_time, enabled) VALUES (?, ?, ?, ?)`, u1, "first", int64(100), 1)
	exec(`INSERT INTO warnings (user_id, reason, issue_time, enabled) VALUES (?, ?, ?, ?)`, u1, "second", int64(200), 1)
	exec(`INSERT INTO warnings (user_id, reason, issue_time, enabled) VALUES (?, ?, ?, ?)`, u1, "expired", int64(300), 0)

	exec(`INSERT INTO shadow_banned_users (user_id) VALUES (?)`, banned)
	exec(`INSERT INTO vip_users (user_id) VALUES (?)`, vip)

	// Locks
	recs, err := s.Locks().ListForVideo(ctx, video)
	if err != nil || len(recs) != 2 {
		t.Fatalf("ListForVideo: n=%d err=%v", len(recs), err)
	}
	if recs, err := s.Locks().ListForVideo(ctx, "missing-"+suffix); err != nil || len(recs) != 0 {
		t.Fatalf("ListForVideo missing video: n=%d err=%v", len(recs), err)
	}

	// UserNames
	if name, err := s.UserNames().Get(ctx, u1); err != nil || name != "Alice" {
		t.Fatalf("UserNames.Get: name=%q err=%v", name, err)
	}
	if _, err := s.UserNames().Get(ctx, u2); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UserNames.Get unknown: err=%v", err)
	}
	names, err := s.UserNames().GetBatch(ctx, []string{u1, u2})
	if err != nil || len(names) != 1 || names[u1] != "Alice" {
		t.Fatalf("GetBatch: names=%v err=%v", names, err)
	}
	if names, err := s.UserNames().GetBatch(ctx, nil); err != nil || len(names) != 0 {
		t.Fatalf("GetBatch empty: names=%v err=%v", names, err)
	}

	// Segments: seg1 contributes (120/60)*10 = 20 minutes, the chapter row
	// counts but adds no minutes, the downvoted row is excluded entirely.
	sum, err := s.Segments().SubmittedSummary(ctx, u1, 86400, true)
	if err != nil {
		t.Fatalf("SubmittedSummary: %v", err)
	}
	if sum.MinutesSaved != 20 || sum.SegmentCount != 2 {
		t.Fatalf("SubmittedSummary: got %+v", sum)
	}
	// Clamp: with a 60s reward cap seg1 yields (60/60)*10 = 10 minutes.
	sum, err = s.Segments().SubmittedSummary(ctx, u1, 60, true)
	if err != nil || sum.MinutesSaved != 10 {
		t.Fatalf("SubmittedSummary clamped: got %+v err=%v", sum, err)
	}
	if sum, err := s.Segments().SubmittedSummary(ctx, "nobody-"+suffix, 86400, true); err != nil || sum.MinutesSaved != 0 || sum.SegmentCount != 0 {
		t.Fatalf("SubmittedSummary empty: got %+v err=%v", sum, err)
	}

	if n, err := s.Segments().IgnoredCount(ctx, u1, true); err != nil || n != 1 {
		t.Fatalf("IgnoredCount: n=%d err=%v", n, err)
	}
	if n, err := s.Segments().ViewCount(ctx, u1, true); err != nil || n != 110 {
		t.Fatalf("ViewCount: n=%d err=%v", n, err)
	}
	if n, err := s.Segments().IgnoredViewCount(ctx, u1, true); err != nil || n != 7 {
		t.Fatalf("IgnoredViewCount: n=%d err=%v", n, err)
	}
	if id, err := s.Segments().LastSegmentID(ctx, u1, true); err != nil || id != "seg3-"+suffix {
		t.Fatalf("LastSegmentID: id=%q err=%v", id, err)
	}
	if _, err := s.Segments().LastSegmentID(ctx, "nobody-"+suffix, true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("LastSegmentID empty: err=%v", err)
	}
	if ok, err := s.Segments().HasSubmissionBefore(ctx, u1, 1550000000000, true); err != nil || !ok {
		t.Fatalf("HasSubmissionBefore: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Segments().HasSubmissionBefore(ctx, u1, 1400000000000, true); err != nil || ok {
		t.Fatalf("HasSubmissionBefore early cutoff: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Segments().HasReputableSubmissionBefore(ctx, u1, 1550000000000, true); err != nil || !ok {
		t.Fatalf("HasReputableSubmissionBefore: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Segments().HasReputableSubmissionBefore(ctx, u2, 1550000000000, true); err != nil || ok {
		t.Fatalf("HasReputableSubmissionBefore no rows: ok=%v err=%v", ok, err)
	}

	// Warnings
	if n, err := s.Warnings().CountActive(ctx, u1, true); err != nil || n != 2 {
		t.Fatalf("CountActive: n=%d err=%v", n, err)
	}
	if reason, err := s.Warnings().LatestActiveReason(ctx, u1, true); err != nil || reason != "second" {
		t.Fatalf("LatestActiveReason: reason=%q err=%v", reason, err)
	}
	if reason, err := s.Warnings().LatestActiveReason(ctx, u2, true); err != nil || reason != "" {
		t.Fatalf("LatestActiveReason none: reason=%q err=%v", reason, err)
	}

	// Bans / VIPs
	if ok, err := s.Bans().IsShadowBanned(ctx, banned, true); err != nil || !ok {
		t.Fatalf("IsShadowBanned: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Bans().IsShadowBanned(ctx, u1, true); err != nil || ok {
		t.Fatalf("IsShadowBanned clean user: ok=%v err=%v", ok, err)
	}
	if ok, err := s.VIPs().IsVIP(ctx, vip); err != nil || !ok {
		t.Fatalf("IsVIP: ok=%v err=%v", ok, err)
	}
	if ok, err := s.VIPs().IsVIP(ctx, u1); err != nil || ok {
		t.Fatalf("IsVIP non-vip: ok=%v err=%v", ok, err)
	}
}
