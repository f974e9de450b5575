package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// Open opens (or creates) a SQLite database at the given path, enables WAL
// journal mode, and bootstraps the schema. Pass ":memory:" for an in-memory
// database (connection pool capped at one so every query sees the same db).
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := bootstrap(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func bootstrap(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS segments (
            uuid TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            start_time REAL NOT NULL DEFAULT 0,
            end_time REAL NOT NULL DEFAULT 0,
            votes INTEGER NOT NULL DEFAULT 0,
            views INTEGER NOT NULL DEFAULT 0,
            action_type TEXT NOT NULL DEFAULT 'skip',
            shadow_hidden INTEGER NOT NULL DEFAULT 0,
            reputation REAL NOT NULL DEFAULT 0,
            time_submitted INTEGER NOT NULL DEFAULT 0
        );
        CREATE TABLE IF NOT EXISTS lock_categories (
            video_id TEXT NOT NULL,
            category TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            user_id TEXT NOT NULL,
            PRIMARY KEY (video_id, category)
        );
        CREATE TABLE IF NOT EXISTS user_names (
            user_id TEXT PRIMARY KEY,
            user_name TEXT NOT NULL
        );
        CREATE TABLE IF NOT EXISTS warnings (
            user_id TEXT NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            issue_time INTEGER NOT NULL DEFAULT 0,
            enabled INTEGER NOT NULL DEFAULT 1
        );
        CREATE TABLE IF NOT EXISTS shadow_banned_users (
            user_id TEXT PRIMARY KEY
        );
        CREATE TABLE IF NOT EXISTS vip_users (
            user_id TEXT PRIMARY KEY
        );
    `)
	return err
}

// NewWithDB constructs a SQLite store backed directly by database/sql.
// SQLite has no replica split; the replicaOK hint is accepted and ignored.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Locks() store.Locks         { return &locks{db: s.db} }
func (s *liteStore) UserNames() store.UserNames { return &userNames{db: s.db} }
func (s *liteStore) Segments() store.Segments   { return &segments{db: s.db} }
func (s *liteStore) Warnings() store.Warnings   { return &warnings{db: s.db} }
func (s *liteStore) Bans() store.Bans           { return &bans{db: s.db} }
func (s *liteStore) VIPs() store.VIPs           { return &vips{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Locks ---

type locks struct{ db *sql.DB }

func (l *locks) ListForVideo(ctx context.Context, videoID string) ([]model.LockRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
        SELECT category, reason, user_id FROM lock_categories WHERE video_id = ?
    `, videoID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.LockRecord
	for rows.Next() {
		rec := model.LockRecord{VideoID: videoID}
		if err := rows.Scan(&rec.Category, &rec.Reason, &rec.UserID); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// --- UserNames ---

type userNames struct{ db *sql.DB }

func (u *userNames) Get(ctx context.Context, userID string) (string, error) {
	var name string
	row := u.db.QueryRowContext(ctx, `SELECT user_name FROM user_names WHERE user_id = ?`, userID)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", err
	}
	return name, nil
}

func (u *userNames) GetBatch(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := u.db.QueryContext(ctx,
		`SELECT user_id, user_name FROM user_names WHERE user_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// --- Segments ---

type segments struct{ db *sql.DB }

func (g *segments) SubmittedSummary(ctx context.Context, userID string, maxRewardSeconds float64, _ bool) (model.SegmentSummary, error) {
	var out model.SegmentSummary
	row := g.db.QueryRowContext(ctx, `
        SELECT COALESCE(SUM(CASE WHEN action_type = 'chapter' THEN 0
                 ELSE ((CASE WHEN end_time - start_time > ? THEN ?
                        ELSE end_time - start_time END) / 60.0) * views END), 0),
               COUNT(*)
        FROM segments
        WHERE user_id = ? AND votes > -2 AND shadow_hidden != 1
    `, maxRewardSeconds, maxRewardSeconds, userID)
	if err := row.Scan(&out.MinutesSaved, &out.SegmentCount); err != nil {
		return model.SegmentSummary{}, err
	}
	return out, nil
}

func (g *segments) IgnoredCount(ctx context.Context, userID string, _ bool) (int64, error) {
	var n int64
	row := g.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM segments WHERE user_id = ? AND (votes <= -2 OR shadow_hidden = 1)
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) ViewCount(ctx context.Context, userID string, _ bool) (int64, error) {
	var n int64
	row := g.db.QueryRowContext(ctx, `
        SELECT COALESCE(SUM(views), 0) FROM segments
        WHERE user_id = ? AND votes > -2 AND shadow_hidden != 1
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) IgnoredViewCount(ctx context.Context, userID string, _ bool) (int64, error) {
	var n int64
	row := g.db.QueryRowContext(ctx, `
        SELECT COALESCE(SUM(views), 0) FROM segments
        WHERE user_id = ? AND (votes <= -2 OR shadow_hidden = 1)
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) LastSegmentID(ctx context.Context, userID string, _ bool) (string, error) {
	var id string
	row := g.db.QueryRowContext(ctx, `
        SELECT uuid FROM segments WHERE user_id = ? ORDER BY time_submitted DESC LIMIT 1
    `, userID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (g *segments) HasReputableSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, _ bool) (bool, error) {
	var ok bool
	row := g.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM segments
            WHERE user_id = ? AND reputation > 0 AND time_submitted < ?)
    `, userID, beforeMillis)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (g *segments) HasSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, _ bool) (bool, error) {
	var ok bool
	row := g.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM segments WHERE user_id = ? AND time_submitted < ?)
    `, userID, beforeMillis)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// --- Warnings ---

type warnings struct{ db *sql.DB }

func (w *warnings) CountActive(ctx context.Context, userID string, _ bool) (int64, error) {
	var n int64
	row := w.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM warnings WHERE user_id = ? AND enabled = 1
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (w *warnings) LatestActiveReason(ctx context.Context, userID string, _ bool) (string, error) {
	var reason string
	row := w.db.QueryRowContext(ctx, `
        SELECT reason FROM warnings WHERE user_id = ? AND enabled = 1
        ORDER BY issue_time DESC LIMIT 1
    `, userID)
	if err := row.Scan(&reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return reason, nil
}

// --- Bans ---

type bans struct{ db *sql.DB }

func (b *bans) IsShadowBanned(ctx context.Context, userID string, _ bool) (bool, error) {
	var ok bool
	row := b.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM shadow_banned_users WHERE user_id = ?)
    `, userID)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// --- VIPs ---

type vips struct{ db *sql.DB }

func (v *vips) IsVIP(ctx context.Context, userID string) (bool, error) {
	var ok bool
	row := v.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM vip_users WHERE user_id = ?)
    `, userID)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
