package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
// replica may be nil; replica-eligible queries then run on the primary.
func NewWithDB(primary, replica *sql.DB) store.Store {
	return &pgStore{primary: primary, replica: replica}
}

type pgStore struct {
	primary *sql.DB
	replica *sql.DB
}

// reader routes a query to the replica when the caller allows it and a
// replica is configured.
func (s *pgStore) reader(replicaOK bool) *sql.DB {
	if replicaOK && s.replica != nil {
		return s.replica
	}
	return s.primary
}

func (s *pgStore) Locks() store.Locks         { return &locks{s} }
func (s *pgStore) UserNames() store.UserNames { return &userNames{s} }
func (s *pgStore) Segments() store.Segments   { return &segments{s} }
func (s *pgStore) Warnings() store.Warnings   { return &warnings{s} }
func (s *pgStore) Bans() store.Bans           { return &bans{s} }
func (s *pgStore) VIPs() store.VIPs           { return &vips{s} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.primary.PingContext(ctx)
}

// --- Locks ---

type locks struct{ s *pgStore }

func (l *locks) ListForVideo(ctx context.Context, videoID string) ([]model.LockRecord, error) {
	rows, err := l.s.primary.QueryContext(ctx, `
        SELECT category, reason, user_id FROM lock_categories WHERE video_id = $1
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

type userNames struct{ s *pgStore }

func (u *userNames) Get(ctx context.Context, userID string) (string, error) {
	var name string
	row := u.s.primary.QueryRowContext(ctx, `
        SELECT user_name FROM user_names WHERE user_id = $1
    `, userID)
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
	rows, err := u.s.primary.QueryContext(ctx, `
        SELECT user_id, user_name FROM user_names WHERE user_id = ANY($1)
    `, userIDs)
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

type segments struct{ s *pgStore }

func (g *segments) SubmittedSummary(ctx context.Context, userID string, maxRewardSeconds float64, replicaOK bool) (model.SegmentSummary, error) {
	var out model.SegmentSummary
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT COALESCE(SUM(CASE WHEN action_type = 'chapter' THEN 0
                 ELSE ((CASE WHEN end_time - start_time > $1 THEN $1
                        ELSE end_time - start_time END) / 60.0) * views END), 0),
               COUNT(*)
        FROM segments
        WHERE user_id = $2 AND votes > -2 AND shadow_hidden != 1
    `, maxRewardSeconds, userID)
	if err := row.Scan(&out.MinutesSaved, &out.SegmentCount); err != nil {
		return model.SegmentSummary{}, err
	}
	return out, nil
}

func (g *segments) IgnoredCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	var n int64
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT COUNT(*) FROM segments
        WHERE user_id = $1 AND (votes <= -2 OR shadow_hidden = 1)
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) ViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	var n int64
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT COALESCE(SUM(views), 0) FROM segments
        WHERE user_id = $1 AND votes > -2 AND shadow_hidden != 1
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) IgnoredViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	var n int64
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT COALESCE(SUM(views), 0) FROM segments
        WHERE user_id = $1 AND (votes <= -2 OR shadow_hidden = 1)
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *segments) LastSegmentID(ctx context.Context, userID string, replicaOK bool) (string, error) {
	var id string
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT uuid FROM segments WHERE user_id = $1
        ORDER BY time_submitted DESC LIMIT 1
    `, userID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (g *segments) HasReputableSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error) {
	var ok bool
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM segments
            WHERE user_id = $1 AND reputation > 0 AND time_submitted < $2)
    `, userID, beforeMillis)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (g *segments) HasSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error) {
	var ok bool
	row := g.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM segments
            WHERE user_id = $1 AND time_submitted < $2)
    `, userID, beforeMillis)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// --- Warnings ---

type warnings struct{ s *pgStore }

func (w *warnings) CountActive(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	var n int64
	row := w.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT COUNT(*) FROM warnings WHERE user_id = $1 AND enabled = 1
    `, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (w *warnings) LatestActiveReason(ctx context.Context, userID string, replicaOK bool) (string, error) {
	var reason string
	row := w.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT reason FROM warnings WHERE user_id = $1 AND enabled = 1
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

type bans struct{ s *pgStore }

func (b *bans) IsShadowBanned(ctx context.Context, userID string, replicaOK bool) (bool, error) {
	var ok bool
	row := b.s.reader(replicaOK).QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM shadow_banned_users WHERE user_id = $1)
    `, userID)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// --- VIPs ---

type vips struct{ s *pgStore }

func (v *vips) IsVIP(ctx context.Context, userID string) (bool, error) {
	var ok bool
	row := v.s.primary.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM vip_users WHERE user_id = $1)
    `, userID)
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
