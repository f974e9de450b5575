package postgres

import (
	"os"
	"testing"

	"github.com/skipmark/skipmark-server/internal/store/storetest"
)

func TestPostgresStore_Compliance(t *testing.T) {
	dsn := os.Getenv("SKIPMARK_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SKIPMARK_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Schema is normally applied by deployment migrations; create it here so
	// the suite can run against a blank database.
	if _, err := db.Exec(schemaDDL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	storetest.Run(t, db, NewWithDB(db, nil), storetest.Rebind)
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS segments (
    uuid TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    start_time DOUBLE PRECISION NOT NULL DEFAULT 0,
    end_time DOUBLE PRECISION NOT NULL DEFAULT 0,
    votes INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    action_type TEXT NOT NULL DEFAULT 'skip',
    shadow_hidden INTEGER NOT NULL DEFAULT 0,
    reputation DOUBLE PRECISION NOT NULL DEFAULT 0,
    time_submitted BIGINT NOT NULL DEFAULT 0
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
    issue_time BIGINT NOT NULL DEFAULT 0,
    enabled INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS shadow_banned_users (
    user_id TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS vip_users (
    user_id TEXT PRIMARY KEY
);
`
