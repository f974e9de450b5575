package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skipmark/skipmark-server/internal/health"
	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/services"
	"github.com/skipmark/skipmark-server/internal/store"
)

// ---- fakes -----------------------------------------------------------------

type fakeStore struct {
	locks    []model.LockRecord
	locksErr error
	names    map[string]string
}

func (f *fakeStore) Locks() store.Locks         { return fakeLocks{f} }
func (f *fakeStore) UserNames() store.UserNames { return fakeNames{f} }
func (f *fakeStore) Segments() store.Segments   { return fakeSegments{} }
func (f *fakeStore) Warnings() store.Warnings   { return fakeWarnings{} }
func (f *fakeStore) Bans() store.Bans           { return fakeBans{} }
func (f *fakeStore) VIPs() store.VIPs           { return fakeVIPs{} }

type fakeLocks struct{ f *fakeStore }

func (l fakeLocks) ListForVideo(ctx context.Context, videoID string) ([]model.LockRecord, error) {
	return l.f.locks, l.f.locksErr
}

type fakeNames struct{ f *fakeStore }

func (n fakeNames) Get(ctx context.Context, userID string) (string, error) {
	if name, ok := n.f.names[userID]; ok {
		return name, nil
	}
	return "", model.ErrNotFound
}

func (n fakeNames) GetBatch(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range userIDs {
		if name, ok := n.f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type fakeSegments struct{}

func (fakeSegments) SubmittedSummary(ctx context.Context, userID string, maxRewardSeconds float64, replicaOK bool) (model.SegmentSummary, error) {
	return model.SegmentSummary{MinutesSaved: 12.5, SegmentCount: 3}, nil
}
func (fakeSegments) IgnoredCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	return 1, nil
}
func (fakeSegments) ViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	return 40, nil
}
func (fakeSegments) IgnoredViewCount(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	return 2, nil
}
func (fakeSegments) LastSegmentID(ctx context.Context, userID string, replicaOK bool) (string, error) {
	return "seg-last", nil
}
func (fakeSegments) HasReputableSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error) {
	return false, nil
}
func (fakeSegments) HasSubmissionBefore(ctx context.Context, userID string, beforeMillis int64, replicaOK bool) (bool, error) {
	return false, nil
}

type fakeWarnings struct{}

func (fakeWarnings) CountActive(ctx context.Context, userID string, replicaOK bool) (int64, error) {
	return 0, nil
}
func (fakeWarnings) LatestActiveReason(ctx context.Context, userID string, replicaOK bool) (string, error) {
	return "", nil
}

type fakeBans struct{}

func (fakeBans) IsShadowBanned(ctx context.Context, userID string, replicaOK bool) (bool, error) {
	return false, nil
}

type fakeVIPs struct{}

func (fakeVIPs) IsVIP(ctx context.Context, userID string) (bool, error) { return false, nil }

type fakeHasher struct{}

func (fakeHasher) Hash(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	return "pub-" + raw
}

type fakePinger struct{ err error }

func (p fakePinger) HealthPing(ctx context.Context) error { return p.err }

// ---- harness ---------------------------------------------------------------

var testCategories = []string{"sponsor", "intro", "outro"}

func newTestServer(t *testing.T, fs *fakeStore, pingErr error) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	userInfoSvc := services.NewUserInfoService(fs, fakeHasher{}, services.StaticReputation(0), services.OpenSubmissions{}, testCategories, 86400, log)
	lockSvc := services.NewLockReasonService(fs, testCategories, log)
	monitor := health.NewMonitor(fakePinger{err: pingErr}, log)

	router := NewRouter(NewUserInfoHandler(userInfoSvc), NewLockReasonHandler(lockSvc), NewHealthHandler(monitor))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

// ---- lockReason ------------------------------------------------------------

func TestLockReason_MissingVideoID(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/lockReason")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "videoID")
}

func TestLockReason_InvalidCategoriesJSON(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/lockReason?videoID=v1&categories=%5B%22sponsor%22")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "Bad parameter: categories (invalid JSON)")
}

func TestLockReason_NonArrayCategories(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/lockReason?videoID=v1&categories=%22sponsor%22")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "Categories parameter does not match format requirements")
}

func TestLockReason_JoinedAndPlaceholderRows(t *testing.T) {
	fs := &fakeStore{
		locks: []model.LockRecord{
			{VideoID: "v1", Category: "sponsor", Reason: "ad", UserID: "u1"},
		},
		names: map[string]string{"u1": "Alice"},
	}
	srv := newTestServer(t, fs, nil)

	code, body := get(t, srv, "/api/lockReason?videoID=v1&categories=%5B%22sponsor%22,%22intro%22%5D")
	require.Equal(t, http.StatusOK, code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, 2)

	assert.Equal(t, "sponsor", out[0]["category"])
	assert.Equal(t, float64(1), out[0]["locked"])
	assert.Equal(t, "ad", out[0]["reason"])
	assert.Equal(t, "u1", out[0]["userID"])
	assert.Equal(t, "Alice", out[0]["userName"])

	assert.Equal(t, "intro", out[1]["category"])
	assert.Equal(t, float64(0), out[1]["locked"])
	assert.Equal(t, "", out[1]["reason"])
}

func TestLockReason_StoreFailure(t *testing.T) {
	fs := &fakeStore{locksErr: errors.New("db gone")}
	srv := newTestServer(t, fs, nil)

	code, body := get(t, srv, "/api/lockReason?videoID=v1")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, string(body), "Internal Server Error")
	assert.NotContains(t, string(body), "db gone")
}

// ---- userInfo --------------------------------------------------------------

func TestUserInfo_MissingSubject(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/userInfo")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "userID or publicUserID")
}

func TestUserInfo_InvalidValuesJSON(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/userInfo?userID=u1&values=%5B%22userName%22")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "Invalid values JSON")
}

func TestUserInfo_NoValidValues(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/userInfo?userID=u1&values=%5B%22bogus%22%5D")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "no valid values")
}

func TestUserInfo_SelectedFields(t *testing.T) {
	fs := &fakeStore{names: map[string]string{"pub-u1": "Alice"}}
	srv := newTestServer(t, fs, nil)

	code, body := get(t, srv, "/api/userInfo?userID=u1&values=%5B%22userName%22,%22minutesSaved%22,%22segmentCount%22%5D")
	require.Equal(t, http.StatusOK, code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Alice", out["userName"])
	assert.Equal(t, 12.5, out["minutesSaved"])
	assert.Equal(t, float64(3), out["segmentCount"])
	assert.NotContains(t, out, "userID")
}

func TestUserInfo_DefaultFields(t *testing.T) {
	fs := &fakeStore{names: map[string]string{"pub-u1": "Alice"}}
	srv := newTestServer(t, fs, nil)

	code, body := get(t, srv, "/api/userInfo?userID=u1")
	require.Equal(t, http.StatusOK, code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	for _, field := range []string{"userID", "userName", "minutesSaved", "segmentCount", "viewCount", "warnings"} {
		assert.Contains(t, out, field, fmt.Sprintf("default response should include %s", field))
	}
	assert.NotContains(t, out, "permissions")
	assert.NotContains(t, out, "banned")
}

func TestUserInfo_RepeatedValueParams(t *testing.T) {
	fs := &fakeStore{names: map[string]string{"pub-u1": "Alice"}}
	srv := newTestServer(t, fs, nil)

	code, body := get(t, srv, "/api/userInfo?userID=u1&value=userName&value=viewCount")
	require.Equal(t, http.StatusOK, code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out, 2)
	assert.Equal(t, "Alice", out["userName"])
	assert.Equal(t, float64(40), out["viewCount"])
}

// ---- health ----------------------------------------------------------------

func TestHealth_Up(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, nil)

	code, body := get(t, srv, "/api/health")
	assert.Equal(t, http.StatusOK, code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "UP", out["status"])
	assert.Equal(t, "Service is healthy", out["message"])
}

func TestHealthDB_PingFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, errors.New("connection refused"))

	code, body := get(t, srv, "/api/health/db")
	assert.Equal(t, http.StatusInternalServerError, code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "DOWN", out["status"])
}
