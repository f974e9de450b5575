package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// UserInfoService compiles caller-selected subsets of a user's statistics.
type UserInfoService struct {
	store            store.Store
	hasher           IDHasher
	reputation       ReputationSource
	perms            PermissionChecker
	categories       []string
	maxRewardSeconds float64
	log              zerolog.Logger
}

func NewUserInfoService(s store.Store, hasher IDHasher, reputation ReputationSource, perms PermissionChecker, categories []string, maxRewardSeconds float64, log zerolog.Logger) *UserInfoService {
	return &UserInfoService{
		store:            s,
		hasher:           hasher,
		reputation:       reputation,
		perms:            perms,
		categories:       categories,
		maxRewardSeconds: maxRewardSeconds,
		log:              log,
	}
}

// UserInfoRequest selects the subject and the statistics to compile.
type UserInfoRequest struct {
	// UserID is the raw identifier; it is hashed before any store access.
	UserID string
	// PublicUserID is an already-opaque identifier, used when UserID is empty.
	PublicUserID string
	// Values are the requested field names. nil means the default field set;
	// an explicitly empty list is a validation error.
	Values []string
}

// UserInfo validates the request, dispatches every requested field, and
// assembles the bundle in the caller's field order. Individual field faults
// are absorbed by their fetchers; only structural problems return an error.
func (s *UserInfoService) UserInfo(ctx context.Context, req UserInfoRequest) (*model.UserStats, error) {
	var fields []model.UserField
	if req.Values == nil {
		fields = model.DefaultUserFields()
	} else {
		fields = filterFields(req.Values)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: no valid values specified", model.ErrValidation)
		}
	}

	userID := req.PublicUserID
	if req.UserID != "" {
		userID = s.hasher.Hash(ctx, req.UserID)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: invalid userID or publicUserID parameter", model.ErrValidation)
	}

	// Phase 1: independently resolvable fields, dispatched concurrently.
	// Each field is resolved at most once; the requested list was deduped.
	reg := s.registry(userID)
	results := make([]any, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fields {
		res, ok := reg[f]
		if !ok {
			// Fields outside the registry (the savings pair) resolve to the
			// sentinel now and are overwritten in phase 2.
			results[i] = ""
			continue
		}
		i, res := i, res
		g.Go(func() error {
			results[i] = res.resolve(gctx)
			return nil
		})
	}
	_ = g.Wait() // fetchers never return errors; they absorb their own faults

	stats := model.NewUserStats()
	for i, f := range fields {
		stats.Set(f, results[i])
	}

	// Phase 2: the savings pair shares one scan and is applied last, as a
	// group, so both values come from the same snapshot.
	s.applySegmentSummary(ctx, userID, stats)

	return stats, nil
}

func (s *UserInfoService) applySegmentSummary(ctx context.Context, userID string, stats *model.UserStats) {
	wantMinutes := stats.Has(model.FieldMinutesSaved)
	wantCount := stats.Has(model.FieldSegmentCount)
	if !wantMinutes && !wantCount {
		return
	}

	sum, err := s.store.Segments().SubmittedSummary(ctx, userID, s.maxRewardSeconds, true)
	if err != nil {
		s.log.Error().Err(err).Msg("segment summary failed, returning zeros")
		sum = model.SegmentSummary{}
	}
	if wantMinutes {
		stats.Set(model.FieldMinutesSaved, sum.MinutesSaved)
	}
	if wantCount {
		stats.Set(model.FieldSegmentCount, sum.SegmentCount)
	}
}

// filterFields keeps only names from the allowed superset, deduplicated,
// preserving first-occurrence order. Unknown names are dropped silently.
func filterFields(requested []string) []model.UserField {
	allowed := make(map[model.UserField]bool, len(model.AllUserFields()))
	for _, f := range model.AllUserFields() {
		allowed[f] = true
	}

	var out []model.UserField
	seen := make(map[model.UserField]bool, len(requested))
	for _, name := range requested {
		f := model.UserField(name)
		if !allowed[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
