package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/store"
)

// LockReasonService answers which categories of a video are locked, by whom,
// and why.
type LockReasonService struct {
	store      store.Store
	categories []string
	log        zerolog.Logger
}

func NewLockReasonService(s store.Store, categories []string, log zerolog.Logger) *LockReasonService {
	return &LockReasonService{store: s, categories: categories, log: log}
}

// LockReasons returns exactly one result per requested category, in the
// caller's order. Requested categories are filtered to the allow-list and
// deduplicated; an empty filtered list means the full allow-list. Locking
// users' display names are resolved with a single batch query.
func (s *LockReasonService) LockReasons(ctx context.Context, videoID string, categories []string) ([]model.LockResult, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: videoID is required", model.ErrValidation)
	}

	search := filterCategories(categories, s.categories)
	if len(search) == 0 {
		search = s.categories
	}

	records, err := s.store.Locks().ListForVideo(ctx, videoID)
	if err != nil {
		s.log.Error().Err(err).Str("videoID", videoID).Msg("lock query failed")
		return nil, err
	}

	byCategory := make(map[string]model.LockRecord, len(records))
	var lockerIDs []string
	seen := make(map[string]bool)
	for _, rec := range records {
		byCategory[rec.Category] = rec
		if rec.UserID != "" && !seen[rec.UserID] {
			seen[rec.UserID] = true
			lockerIDs = append(lockerIDs, rec.UserID)
		}
	}

	names := map[string]string{}
	if len(lockerIDs) > 0 {
		names, err = s.store.UserNames().GetBatch(ctx, lockerIDs)
		if err != nil {
			s.log.Error().Err(err).Str("videoID", videoID).Msg("lock user name query failed")
			return nil, err
		}
	}

	results := make([]model.LockResult, 0, len(search))
	for _, category := range search {
		rec, ok := byCategory[category]
		if !ok || rec.UserID == "" {
			results = append(results, model.LockResult{Category: category})
			continue
		}
		results = append(results, model.LockResult{
			Category: category,
			Locked:   1,
			Reason:   rec.Reason,
			UserID:   rec.UserID,
			UserName: names[rec.UserID],
		})
	}
	return results, nil
}

// filterCategories keeps only allowed categories, deduplicated, preserving
// first-occurrence order.
func filterCategories(requested, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}

	var out []string
	seen := make(map[string]bool, len(requested))
	for _, c := range requested {
		if !allowedSet[c] || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
