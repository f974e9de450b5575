package services

import (
	"context"
	"errors"

	"github.com/skipmark/skipmark-server/internal/model"
	"github.com/skipmark/skipmark-server/internal/oneof"
)

// Free-chapters eligibility cutoffs, epoch milliseconds. Historical
// constants: submissions before these instants grandfather the user in.
const (
	reputableSubmissionCutoffMillis = 1663872563000
	earlySubmissionCutoffMillis     = 1590969600000
)

// fieldResolver produces one statistic: either a value already known at
// dispatch time or a lazily invoked fetch. Fetches absorb their own store
// faults into the field's documented fallback, so resolve never fails.
type fieldResolver struct {
	value any
	fetch func(ctx context.Context) any
}

func (r fieldResolver) resolve(ctx context.Context) any {
	if r.fetch != nil {
		return r.fetch(ctx)
	}
	return r.value
}

// registry builds the per-request field table for one subject. It covers
// every requestable field except the savings pair (minutesSaved,
// segmentCount), which the aggregator applies as a group after individual
// dispatch; those two resolve to the empty-string sentinel here.
func (s *UserInfoService) registry(userID string) map[model.UserField]fieldResolver {
	return map[model.UserField]fieldResolver{
		model.FieldUserID:              {value: userID},
		model.FieldUserName:            {fetch: func(ctx context.Context) any { return s.username(ctx, userID) }},
		model.FieldIgnoredSegmentCount: {fetch: func(ctx context.Context) any { return s.ignoredSegmentCount(ctx, userID) }},
		model.FieldViewCount:           {fetch: func(ctx context.Context) any { return s.viewCount(ctx, userID) }},
		model.FieldIgnoredViewCount:    {fetch: func(ctx context.Context) any { return s.ignoredViewCount(ctx, userID) }},
		model.FieldWarnings:            {fetch: func(ctx context.Context) any { return s.warningCount(ctx, userID) }},
		model.FieldWarningReason:       {fetch: func(ctx context.Context) any { return s.warningReason(ctx, userID) }},
		model.FieldBanned:              {fetch: func(ctx context.Context) any { return s.banned(ctx, userID) }},
		model.FieldReputation:          {fetch: func(ctx context.Context) any { return s.reputationScore(ctx, userID) }},
		model.FieldVIP:                 {fetch: func(ctx context.Context) any { return s.vip(ctx, userID) }},
		model.FieldLastSegmentID:       {fetch: func(ctx context.Context) any { return s.lastSegmentID(ctx, userID) }},
		model.FieldPermissions:         {fetch: func(ctx context.Context) any { return s.permissions(ctx, userID) }},
		model.FieldFreeChaptersAccess:  {fetch: func(ctx context.Context) any { return s.freeChaptersAccess(ctx, userID) }},
	}
}

// username falls back to the opaque ID when no display name is stored.
func (s *UserInfoService) username(ctx context.Context, userID string) any {
	name, err := s.store.UserNames().Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.log.Error().Err(err).Msg("userName lookup failed, returning userID")
		}
		return userID
	}
	return name
}

func (s *UserInfoService) ignoredSegmentCount(ctx context.Context, userID string) any {
	n, err := s.store.Segments().IgnoredCount(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("ignoredSegmentCount failed, returning 0")
		return int64(0)
	}
	return n
}

func (s *UserInfoService) viewCount(ctx context.Context, userID string) any {
	n, err := s.store.Segments().ViewCount(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("viewCount failed, returning 0")
		return int64(0)
	}
	return n
}

func (s *UserInfoService) ignoredViewCount(ctx context.Context, userID string) any {
	n, err := s.store.Segments().IgnoredViewCount(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("ignoredViewCount failed, returning 0")
		return int64(0)
	}
	return n
}

func (s *UserInfoService) warningCount(ctx context.Context, userID string) any {
	n, err := s.store.Warnings().CountActive(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("warnings count failed, returning 0")
		return int64(0)
	}
	return n
}

func (s *UserInfoService) warningReason(ctx context.Context, userID string) any {
	reason, err := s.store.Warnings().LatestActiveReason(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("warning reason failed, returning blank")
		return ""
	}
	return reason
}

func (s *UserInfoService) banned(ctx context.Context, userID string) any {
	ok, err := s.store.Bans().IsShadowBanned(ctx, userID, true)
	if err != nil {
		s.log.Error().Err(err).Msg("ban lookup failed, returning false")
		return false
	}
	return ok
}

func (s *UserInfoService) reputationScore(ctx context.Context, userID string) any {
	score, err := s.reputation.Reputation(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("reputation lookup failed, returning 0")
		return float64(0)
	}
	return score
}

func (s *UserInfoService) vip(ctx context.Context, userID string) any {
	ok, err := s.store.VIPs().IsVIP(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("vip lookup failed, returning false")
		return false
	}
	return ok
}

// lastSegmentID returns "" for users with no submissions.
func (s *UserInfoService) lastSegmentID(ctx context.Context, userID string) any {
	id, err := s.store.Segments().LastSegmentID(ctx, userID, true)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.log.Error().Err(err).Msg("lastSegmentID failed, returning blank")
		}
		return ""
	}
	return id
}

// permissions evaluates submission eligibility per allowed category. A
// failed check counts as not eligible for that category only.
func (s *UserInfoService) permissions(ctx context.Context, userID string) any {
	out := make(map[string]bool, len(s.categories))
	for _, category := range s.categories {
		ok, err := s.perms.CanSubmit(ctx, userID, category)
		if err != nil {
			s.log.Error().Err(err).Str("category", category).Msg("permission check failed")
			ok = false
		}
		out[category] = ok
	}
	return out
}

// freeChaptersAccess is granted if any eligibility branch holds: the user is
// a VIP, submitted a positive-reputation segment before the reputable
// cutoff, or submitted anything before the early cutoff. Branches race so a
// slow negative cannot delay a definite positive.
func (s *UserInfoService) freeChaptersAccess(ctx context.Context, userID string) any {
	return oneof.First(ctx,
		func(ctx context.Context) (bool, error) {
			return s.store.VIPs().IsVIP(ctx, userID)
		},
		func(ctx context.Context) (bool, error) {
			return s.store.Segments().HasReputableSubmissionBefore(ctx, userID, reputableSubmissionCutoffMillis, true)
		},
		func(ctx context.Context) (bool, error) {
			return s.store.Segments().HasSubmissionBefore(ctx, userID, earlySubmissionCutoffMillis, true)
		},
	)
}
