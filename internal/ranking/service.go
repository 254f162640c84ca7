package ranking

import (
	"context"

	"studyhall/internal/shared/constants"
	"studyhall/internal/users"
	"studyhall/pkg/cache"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// UserDirectory is the part of the user repository the leaderboards read
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	TopBy(ctx context.Context, counter users.Counter, limit int) ([]users.User, error)
	CountAbove(ctx context.Context, counter users.Counter, value int) (int64, error)
}

// Service computes leaderboards on read. Only enabled users with a positive
// counter are ranked; ties share a rank and are listed by user id.
type Service interface {
	TopByMonthly(ctx context.Context, limit int) ([]RankEntry, error)
	TopByTotal(ctx context.Context, limit int) ([]RankEntry, error)
	RankOf(ctx context.Context, userID uuid.UUID) (*UserRank, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	users        UserDirectory
	cacheService cache.Service
}

func NewService(directory UserDirectory) Service {
	return &service{users: directory}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) TopByMonthly(ctx context.Context, limit int) ([]RankEntry, error) {
	limit = clampLimit(limit)
	return s.top(ctx, users.CounterMonthly, limit, constants.BuildRankingMonthlyKey(limit))
}

func (s *service) TopByTotal(ctx context.Context, limit int) ([]RankEntry, error) {
	limit = clampLimit(limit)
	return s.top(ctx, users.CounterTotal, limit, constants.BuildRankingTotalKey(limit))
}

func (s *service) top(ctx context.Context, counter users.Counter, limit int, key string) ([]RankEntry, error) {
	if s.cacheService == nil {
		return s.load(ctx, counter, limit)
	}

	var entries []RankEntry
	err := s.cacheService.GetOrSet(ctx, key, constants.TTL_RANKING, func() (interface{}, error) {
		return s.load(ctx, counter, limit)
	}, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *service) load(ctx context.Context, counter users.Counter, limit int) ([]RankEntry, error) {
	list, err := s.users.TopBy(ctx, counter, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]RankEntry, 0, len(list))
	for i := range list {
		u := &list[i]
		minutes := counter.Value(u)
		rank := i + 1
		// equal counters share the rank of the first holder
		if i > 0 && entries[i-1].Minutes == minutes {
			rank = entries[i-1].Rank
		}
		entries = append(entries, RankEntry{
			Rank:    rank,
			UserID:  u.ID,
			Name:    u.FullName(),
			Minutes: minutes,
		})
	}
	return entries, nil
}

// RankOf is 1 + the number of enabled users with a strictly greater counter
func (s *service) RankOf(ctx context.Context, userID uuid.UUID) (*UserRank, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &UserRank{
		UserID:         u.ID,
		MonthlyMinutes: u.MonthlyStudyMinutes,
		TotalMinutes:   u.TotalStudyMinutes,
	}
	if !u.IsEnabled() {
		return out, nil
	}
	if out.MonthlyRank, err = s.position(ctx, users.CounterMonthly, u.MonthlyStudyMinutes); err != nil {
		return nil, err
	}
	if out.TotalRank, err = s.position(ctx, users.CounterTotal, u.TotalStudyMinutes); err != nil {
		return nil, err
	}
	return out, nil
}

// position returns nil for an unranked (zero) counter
func (s *service) position(ctx context.Context, counter users.Counter, value int) (*int, error) {
	if value <= 0 {
		return nil, nil
	}
	above, err := s.users.CountAbove(ctx, counter, value)
	if err != nil {
		return nil, err
	}
	rank := int(above) + 1
	return &rank, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
