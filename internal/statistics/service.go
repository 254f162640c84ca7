package statistics

import (
	"context"
	"fmt"

	"studyhall/internal/shared/config"
	"studyhall/internal/shared/constants"
	"studyhall/internal/shared/timeslot"
	"studyhall/pkg/cache"
)

// Service defines the statistics reporter
type Service interface {
	GetDaily(ctx context.Context, date string) (*DailyStatistics, error)
	GetMonthly(ctx context.Context, month string) (*MonthlyStatistics, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	config       *config.Config
	cacheService cache.Service
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, config: cfg}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetDaily(ctx context.Context, date string) (*DailyStatistics, error) {
	if _, err := timeslot.ParseDate(date, s.config.Location()); err != nil {
		return nil, timeslot.ErrInvalidDate.Wrap(err)
	}

	load := func() (interface{}, error) {
		days, err := s.collect(ctx, date, date)
		if err != nil {
			return nil, err
		}
		return &days[0], nil
	}
	if s.cacheService == nil {
		result, err := load()
		if err != nil {
			return nil, err
		}
		return result.(*DailyStatistics), nil
	}

	var result DailyStatistics
	if err := s.cacheService.GetOrSet(ctx, constants.BuildStatisticsDailyKey(date), constants.TTL_STATISTICS_DAILY, load, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) GetMonthly(ctx context.Context, month string) (*MonthlyStatistics, error) {
	first, err := timeslot.ParseMonth(month, s.config.Location())
	if err != nil {
		return nil, ErrInvalidMonth.Wrap(err)
	}
	last := first.AddDate(0, 1, -1)

	load := func() (interface{}, error) {
		days, err := s.collect(ctx, first.Format(timeslot.DateLayout), last.Format(timeslot.DateLayout))
		if err != nil {
			return nil, err
		}
		out := &MonthlyStatistics{Month: month, Days: days, Totals: DailyStatistics{Date: month}}
		for _, d := range days {
			out.Totals.add(d)
		}
		return out, nil
	}
	if s.cacheService == nil {
		result, err := load()
		if err != nil {
			return nil, err
		}
		return result.(*MonthlyStatistics), nil
	}

	var result MonthlyStatistics
	if err := s.cacheService.GetOrSet(ctx, constants.BuildStatisticsMonthlyKey(month), constants.TTL_STATISTICS_MONTHLY, load, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// collect builds one entry per date in [from, to], zero-filled
func (s *service) collect(ctx context.Context, from, to string) ([]DailyStatistics, error) {
	loc := s.config.Location()
	start, err := timeslot.ParseDate(from, loc)
	if err != nil {
		return nil, timeslot.ErrInvalidDate.Wrap(err)
	}
	end, err := timeslot.ParseDate(to, loc)
	if err != nil {
		return nil, timeslot.ErrInvalidDate.Wrap(err)
	}

	var days []DailyStatistics
	index := make(map[string]int)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(timeslot.DateLayout)
		index[key] = len(days)
		days = append(days, DailyStatistics{Date: key})
	}

	rows, err := s.repo.StatusCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	for _, row := range rows {
		if i, ok := index[row.ReserveDate]; ok {
			days[i].apply(row)
		}
	}

	noShows, err := s.repo.NoShowCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count no-shows: %w", err)
	}
	for _, row := range noShows {
		if i, ok := index[row.ReserveDate]; ok {
			days[i].NoShows += row.Count
		}
	}

	times, err := s.repo.ViolationTimes(ctx, start.UTC(), end.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count violations: %w", err)
	}
	for _, t := range times {
		if i, ok := index[t.In(loc).Format(timeslot.DateLayout)]; ok {
			days[i].Violations++
		}
	}
	return days, nil
}
