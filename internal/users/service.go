package users

import (
	"context"

	"studyhall/internal/shared/constants"
	"studyhall/pkg/cache"
	"studyhall/pkg/logger"

	"github.com/google/uuid"
)

// Service is the user directory used by the rest of the system and by the
// admin endpoints.
type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, query ListQuery) (*UserListResponse, error)
	EnableUser(ctx context.Context, id uuid.UUID) error
	DisableUser(ctx context.Context, id uuid.UUID) error
	AddStudyMinutes(ctx context.Context, id uuid.UUID, minutes int) error

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	logger       *logger.Logger
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo, logger: logger.GetDefault()}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, query ListQuery) (*UserListResponse, error) {
	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	return &UserListResponse{
		Users:      list,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: calculateTotalPages(total, query.Limit),
	}, nil
}

// EnableUser is the administrative way back from an automatic suspension
func (s *service) EnableUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetStatus(ctx, id, StatusEnabled); err != nil {
		return err
	}
	s.logger.WithUserID(id.String()).InfoContext(ctx, "User enabled")
	s.invalidateRanking(ctx)
	return nil
}

func (s *service) DisableUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetStatus(ctx, id, StatusDisabled); err != nil {
		return err
	}
	s.logger.LogUserDisabled(ctx, id.String(), "administrator")
	s.invalidateRanking(ctx)
	return nil
}

func (s *service) AddStudyMinutes(ctx context.Context, id uuid.UUID, minutes int) error {
	if err := s.repo.AddStudyMinutes(ctx, id, minutes); err != nil {
		return err
	}
	s.invalidateRanking(ctx)
	return nil
}

// disabled users drop out of the leaderboards
func (s *service) invalidateRanking(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_PATTERN_RANKING); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate ranking cache")
	}
}

func calculateTotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
