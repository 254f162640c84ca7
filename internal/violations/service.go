package violations

import (
	"context"
	"log/slog"
	"strings"

	"studyhall/internal/notifications"
	"studyhall/internal/settings"
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/constants"
	"studyhall/pkg/cache"
	"studyhall/pkg/logger"

	"github.com/google/uuid"
)

// SettingsReader is the part of the settings store used for the threshold
type SettingsReader interface {
	GetIntValue(ctx context.Context, key string, def int) int
}

// RecordInput describes one infraction to record
type RecordInput struct {
	UserID        uuid.UUID
	ReservationID *uuid.UUID
	Type          Type
	Description   string
}

type Service interface {
	// Record stores the violation and disables the account once the user's
	// point sum reaches violation_limit.
	Record(ctx context.Context, input RecordInput) (*Outcome, error)

	GetViolation(ctx context.Context, id uuid.UUID) (*Violation, error)
	ListViolations(ctx context.Context, query ListQuery) (*ViolationListResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Violation, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	settings     SettingsReader
	publisher    notifications.Publisher
	config       *config.Config
	cacheService cache.Service
	logger       *logger.Logger
}

func NewService(repo Repository, settingsReader SettingsReader, publisher notifications.Publisher, cfg *config.Config) Service {
	return &service{
		repo:      repo,
		settings:  settingsReader,
		publisher: publisher,
		config:    cfg,
		logger:    logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) Record(ctx context.Context, input RecordInput) (*Outcome, error) {
	if !input.Type.IsValid() {
		return nil, ErrInvalidType
	}

	v := &Violation{
		UserID:        input.UserID,
		ReservationID: input.ReservationID,
		Type:          input.Type,
		Points:        input.Type.Points(),
		Description:   strings.TrimSpace(input.Description),
		Status:        StatusUnhandled,
	}

	limit := s.limit(ctx)
	outcome, err := s.repo.RecordAndEvaluate(ctx, v, limit)
	if err != nil {
		return nil, err
	}

	s.logger.LogViolationRecorded(ctx, v.UserID.String(), string(v.Type), v.Points, outcome.TotalPoints, limit)

	event := notifications.NewEvent(notifications.EventViolationRecorded, v.UserID, map[string]interface{}{
		"violation_id": v.ID.String(),
		"type":         string(v.Type),
		"points":       v.Points,
		"total_points": outcome.TotalPoints,
		"limit":        limit,
	})
	event.ReservationID = v.ReservationID
	notifications.Emit(ctx, s.publisher, event)

	if outcome.Disabled {
		s.logger.LogUserDisabled(ctx, v.UserID.String(), "violation limit reached")
		notifications.Emit(ctx, s.publisher, notifications.NewEvent(notifications.EventUserDisabled, v.UserID, map[string]interface{}{
			"reason":       "violation_limit",
			"total_points": outcome.TotalPoints,
			"limit":        limit,
		}))
		s.invalidateRanking(ctx)
	}
	return outcome, nil
}

func (s *service) GetViolation(ctx context.Context, id uuid.UUID) (*Violation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListViolations(ctx context.Context, query ListQuery) (*ViolationListResponse, error) {
	if query.Status != "" && !query.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if query.Type != "" && !query.Type.IsValid() {
		return nil, ErrInvalidType
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}

	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ViolationListResponse{
		Violations: list,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int((total + int64(query.Limit) - 1) / int64(query.Limit)),
	}, nil
}

// SetStatus has no effect on the account or on the threshold sum
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Violation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	v, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Violation status changed",
		slog.String("violation_id", id.String()),
		slog.String("user_id", v.UserID.String()),
		slog.String("status", string(status)))
	return v, nil
}

func (s *service) GetSummary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error) {
	total, err := s.repo.TotalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	limit := s.limit(ctx)
	remaining := limit - total
	if remaining < 0 {
		remaining = 0
	}
	return &SummaryResponse{UserID: userID, TotalPoints: total, Limit: limit, Remaining: remaining}, nil
}

// limit falls back to the configured default when the setting is missing or not positive
func (s *service) limit(ctx context.Context) int {
	def := s.config.Reservation.ViolationLimit
	limit := s.settings.GetIntValue(ctx, settings.KeyViolationLimit, def)
	if limit < 1 {
		return def
	}
	return limit
}

func (s *service) invalidateRanking(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_PATTERN_RANKING); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate ranking cache")
	}
}
