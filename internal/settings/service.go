package settings

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"studyhall/pkg/logger"
)

// Service is the settings store. Integer reads never fail: a missing,
// unreadable or malformed value yields the caller's default.
type Service interface {
	GetIntValue(ctx context.Context, key string, def int) int
	GetValue(ctx context.Context, key string) (string, bool)
	SetValue(ctx context.Context, key, value, description string) (*Setting, error)
	List(ctx context.Context) ([]Setting, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{repo: repo, logger: logger.GetDefault()}
}

func (s *service) GetIntValue(ctx context.Context, key string, def int) int {
	raw, ok := s.GetValue(ctx, key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Warn("setting is not an integer, using default",
			slog.String("key", key), slog.String("value", raw), slog.Int("default", def))
		return def
	}
	return v
}

func (s *service) GetValue(ctx context.Context, key string) (string, bool) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			s.logger.WithError(err).Warn("setting lookup failed", slog.String("key", key))
		}
		return "", false
	}
	return setting.Value, true
}

func (s *service) SetValue(ctx context.Context, key, value, description string) (*Setting, error) {
	setting := &Setting{Key: key, Value: value, Description: description}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Setting updated", slog.String("key", key), slog.String("value", value))
	return setting, nil
}

func (s *service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}
