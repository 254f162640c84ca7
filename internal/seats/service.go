package seats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyhall/internal/shared/config"
	"studyhall/internal/shared/constants"
	"studyhall/internal/shared/timeslot"
	"studyhall/pkg/cache"
	"studyhall/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationLookup is the slice of the reservation store the seat directory
// needs. Declared here to avoid a circular dependency with reservations.
type ReservationLookup interface {
	// CountActiveBySeat counts BOOKED and CHECKED_IN reservations of a seat inside tx
	CountActiveBySeat(tx *gorm.DB, seatID uuid.UUID) (int64, error)
	// OccupiedSeatIDs returns seats holding an active reservation overlapping interval on date
	OccupiedSeatIDs(ctx context.Context, date string, interval timeslot.Interval) ([]uuid.UUID, error)
}

type Service interface {
	CreateSeat(ctx context.Context, req CreateSeatRequest) (*Seat, error)
	GetSeat(ctx context.Context, id uuid.UUID) (*Seat, error)
	ListSeats(ctx context.Context, query ListQuery) ([]Seat, error)
	UpdateSeat(ctx context.Context, id uuid.UUID, req UpdateSeatRequest) (*Seat, error)
	SetSeatStatus(ctx context.Context, id uuid.UUID, status Status) (*Seat, error)
	DeleteSeat(ctx context.Context, id uuid.UUID) error

	GetAvailability(ctx context.Context, date, start, end string) (*AvailabilityResponse, error)
	// InvalidateAvailability drops cached availability maps for date, or for every date when empty
	InvalidateAvailability(ctx context.Context, date string)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	reservations ReservationLookup
	config       *config.Config
	cacheService cache.Service
	logger       *logger.Logger
}

func NewService(repo Repository, reservations ReservationLookup, cfg *config.Config) Service {
	return &service{
		repo:         repo,
		reservations: reservations,
		config:       cfg,
		logger:       logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

//  SEAT MANAGEMENT

func (s *service) CreateSeat(ctx context.Context, req CreateSeatRequest) (*Seat, error) {
	seat := &Seat{
		SeatNumber: strings.TrimSpace(req.SeatNumber),
		Area:       strings.TrimSpace(req.Area),
		Status:     Status(req.Status),
		Remark:     req.Remark,
	}
	if seat.SeatNumber == "" || seat.Area == "" {
		return nil, ErrBlankSeatField
	}
	if err := s.repo.Create(ctx, seat); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Seat created",
		slog.String("seat_id", seat.ID.String()),
		slog.String("seat_number", seat.SeatNumber),
		slog.String("area", seat.Area))
	s.invalidateDirectory(ctx)
	return seat, nil
}

func (s *service) GetSeat(ctx context.Context, id uuid.UUID) (*Seat, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSeats(ctx context.Context, query ListQuery) ([]Seat, error) {
	if s.cacheService == nil || query.Area != "" || query.Status != "" {
		return s.repo.List(ctx, query)
	}

	var list []Seat
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_SEATS_LIST, constants.TTL_SEAT_LIST, func() (interface{}, error) {
		return s.repo.List(ctx, query)
	}, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) UpdateSeat(ctx context.Context, id uuid.UUID, req UpdateSeatRequest) (*Seat, error) {
	updates := make(map[string]interface{})
	for column, value := range map[string]*string{"seat_number": req.SeatNumber, "area": req.Area} {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil, ErrBlankSeatField
		}
		updates[column] = trimmed
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Remark != nil {
		updates["remark"] = *req.Remark
	}
	if len(updates) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	s.invalidateDirectory(ctx)
	return s.repo.GetByID(ctx, id)
}

// SetSeatStatus enables or disables a seat. Existing reservations are left as they are.
func (s *service) SetSeatStatus(ctx context.Context, id uuid.UUID, status Status) (*Seat, error) {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Seat status changed",
		slog.String("seat_id", id.String()),
		slog.String("status", string(status)))
	s.invalidateDirectory(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *service) DeleteSeat(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, func(tx *gorm.DB) error {
		active, err := s.reservations.CountActiveBySeat(tx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrSeatHasActiveReservations
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Seat deleted", slog.String("seat_id", id.String()))
	s.invalidateDirectory(ctx)
	return nil
}

//  AVAILABILITY

func (s *service) GetAvailability(ctx context.Context, date, start, end string) (*AvailabilityResponse, error) {
	if _, err := timeslot.ParseDate(date, s.config.Location()); err != nil {
		return nil, timeslot.ErrInvalidDate.Wrap(err)
	}
	interval, err := timeslot.NewInterval(start, end)
	if err != nil {
		return nil, timeslot.ErrInvalidRange.Wrap(err)
	}

	if s.cacheService == nil {
		return s.buildAvailability(ctx, date, interval)
	}

	var result AvailabilityResponse
	key := constants.BuildAvailabilityKey(date, timeslot.FormatClock(interval.Start), timeslot.FormatClock(interval.End))
	err = s.cacheService.GetOrSet(ctx, key, constants.TTL_SEAT_AVAILABILITY, func() (interface{}, error) {
		return s.buildAvailability(ctx, date, interval)
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// buildAvailability is recomputed from the reservation table on every miss;
// no seat state is held in memory.
func (s *service) buildAvailability(ctx context.Context, date string, interval timeslot.Interval) (*AvailabilityResponse, error) {
	seatList, err := s.repo.List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	occupiedIDs, err := s.reservations.OccupiedSeatIDs(ctx, date, interval)
	if err != nil {
		return nil, err
	}
	occupied := make(map[uuid.UUID]bool, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = true
	}

	areas := make(map[string]*AreaAvailability)
	for _, seat := range seatList {
		area, ok := areas[seat.Area]
		if !ok {
			area = &AreaAvailability{Area: seat.Area, Seats: []SeatAvailability{}}
			areas[seat.Area] = area
		}

		available := seat.IsEnabled() && !occupied[seat.ID]
		area.Total++
		if available {
			area.Available++
		}
		area.Seats = append(area.Seats, SeatAvailability{
			SeatID:     seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			Status:     string(seat.Status),
			Available:  available,
		})
	}

	result := &AvailabilityResponse{
		Date:      date,
		StartTime: timeslot.FormatClock(interval.Start),
		EndTime:   timeslot.FormatClock(interval.End),
		Areas:     make(map[string]AreaAvailability, len(areas)),
	}
	for name, area := range areas {
		result.Areas[name] = *area
		result.TotalSeats += area.Total
		result.AvailableSeats += area.Available
	}
	result.GeneratedAt = time.Now().UTC()
	return result, nil
}

func (s *service) InvalidateAvailability(ctx context.Context, date string) {
	if s.cacheService == nil {
		return
	}
	pattern := constants.CACHE_KEY_SEATS_AVAILABILITY + "*"
	if date != "" {
		pattern = constants.BuildAvailabilityPattern(date)
	}
	if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate availability cache", slog.String("pattern", pattern))
	}
}

// invalidateDirectory drops the seat list and every availability map
func (s *service) invalidateDirectory(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.CACHE_KEY_SEATS_LIST); err != nil {
		s.logger.WithError(err).Warn(fmt.Sprintf("Failed to delete %s", constants.CACHE_KEY_SEATS_LIST))
	}
	s.InvalidateAvailability(ctx, "")
}
