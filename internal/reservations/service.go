package reservations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyhall/internal/notifications"
	"studyhall/internal/seats"
	"studyhall/internal/settings"
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/constants"
	"studyhall/internal/shared/timeslot"
	"studyhall/internal/violations"
	"studyhall/pkg/cache"
	"studyhall/pkg/logger"

	"github.com/google/uuid"
)

// SettingsStore interface for the settings collaborator (to avoid circular dependency)
type SettingsStore interface {
	GetIntValue(ctx context.Context, key string, def int) int
	GetValue(ctx context.Context, key string) (string, bool)
	SetValue(ctx context.Context, key, value, description string) (*settings.Setting, error)
}

// ViolationRecorder records infractions detected here
type ViolationRecorder interface {
	Record(ctx context.Context, input violations.RecordInput) (*violations.Outcome, error)
}

// AvailabilityInvalidator drops cached seat maps for a date
type AvailabilityInvalidator interface {
	InvalidateAvailability(ctx context.Context, date string)
}

// MonthlyCounter zeroes the monthly study-minute counters
type MonthlyCounter interface {
	ResetMonthlyMinutes(ctx context.Context) (int64, error)
}

// Service interface defines the reservation lifecycle
type Service interface {
	CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)
	CancelReservation(ctx context.Context, userID, id uuid.UUID) (*ReservationResponse, error)
	CheckIn(ctx context.Context, userID, id uuid.UUID) (*ReservationResponse, error)
	CheckOut(ctx context.Context, userID, id uuid.UUID) (*CheckOutResponse, error)
	Rebook(ctx context.Context, userID, id uuid.UUID, req RebookRequest) (*RebookResponse, error)

	GetReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	ListReservations(ctx context.Context, query ListQuery) (*ReservationListResponse, error)
	HasConflict(ctx context.Context, seatID uuid.UUID, date, start, end string, exclude *uuid.UUID) (bool, error)

	// Background jobs
	ProcessNoShows(ctx context.Context) (int, error)
	ProcessOverstays(ctx context.Context) (int, error)
	ResetMonthlyIfDue(ctx context.Context) (bool, error)

	SetCacheService(cacheService cache.Service)
	SetClock(clock func() time.Time)
}

type service struct {
	repo         Repository
	settings     SettingsStore
	violations   ViolationRecorder
	availability AvailabilityInvalidator
	monthly      MonthlyCounter
	publisher    notifications.Publisher
	config       *config.Config
	cacheService cache.Service
	clock        func() time.Time
	logger       *logger.Logger
}

func NewService(
	repo Repository,
	settingsStore SettingsStore,
	recorder ViolationRecorder,
	availability AvailabilityInvalidator,
	monthly MonthlyCounter,
	publisher notifications.Publisher,
	cfg *config.Config,
) Service {
	return &service{
		repo:         repo,
		settings:     settingsStore,
		violations:   recorder,
		availability: availability,
		monthly:      monthly,
		publisher:    publisher,
		config:       cfg,
		clock:        time.Now,
		logger:       logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// SetClock replaces the wall clock
func (s *service) SetClock(clock func() time.Time) {
	s.clock = clock
}

//  LIFECYCLE

func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return nil, seats.ErrSeatNotFound.Withf("invalid seat id %q", req.SeatID)
	}
	date, interval, err := s.validateSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	res := &Reservation{
		UserID:      userID,
		SeatID:      seatID,
		ReserveDate: date,
		StartMinute: interval.Start,
		EndMinute:   interval.End,
		Status:      StatusBooked,
	}
	if err := s.repo.CreateWithGuards(ctx, res, s.dailyLimit(ctx)); err != nil {
		return nil, err
	}

	s.logger.LogReservationCreated(ctx, res.ID.String(), seatID.String(), userID.String(), res.ReserveDate)
	s.afterChange(ctx, res, notifications.EventReservationCreated, nil)

	out := res.ToResponse()
	return &out, nil
}

func (s *service) CancelReservation(ctx context.Context, userID, id uuid.UUID) (*ReservationResponse, error) {
	res, err := s.ownedReservation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrNotBooked
	}

	now := s.clock().UTC()
	if err := s.repo.Cancel(ctx, id, now); err != nil {
		return nil, err
	}
	res.Status = StatusCancelled
	res.CancelledAt = &now

	s.logger.LogReservationTransition(ctx, id.String(), userID.String(), string(StatusBooked), string(StatusCancelled))
	s.afterChange(ctx, res, notifications.EventReservationCancelled, nil)
	s.reportLateCancel(ctx, res, now)

	out := res.ToResponse()
	return &out, nil
}

// CheckIn is accepted from lead minutes before the start until the end
func (s *service) CheckIn(ctx context.Context, userID, id uuid.UUID) (*ReservationResponse, error) {
	res, err := s.ownedReservation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusBooked {
		return nil, ErrNotBooked
	}

	startAt, endAt, err := s.slotBounds(res)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	opensAt := startAt.Add(-time.Duration(s.checkInLead(ctx)) * time.Minute)
	if now.Before(opensAt) {
		return nil, ErrCheckInTooEarly.Withf("check-in opens at %s", opensAt.In(s.config.Location()).Format("15:04"))
	}
	if now.After(endAt) {
		return nil, ErrCheckInExpired
	}

	at := now.UTC()
	if err := s.repo.CheckIn(ctx, id, at); err != nil {
		return nil, err
	}
	res.Status = StatusCheckedIn
	res.CheckInAt = &at

	s.logger.LogReservationTransition(ctx, id.String(), userID.String(), string(StatusBooked), string(StatusCheckedIn))
	s.afterChange(ctx, res, notifications.EventReservationCheckedIn, nil)

	out := res.ToResponse()
	return &out, nil
}

// CheckOut credits floor(check-out - check-in) minutes to both counters
func (s *service) CheckOut(ctx context.Context, userID, id uuid.UUID) (*CheckOutResponse, error) {
	res, err := s.ownedReservation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusCheckedIn || res.CheckInAt == nil {
		return nil, ErrNotCheckedIn
	}

	at := s.clock().UTC()
	minutes := timeslot.ElapsedMinutes(*res.CheckInAt, at)
	if err := s.repo.CheckOut(ctx, id, userID, at, minutes); err != nil {
		return nil, err
	}
	res.Status = StatusCheckedOut
	res.CheckOutAt = &at
	res.StudyMinutes = minutes

	s.logger.LogReservationTransition(ctx, id.String(), userID.String(), string(StatusCheckedIn), string(StatusCheckedOut))
	s.afterChange(ctx, res, notifications.EventReservationCheckedOut, map[string]interface{}{
		"study_minutes": minutes,
	})
	if minutes > 0 {
		s.invalidateRanking(ctx)
	}

	return &CheckOutResponse{Reservation: res.ToResponse(), StudyMinutes: minutes}, nil
}

// Rebook cancels a BOOKED reservation and books the new slot in one
// transaction; on any rejection the original stays BOOKED.
func (s *service) Rebook(ctx context.Context, userID, id uuid.UUID, req RebookRequest) (*RebookResponse, error) {
	current, err := s.ownedReservation(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusBooked {
		return nil, ErrNotBooked
	}

	seatID := current.SeatID
	if req.SeatID != "" {
		if seatID, err = uuid.Parse(req.SeatID); err != nil {
			return nil, seats.ErrSeatNotFound.Withf("invalid seat id %q", req.SeatID)
		}
	}
	date, interval, err := s.validateSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	next := &Reservation{
		UserID:      userID,
		SeatID:      seatID,
		ReserveDate: date,
		StartMinute: interval.Start,
		EndMinute:   interval.End,
		Status:      StatusBooked,
	}
	old, err := s.repo.Rebook(ctx, id, next, s.dailyLimit(ctx), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.LogReservationTransition(ctx, old.ID.String(), userID.String(), string(StatusBooked), string(StatusCancelled))
	s.logger.LogReservationCreated(ctx, next.ID.String(), next.SeatID.String(), userID.String(), next.ReserveDate)
	s.afterChange(ctx, old, notifications.EventReservationCancelled, nil)
	s.afterChange(ctx, next, notifications.EventReservationRebooked, map[string]interface{}{
		"rebooked_from": old.ID.String(),
	})

	return &RebookResponse{Cancelled: old.ToResponse(), Created: next.ToResponse()}, nil
}

//  QUERIES

func (s *service) GetReservation(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := res.ToResponse()
	return &out, nil
}

func (s *service) ListReservations(ctx context.Context, query ListQuery) (*ReservationListResponse, error) {
	if query.Date != "" {
		if _, err := timeslot.ParseDate(query.Date, s.config.Location()); err != nil {
			return nil, timeslot.ErrInvalidDate
		}
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

	out := make([]ReservationResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return &ReservationListResponse{
		Reservations: out,
		Total:        total,
		Page:         query.Page,
		Limit:        query.Limit,
		TotalPages:   int((total + int64(query.Limit) - 1) / int64(query.Limit)),
	}, nil
}

func (s *service) HasConflict(ctx context.Context, seatID uuid.UUID, date, start, end string, exclude *uuid.UUID) (bool, error) {
	if _, err := timeslot.ParseDate(date, s.config.Location()); err != nil {
		return false, timeslot.ErrInvalidDate
	}
	interval, err := parseInterval(start, end)
	if err != nil {
		return false, err
	}
	return s.repo.HasConflict(ctx, seatID, date, interval, exclude)
}

//  BACKGROUND DETECTION

// ProcessNoShows reports BOOKED reservations whose slot has ended. They are
// never cancelled; the row keeps its status for the audit trail.
func (s *service) ProcessNoShows(ctx context.Context) (int, error) {
	loc := s.config.Location()
	now := s.clock()
	list, err := s.repo.FindNoShows(ctx, timeslot.Today(now, loc), timeslot.MinuteOfDay(now, loc), s.batchSize())
	if err != nil {
		return 0, err
	}

	reported := 0
	for i := range list {
		res := &list[i]
		ok := s.report(ctx, res, violations.TypeNoShow,
			fmt.Sprintf("no check-in for %s %s-%s", res.ReserveDate, timeslot.FormatClock(res.StartMinute), timeslot.FormatClock(res.EndMinute)))
		if ok {
			reported++
		}
	}
	return reported, nil
}

// ProcessOverstays reports CHECKED_IN reservations still open longer than
// the configured grace after their end.
func (s *service) ProcessOverstays(ctx context.Context) (int, error) {
	loc := s.config.Location()
	cutoff := s.clock().Add(-s.config.Reservation.OverstayGrace)
	list, err := s.repo.FindOverstays(ctx, timeslot.Today(cutoff, loc), timeslot.MinuteOfDay(cutoff, loc), s.batchSize())
	if err != nil {
		return 0, err
	}

	reported := 0
	for i := range list {
		res := &list[i]
		ok := s.report(ctx, res, violations.TypeOverstay,
			fmt.Sprintf("not checked out after %s on %s", timeslot.FormatClock(res.EndMinute), res.ReserveDate))
		if ok {
			reported++
		}
	}
	return reported, nil
}

// ResetMonthlyIfDue zeroes monthly counters once per calendar month. The
// last reset period is kept in the settings table.
func (s *service) ResetMonthlyIfDue(ctx context.Context) (bool, error) {
	period := s.clock().In(s.config.Location()).Format(timeslot.MonthLayout)
	last, ok := s.settings.GetValue(ctx, settings.KeyMonthlyResetPeriod)
	if ok && last == period {
		return false, nil
	}
	if !ok {
		// first run on a fresh database: nothing to reset yet
		_, err := s.settings.SetValue(ctx, settings.KeyMonthlyResetPeriod, period, "last monthly study-minute reset")
		return false, err
	}

	affected, err := s.monthly.ResetMonthlyMinutes(ctx)
	if err != nil {
		return false, err
	}
	if _, err := s.settings.SetValue(ctx, settings.KeyMonthlyResetPeriod, period, "last monthly study-minute reset"); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "Monthly study minutes reset",
		slog.String("period", period),
		slog.Int64("users", affected))
	s.invalidateRanking(ctx)
	return true, nil
}

// report records one detected violation. Duplicates from an earlier scan are skipped.
func (s *service) report(ctx context.Context, res *Reservation, typ violations.Type, description string) bool {
	reservationID := res.ID
	_, err := s.violations.Record(ctx, violations.RecordInput{
		UserID:        res.UserID,
		ReservationID: &reservationID,
		Type:          typ,
		Description:   description,
	})
	if err != nil {
		if !errors.Is(err, violations.ErrAlreadyReported) {
			s.logger.WithError(err).ErrorContext(ctx, "Failed to record violation",
				slog.String("reservation_id", res.ID.String()),
				slog.String("type", string(typ)))
		}
		return false
	}
	s.invalidateStatistics(ctx, res.ReserveDate)
	return true
}

// reportLateCancel records ABUSIVE_CANCEL when a cancellation lands inside
// late_cancel_minutes before the start. 0 turns the rule off.
func (s *service) reportLateCancel(ctx context.Context, res *Reservation, now time.Time) {
	window := s.settings.GetIntValue(ctx, settings.KeyLateCancelMinutes, s.config.Reservation.LateCancelMinutes)
	if window <= 0 {
		return
	}
	startAt, _, err := s.slotBounds(res)
	if err != nil {
		return
	}
	if now.Before(startAt.Add(-time.Duration(window) * time.Minute)) {
		return
	}
	s.report(ctx, res, violations.TypeAbusiveCancel,
		fmt.Sprintf("cancelled within %d minutes of %s %s", window, res.ReserveDate, timeslot.FormatClock(res.StartMinute)))
}

//  HELPERS

func (s *service) ownedReservation(ctx context.Context, userID, id uuid.UUID) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return res, nil
}

// validateSlot checks format, start < end, and that the slot is not in the
// past. It returns the date in canonical YYYY-MM-DD form.
func (s *service) validateSlot(date, start, end string) (string, timeslot.Interval, error) {
	loc := s.config.Location()
	d, err := timeslot.ParseDate(date, loc)
	if err != nil {
		return "", timeslot.Interval{}, timeslot.ErrInvalidDate.Wrap(err)
	}
	date = d.Format(timeslot.DateLayout)
	interval, err := parseInterval(start, end)
	if err != nil {
		return "", timeslot.Interval{}, err
	}

	now := s.clock()
	today := timeslot.Today(now, loc)
	if date < today {
		return "", timeslot.Interval{}, ErrPastDate
	}
	if date == today && interval.End <= timeslot.MinuteOfDay(now, loc) {
		return "", timeslot.Interval{}, ErrSlotEnded
	}
	return date, interval, nil
}

func parseInterval(start, end string) (timeslot.Interval, error) {
	s, err := timeslot.ParseClock(start)
	if err != nil {
		return timeslot.Interval{}, timeslot.ErrInvalidClock.Wrap(err)
	}
	e, err := timeslot.ParseClock(end)
	if err != nil {
		return timeslot.Interval{}, timeslot.ErrInvalidClock.Wrap(err)
	}
	if s >= e {
		return timeslot.Interval{}, timeslot.ErrInvalidRange
	}
	return timeslot.Interval{Start: s, End: e}, nil
}

func (s *service) slotBounds(res *Reservation) (time.Time, time.Time, error) {
	loc := s.config.Location()
	startAt, err := timeslot.At(res.ReserveDate, res.StartMinute, loc)
	if err != nil {
		return time.Time{}, time.Time{}, timeslot.ErrInvalidDate.Wrap(err)
	}
	endAt, err := timeslot.At(res.ReserveDate, res.EndMinute, loc)
	if err != nil {
		return time.Time{}, time.Time{}, timeslot.ErrInvalidDate.Wrap(err)
	}
	return startAt, endAt, nil
}

func (s *service) dailyLimit(ctx context.Context) int {
	def := s.config.Reservation.DailyLimit
	limit := s.settings.GetIntValue(ctx, settings.KeyDailyLimit, def)
	if limit < 1 {
		return def
	}
	return limit
}

func (s *service) checkInLead(ctx context.Context) int {
	def := s.config.Reservation.CheckInLeadMinutes
	lead := s.settings.GetIntValue(ctx, settings.KeyCheckInLeadMinutes, def)
	if lead < 0 {
		return def
	}
	return lead
}

func (s *service) batchSize() int {
	if s.config.Reservation.ScanBatchSize > 0 {
		return s.config.Reservation.ScanBatchSize
	}
	return 100
}

// afterChange publishes the event and drops caches derived from the reservation table
func (s *service) afterChange(ctx context.Context, res *Reservation, eventType notifications.EventType, extra map[string]interface{}) {
	data := map[string]interface{}{
		"date":       res.ReserveDate,
		"start_time": timeslot.FormatClock(res.StartMinute),
		"end_time":   timeslot.FormatClock(res.EndMinute),
		"status":     string(res.Status),
	}
	for k, v := range extra {
		data[k] = v
	}
	notifications.Emit(ctx, s.publisher, notifications.NewEvent(eventType, res.UserID, data).ForReservation(res.ID, res.SeatID))

	if s.availability != nil {
		s.availability.InvalidateAvailability(ctx, res.ReserveDate)
	}
	s.invalidateStatistics(ctx, res.ReserveDate)
}

func (s *service) invalidateStatistics(ctx context.Context, date string) {
	if s.cacheService == nil {
		return
	}
	keys := []string{constants.BuildStatisticsDailyKey(date)}
	if len(date) >= len(timeslot.MonthLayout) {
		keys = append(keys, constants.BuildStatisticsMonthlyKey(date[:len(timeslot.MonthLayout)]))
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate statistics cache", slog.String("key", key))
		}
	}
}

func (s *service) invalidateRanking(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_PATTERN_RANKING); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate ranking cache")
	}
}
