package reservations

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"studyhall/internal/notifications"
	"studyhall/internal/seats"
	"studyhall/internal/settings"
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/timeslot"
	"studyhall/internal/users"
	"studyhall/internal/violations"
	"studyhall/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const day = "2026-03-10"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&settings.Setting{},
		&seats.Seat{},
		&Reservation{},
		&violations.Violation{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Reservation: config.ReservationConfig{
			Timezone:           "UTC",
			DailyLimit:         3,
			CheckInLeadMinutes: 15,
			ViolationLimit:     3,
			OverstayGrace:      30 * time.Minute,
			ScanBatchSize:      100,
		},
	}
}

type fixture struct {
	t          *testing.T
	db         *gorm.DB
	now        time.Time
	svc        Service
	users      users.Repository
	seats      seats.Repository
	settings   settings.Service
	violations violations.Repository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	cfg := testConfig()

	f := &fixture{
		t:          t,
		db:         db,
		now:        clock(day, "08:00"),
		users:      users.NewRepository(db),
		seats:      seats.NewRepository(db),
		settings:   settings.NewService(settings.NewRepository(db)),
		violations: violations.NewRepository(db),
	}

	memCache := cache.NewMemoryService(time.Minute)
	publisher := notifications.NewLogPublisher()
	repo := NewRepository(db)

	seatService := seats.NewService(f.seats, repo, cfg)
	seatService.SetCacheService(memCache)
	violationService := violations.NewService(f.violations, f.settings, publisher, cfg)

	f.svc = NewService(repo, f.settings, violationService, seatService, f.users, publisher, cfg)
	f.svc.SetCacheService(memCache)
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func clock(date, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) at(date, hhmm string) {
	f.now = clock(date, hhmm)
}

func (f *fixture) user(email string) uuid.UUID {
	u := &users.User{FirstName: "Test", LastName: "User", Email: email, Password: "x"}
	require.NoError(f.t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) seat(number string) uuid.UUID {
	s := &seats.Seat{SeatNumber: number, Area: "Quiet"}
	require.NoError(f.t, f.seats.Create(context.Background(), s))
	return s.ID
}

func (f *fixture) book(userID, seatID uuid.UUID, date, start, end string) (*ReservationResponse, error) {
	return f.svc.CreateReservation(context.Background(), userID, CreateReservationRequest{
		SeatID:    seatID.String(),
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
}

func (f *fixture) mustBook(userID, seatID uuid.UUID, date, start, end string) *ReservationResponse {
	res, err := f.book(userID, seatID, date, start, end)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) status(id uuid.UUID) Status {
	var res Reservation
	require.NoError(f.t, f.db.First(&res, "id = ?", id).Error)
	return res.Status
}

func TestCreateReservation_OverlapAndAdjacency(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	bob := f.user("bob@test.local")
	s1 := f.seat("Q-01")

	first := f.mustBook(alice, s1, day, "09:00", "10:00")
	assert.Equal(t, StatusBooked, first.Status)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "10:00", first.EndTime)

	_, err := f.book(bob, s1, day, "09:30", "10:30")
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.book(bob, s1, day, "08:30", "09:01")
	assert.ErrorIs(t, err, ErrSlotTaken)

	adjacent, err := f.book(bob, s1, day, "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, adjacent.Status)

	// a cancelled reservation frees its interval
	_, err = f.svc.CancelReservation(context.Background(), alice, first.ID)
	require.NoError(t, err)
	_, err = f.book(bob, s1, day, "09:00", "10:00")
	assert.NoError(t, err)
}

func TestCreateReservation_DailyLimit(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1, s2, s3, s4 := f.seat("Q-01"), f.seat("Q-02"), f.seat("Q-03"), f.seat("Q-04")

	f.mustBook(alice, s1, day, "09:00", "10:00")
	f.mustBook(alice, s2, day, "10:00", "11:00")
	f.mustBook(alice, s3, day, "11:00", "12:00")

	_, err := f.book(alice, s4, day, "13:00", "14:00")
	assert.ErrorIs(t, err, ErrDailyLimitReached)

	_, err = f.book(alice, s4, "2026-03-11", "13:00", "14:00")
	assert.NoError(t, err)
}

func TestCreateReservation_PaddedDateIsNotAnotherDay(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user("alice@test.local"), f.user("bob@test.local")
	s1, s2, s3, s4 := f.seat("Q-01"), f.seat("Q-02"), f.seat("Q-03"), f.seat("Q-04")

	f.mustBook(alice, s1, day, "09:00", "10:00")
	for _, date := range []string{day + " ", " " + day, day + "\t"} {
		_, err := f.book(bob, s1, date, "09:30", "10:30")
		assert.ErrorIs(t, err, timeslot.ErrInvalidDate, "%q", date)
	}

	f.mustBook(alice, s2, day, "10:00", "11:00")
	f.mustBook(alice, s3, day, "11:00", "12:00")
	_, err := f.book(alice, s4, day+" ", "13:00", "14:00")
	assert.ErrorIs(t, err, timeslot.ErrInvalidDate)

	var count int64
	require.NoError(t, f.db.Model(&Reservation{}).Where("user_id = ?", alice).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var dates []string
	require.NoError(t, f.db.Model(&Reservation{}).Distinct().Pluck("reserve_date", &dates).Error)
	assert.Equal(t, []string{day}, dates)
}

func TestCreateReservation_DailyLimitFromSettings(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1, s2 := f.seat("Q-01"), f.seat("Q-02")

	_, err := f.settings.SetValue(context.Background(), settings.KeyDailyLimit, "1", "")
	require.NoError(t, err)

	f.mustBook(alice, s1, day, "09:00", "10:00")
	_, err = f.book(alice, s2, day, "10:00", "11:00")
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestCreateReservation_CancelledDoesNotCount(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	var last *ReservationResponse
	for i := 0; i < 3; i++ {
		last = f.mustBook(alice, s1, day, fmt.Sprintf("%02d:00", 9+i), fmt.Sprintf("%02d:00", 10+i))
	}
	_, err := f.svc.CancelReservation(context.Background(), alice, last.ID)
	require.NoError(t, err)

	_, err = f.book(alice, s1, day, "15:00", "16:00")
	assert.NoError(t, err)
}

func TestCreateReservation_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")
	f.at(day, "12:30")

	tests := []struct {
		name       string
		seatID     string
		date       string
		start, end string
		wantErr    error
	}{
		{"past date", s1.String(), "2026-03-09", "09:00", "10:00", ErrPastDate},
		{"slot already ended today", s1.String(), day, "11:00", "12:00", ErrSlotEnded},
		{"slot ends at now", s1.String(), day, "11:30", "12:30", ErrSlotEnded},
		{"start equals end", s1.String(), day, "14:00", "14:00", timeslot.ErrInvalidRange},
		{"start after end", s1.String(), day, "15:00", "14:00", timeslot.ErrInvalidRange},
		{"bad clock", s1.String(), day, "25:00", "26:00", timeslot.ErrInvalidClock},
		{"bad date", s1.String(), "2026-13-01", "09:00", "10:00", timeslot.ErrInvalidDate},
		{"padded date", s1.String(), day + " ", "14:00", "15:00", timeslot.ErrInvalidDate},
		{"signed clock", s1.String(), day, "+9:30", "15:00", timeslot.ErrInvalidClock},
		{"padded clock", s1.String(), day, "14:00", " 15:00", timeslot.ErrInvalidClock},
		{"unknown seat", uuid.NewString(), day, "14:00", "15:00", seats.ErrSeatNotFound},
		{"malformed seat id", "seat-1", day, "14:00", "15:00", seats.ErrSeatNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateReservation(context.Background(), alice, CreateReservationRequest{
				SeatID:    tt.seatID,
				Date:      tt.date,
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// a slot already under way today is still bookable
	_, err := f.book(alice, s1, day, "12:00", "13:00")
	assert.NoError(t, err)
}

func TestCreateReservation_DisabledSeatAndAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1, s2 := f.seat("Q-01"), f.seat("Q-02")

	require.NoError(t, f.seats.SetStatus(ctx, s1, seats.StatusDisabled))
	_, err := f.book(alice, s1, day, "09:00", "10:00")
	assert.ErrorIs(t, err, seats.ErrSeatDisabled)

	require.NoError(t, f.users.SetStatus(ctx, alice, users.StatusDisabled))
	_, err = f.book(alice, s2, day, "09:00", "10:00")
	assert.ErrorIs(t, err, users.ErrAccountDisabled)
}

func TestCreateReservation_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	s1 := f.seat("Q-01")

	const n = 8
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = f.user(fmt.Sprintf("user%d@test.local", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.book(ids[i], s1, day, "09:00", "10:00")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, succeeded)

	var active int64
	require.NoError(t, f.db.Model(&Reservation{}).Where("seat_id = ? AND status = ?", s1, StatusBooked).Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestCheckIn_Window(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1, s2 := f.seat("Q-01"), f.seat("Q-02")

	r1 := f.mustBook(alice, s1, day, "14:00", "15:00")
	r2 := f.mustBook(alice, s2, day, "14:00", "15:00")

	f.at(day, "13:44")
	_, err := f.svc.CheckIn(ctx, alice, r1.ID)
	assert.ErrorIs(t, err, ErrCheckInTooEarly)
	assert.Contains(t, err.Error(), "13:45")

	f.at(day, "13:46")
	checkedIn, err := f.svc.CheckIn(ctx, alice, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckInAt)

	// second check-in on the same reservation is rejected
	_, err = f.svc.CheckIn(ctx, alice, r1.ID)
	assert.ErrorIs(t, err, ErrNotBooked)

	f.at(day, "15:01")
	_, err = f.svc.CheckIn(ctx, alice, r2.ID)
	assert.ErrorIs(t, err, ErrCheckInExpired)
	assert.Equal(t, StatusBooked, f.status(r2.ID))
}

func TestCheckIn_NotOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	bob := f.user("bob@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "09:00", "10:00")

	f.at(day, "09:00")
	_, err := f.svc.CheckIn(context.Background(), bob, r.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.CheckIn(context.Background(), alice, uuid.New())
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCheckOut_CreditsStudyMinutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "10:00", "11:00")

	_, err := f.svc.CheckOut(ctx, alice, r.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	f.at(day, "10:00")
	_, err = f.svc.CheckIn(ctx, alice, r.ID)
	require.NoError(t, err)

	f.now = clock(day, "10:45").Add(30 * time.Second)
	out, err := f.svc.CheckOut(ctx, alice, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, out.StudyMinutes)
	assert.Equal(t, StatusCheckedOut, out.Reservation.Status)

	user, err := f.users.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 45, user.MonthlyStudyMinutes)
	assert.Equal(t, 45, user.TotalStudyMinutes)

	// checking out twice does not credit twice
	_, err = f.svc.CheckOut(ctx, alice, r.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)
	user, err = f.users.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 45, user.TotalStudyMinutes)
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	bob := f.user("bob@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "09:00", "10:00")

	_, err := f.svc.CancelReservation(ctx, bob, r.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	cancelled, err := f.svc.CancelReservation(ctx, alice, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = f.svc.CancelReservation(ctx, alice, r.ID)
	assert.ErrorIs(t, err, ErrNotBooked)
	assert.Equal(t, StatusCancelled, f.status(r.ID))

	// without late_cancel_minutes no violation is recorded
	total, err := f.violations.TotalPoints(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCancelReservation_CheckedInCannotCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "09:00", "10:00")

	f.at(day, "09:00")
	_, err := f.svc.CheckIn(ctx, alice, r.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelReservation(ctx, alice, r.ID)
	assert.ErrorIs(t, err, ErrNotBooked)
	assert.Equal(t, StatusCheckedIn, f.status(r.ID))
}

func TestCancelReservation_LateCancelRecordsViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	_, err := f.settings.SetValue(ctx, settings.KeyLateCancelMinutes, "30", "")
	require.NoError(t, err)

	early := f.mustBook(alice, s1, day, "12:00", "13:00")
	late := f.mustBook(alice, s1, day, "09:00", "10:00")

	f.at(day, "08:45")
	_, err = f.svc.CancelReservation(ctx, alice, early.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelReservation(ctx, alice, late.ID)
	require.NoError(t, err)

	list, total, err := f.violations.List(ctx, violations.ListQuery{UserID: &alice})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, violations.TypeAbusiveCancel, list[0].Type)
	assert.Equal(t, late.ID, *list[0].ReservationID)
}

func TestRebook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	bob := f.user("bob@test.local")
	s1, s2 := f.seat("Q-01"), f.seat("Q-02")

	original := f.mustBook(alice, s1, day, "09:00", "10:00")
	f.mustBook(bob, s2, day, "09:00", "10:00")

	// target taken: the original reservation survives
	_, err := f.svc.Rebook(ctx, alice, original.ID, RebookRequest{
		SeatID: s2.String(), Date: day, StartTime: "09:00", EndTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, StatusBooked, f.status(original.ID))

	_, err = f.svc.Rebook(ctx, bob, original.ID, RebookRequest{
		Date: day, StartTime: "11:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	out, err := f.svc.Rebook(ctx, alice, original.ID, RebookRequest{
		SeatID: s2.String(), Date: day, StartTime: "10:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, out.Cancelled.Status)
	assert.Equal(t, StatusBooked, out.Created.Status)
	assert.Equal(t, s2, out.Created.SeatID)
	require.NotNil(t, out.Created.RebookedFrom)
	assert.Equal(t, original.ID, *out.Created.RebookedFrom)
	assert.Equal(t, StatusCancelled, f.status(original.ID))
}

func TestRebook_SameSeatOverlappingItself(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	original := f.mustBook(alice, s1, day, "09:00", "10:00")

	// the original is cancelled first, so shifting within its own slot works
	out, err := f.svc.Rebook(context.Background(), alice, original.ID, RebookRequest{
		Date: day, StartTime: "09:30", EndTime: "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, s1, out.Created.SeatID)
	assert.Equal(t, "09:30", out.Created.StartTime)
}

func TestRebook_AtDailyLimit(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	f.mustBook(alice, s1, day, "09:00", "10:00")
	f.mustBook(alice, s1, day, "10:00", "11:00")
	third := f.mustBook(alice, s1, day, "11:00", "12:00")

	_, err := f.svc.Rebook(context.Background(), alice, third.ID, RebookRequest{
		Date: day, StartTime: "15:00", EndTime: "16:00",
	})
	assert.NoError(t, err)
}

func TestRebook_InvalidTargetKeepsOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")
	disabled := f.seat("Q-02")
	require.NoError(t, f.seats.SetStatus(ctx, disabled, seats.StatusDisabled))

	original := f.mustBook(alice, s1, day, "09:00", "10:00")

	_, err := f.svc.Rebook(ctx, alice, original.ID, RebookRequest{
		SeatID: disabled.String(), Date: day, StartTime: "09:00", EndTime: "10:00",
	})
	assert.ErrorIs(t, err, seats.ErrSeatDisabled)

	_, err = f.svc.Rebook(ctx, alice, original.ID, RebookRequest{
		Date: "2026-03-01", StartTime: "09:00", EndTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = f.svc.Rebook(ctx, alice, original.ID, RebookRequest{
		Date: day + " ", StartTime: "11:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, timeslot.ErrInvalidDate)

	assert.Equal(t, StatusBooked, f.status(original.ID))
	var count int64
	require.NoError(t, f.db.Model(&Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHasConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")
	r := f.mustBook(alice, s1, day, "09:00", "10:00")

	conflict, err := f.svc.HasConflict(ctx, s1, day, "09:59", "10:30", nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = f.svc.HasConflict(ctx, s1, day, "10:00", "10:30", nil)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = f.svc.HasConflict(ctx, s1, day, "09:00", "10:00", &r.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	_, err = f.svc.HasConflict(ctx, s1, day, "10:00", "09:00", nil)
	assert.ErrorIs(t, err, timeslot.ErrInvalidRange)
}

func TestListReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	bob := f.user("bob@test.local")
	s1 := f.seat("Q-01")

	f.mustBook(alice, s1, day, "09:00", "10:00")
	f.mustBook(alice, s1, "2026-03-11", "09:00", "10:00")
	f.mustBook(bob, s1, day, "10:00", "11:00")

	mine, err := f.svc.ListReservations(ctx, ListQuery{UserID: &alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	// newest date first
	assert.Equal(t, "2026-03-11", mine.Reservations[0].Date)

	onDay, err := f.svc.ListReservations(ctx, ListQuery{Date: day})
	require.NoError(t, err)
	assert.Equal(t, int64(2), onDay.Total)
	assert.Equal(t, "09:00", onDay.Reservations[0].StartTime)

	_, err = f.svc.ListReservations(ctx, ListQuery{Date: "10/03/2026"})
	assert.ErrorIs(t, err, timeslot.ErrInvalidDate)
}
