package seats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"studyhall/internal/shared/config"
	"studyhall/internal/shared/timeslot"
	"studyhall/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeReservations stands in for the reservation store
type fakeReservations struct {
	active   map[uuid.UUID]int64
	occupied []uuid.UUID
	calls    int
}

func (f *fakeReservations) CountActiveBySeat(_ *gorm.DB, seatID uuid.UUID) (int64, error) {
	return f.active[seatID], nil
}

func (f *fakeReservations) OccupiedSeatIDs(_ context.Context, _ string, _ timeslot.Interval) ([]uuid.UUID, error) {
	f.calls++
	return f.occupied, nil
}

func newTestService(t *testing.T) (Service, *fakeReservations) {
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
	require.NoError(t, db.AutoMigrate(&Seat{}))

	fake := &fakeReservations{active: map[uuid.UUID]int64{}}
	cfg := &config.Config{Reservation: config.ReservationConfig{Timezone: "UTC"}}
	return NewService(NewRepository(db), fake, cfg), fake
}

func mustCreate(t *testing.T, svc Service, number, area string) *Seat {
	t.Helper()
	seat, err := svc.CreateSeat(context.Background(), CreateSeatRequest{SeatNumber: number, Area: area})
	require.NoError(t, err)
	return seat
}

func TestCreateSeat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seat := mustCreate(t, svc, " A-01 ", "A")
	assert.Equal(t, "A-01", seat.SeatNumber)
	assert.Equal(t, StatusEnabled, seat.Status)

	_, err := svc.CreateSeat(ctx, CreateSeatRequest{SeatNumber: "A-01", Area: "B"})
	assert.ErrorIs(t, err, ErrDuplicateSeatNumber)

	_, err = svc.CreateSeat(ctx, CreateSeatRequest{SeatNumber: "   ", Area: "B"})
	assert.ErrorIs(t, err, ErrBlankSeatField)
	_, err = svc.CreateSeat(ctx, CreateSeatRequest{SeatNumber: "B-01", Area: "\t"})
	assert.ErrorIs(t, err, ErrBlankSeatField)

	_, err = svc.GetSeat(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestUpdateSeat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a1 := mustCreate(t, svc, "A-01", "A")
	mustCreate(t, svc, "A-02", "A")

	remark := "next to the window"
	updated, err := svc.UpdateSeat(ctx, a1.ID, UpdateSeatRequest{Remark: &remark})
	require.NoError(t, err)
	assert.Equal(t, remark, updated.Remark)

	taken := "A-02"
	_, err = svc.UpdateSeat(ctx, a1.ID, UpdateSeatRequest{SeatNumber: &taken})
	assert.ErrorIs(t, err, ErrDuplicateSeatNumber)

	blank := "  "
	_, err = svc.UpdateSeat(ctx, a1.ID, UpdateSeatRequest{SeatNumber: &blank})
	assert.ErrorIs(t, err, ErrBlankSeatField)
	kept, err := svc.GetSeat(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-01", kept.SeatNumber)

	_, err = svc.UpdateSeat(ctx, uuid.New(), UpdateSeatRequest{Remark: &remark})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestSetSeatStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seat := mustCreate(t, svc, "A-01", "A")

	disabled, err := svc.SetSeatStatus(ctx, seat.ID, StatusDisabled)
	require.NoError(t, err)
	assert.False(t, disabled.IsEnabled())

	_, err = svc.SetSeatStatus(ctx, seat.ID, "BROKEN")
	assert.ErrorIs(t, err, ErrInvalidSeatStatus)

	list, err := svc.ListSeats(ctx, ListQuery{Status: StatusEnabled})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteSeat_GuardedByActiveReservations(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()
	seat := mustCreate(t, svc, "A-01", "A")

	fake.active[seat.ID] = 1
	err := svc.DeleteSeat(ctx, seat.ID)
	assert.ErrorIs(t, err, ErrSeatHasActiveReservations)

	_, err = svc.GetSeat(ctx, seat.ID)
	require.NoError(t, err)

	fake.active[seat.ID] = 0
	require.NoError(t, svc.DeleteSeat(ctx, seat.ID))
	_, err = svc.GetSeat(ctx, seat.ID)
	assert.ErrorIs(t, err, ErrSeatNotFound)

	assert.ErrorIs(t, svc.DeleteSeat(ctx, uuid.New()), ErrSeatNotFound)
}

func TestGetAvailability(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	a1 := mustCreate(t, svc, "A-01", "A")
	mustCreate(t, svc, "A-02", "A")
	b1 := mustCreate(t, svc, "B-01", "B")
	_, err := svc.SetSeatStatus(ctx, b1.ID, StatusDisabled)
	require.NoError(t, err)
	fake.occupied = []uuid.UUID{a1.ID}

	got, err := svc.GetAvailability(ctx, "2026-03-10", "09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalSeats)
	assert.Equal(t, 1, got.AvailableSeats)
	assert.Equal(t, 1, got.Areas["A"].Available)
	assert.Equal(t, 0, got.Areas["B"].Available)
	assert.Equal(t, "09:00", got.StartTime)

	_, err = svc.GetAvailability(ctx, "10/03/2026", "09:00", "11:00")
	assert.ErrorIs(t, err, timeslot.ErrInvalidDate)

	_, err = svc.GetAvailability(ctx, "2026-03-10", "11:00", "09:00")
	assert.ErrorIs(t, err, timeslot.ErrInvalidRange)
}

func TestGetAvailability_CachedUntilInvalidated(t *testing.T) {
	svc, fake := newTestService(t)
	svc.SetCacheService(cache.NewMemoryService(time.Minute))
	ctx := context.Background()
	a1 := mustCreate(t, svc, "A-01", "A")

	first, err := svc.GetAvailability(ctx, "2026-03-10", "09:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, first.AvailableSeats)

	fake.occupied = []uuid.UUID{a1.ID}
	cached, err := svc.GetAvailability(ctx, "2026-03-10", "09:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, cached.AvailableSeats)
	assert.Equal(t, 1, fake.calls)

	svc.InvalidateAvailability(ctx, "2026-03-10")
	fresh, err := svc.GetAvailability(ctx, "2026-03-10", "09:00", "10:00")
	require.NoError(t, err)
	assert.Zero(t, fresh.AvailableSeats)
	assert.Equal(t, 2, fake.calls)
}
