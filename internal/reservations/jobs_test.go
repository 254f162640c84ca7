package reservations

import (
	"context"
	"testing"
	"time"

	"studyhall/internal/settings"
	"studyhall/internal/users"
	"studyhall/internal/violations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessNoShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	missed := f.mustBook(alice, s1, day, "09:00", "10:00")
	upcoming := f.mustBook(alice, s1, day, "11:00", "12:00")

	f.at(day, "09:59")
	n, err := f.svc.ProcessNoShows(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.at(day, "10:05")
	n, err = f.svc.ProcessNoShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// the reservation keeps its status
	assert.Equal(t, StatusBooked, f.status(missed.ID))
	assert.Equal(t, StatusBooked, f.status(upcoming.ID))

	list, _, err := f.violations.List(ctx, violations.ListQuery{UserID: &alice})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, violations.TypeNoShow, list[0].Type)
	assert.Equal(t, 2, list[0].Points)
	assert.Equal(t, missed.ID, *list[0].ReservationID)

	// rescanning does not report twice
	n, err = f.svc.ProcessNoShows(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := f.violations.TotalPoints(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestProcessNoShows_IgnoresCheckedInAndCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	attended := f.mustBook(alice, s1, day, "09:00", "10:00")
	cancelled := f.mustBook(alice, s1, day, "10:00", "11:00")

	f.at(day, "09:05")
	_, err := f.svc.CheckIn(ctx, alice, attended.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelReservation(ctx, alice, cancelled.ID)
	require.NoError(t, err)

	f.at(day, "23:00")
	n, err := f.svc.ProcessNoShows(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessNoShows_DisablesAtLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	s1 := f.seat("Q-01")

	f.mustBook(alice, s1, day, "09:00", "10:00")
	f.mustBook(alice, s1, day, "10:00", "11:00")

	f.at(day, "11:30")
	n, err := f.svc.ProcessNoShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	user, err := f.users.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, users.StatusDisabled, user.Status)

	_, err = f.book(alice, s1, "2026-03-11", "09:00", "10:00")
	assert.ErrorIs(t, err, users.ErrAccountDisabled)
}

func TestProcessOverstays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "09:00", "10:00")

	f.at(day, "09:00")
	_, err := f.svc.CheckIn(ctx, alice, r.ID)
	require.NoError(t, err)

	f.at(day, "10:29")
	n, err := f.svc.ProcessOverstays(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.at(day, "10:31")
	n, err = f.svc.ProcessOverstays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.ProcessOverstays(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// still checked in: the user can check out late and is credited
	assert.Equal(t, StatusCheckedIn, f.status(r.ID))
	out, err := f.svc.CheckOut(ctx, alice, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 91, out.StudyMinutes)
}

func TestProcessOverstays_AcrossMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	r := f.mustBook(alice, f.seat("Q-01"), day, "23:00", "24:00")

	f.at(day, "23:00")
	_, err := f.svc.CheckIn(ctx, alice, r.ID)
	require.NoError(t, err)

	f.at("2026-03-11", "00:20")
	n, err := f.svc.ProcessOverstays(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.at("2026-03-11", "00:31")
	n, err = f.svc.ProcessOverstays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResetMonthlyIfDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice@test.local")
	require.NoError(t, f.users.AddStudyMinutes(ctx, alice, 120))

	// first run only records the period
	reset, err := f.svc.ResetMonthlyIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, reset)
	period, ok := f.settings.GetValue(ctx, settings.KeyMonthlyResetPeriod)
	require.True(t, ok)
	assert.Equal(t, "2026-03", period)

	reset, err = f.svc.ResetMonthlyIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, reset)

	f.at("2026-04-01", "00:01")
	reset, err = f.svc.ResetMonthlyIfDue(ctx)
	require.NoError(t, err)
	assert.True(t, reset)

	user, err := f.users.GetByID(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, user.MonthlyStudyMinutes)
	assert.Equal(t, 120, user.TotalStudyMinutes)

	reset, err = f.svc.ResetMonthlyIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, reset)
}

func TestJobProcessor_RunOnceAndStop(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice@test.local")
	f.mustBook(alice, f.seat("Q-01"), day, "09:00", "10:00")
	f.at(day, "10:30")

	jp := NewJobProcessor(f.svc, &JobConfig{ScanInterval: time.Hour, MonthlyResetEnabled: true})
	jp.Start(context.Background())
	jp.Stop()
	// a second Stop is harmless
	jp.Stop()

	total, err := f.violations.TotalPoints(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	status := jp.GetJobStatus()
	assert.Equal(t, time.Hour.String(), status["scan_interval"])
}

func TestNewJobProcessor_Defaults(t *testing.T) {
	jp := NewJobProcessor(nil, &JobConfig{})
	assert.Equal(t, DefaultJobConfig().ScanInterval, jp.config.ScanInterval)

	jp = NewJobProcessor(nil, nil)
	assert.True(t, jp.config.MonthlyResetEnabled)
}
