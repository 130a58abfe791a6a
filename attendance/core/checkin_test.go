package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ems.com/ems/attendance/model"
	"ems.com/ems/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.Set(brisbane(5, 9, 0))
	rec, err := f.svc.CheckIn(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", rec.Date)
	assert.Equal(t, model.InOutStatusIn, rec.InOutStatus)
	assert.Equal(t, model.ApprovalPending, rec.ApprovalStatus)
	assert.Equal(t, model.StatusPresent, rec.Status)
	assert.Equal(t, 1, rec.CheckInCount)
	require.Len(t, rec.Times, 1)
	assert.True(t, rec.Times[0].Open())

	f.clock.Set(brisbane(5, 17, 30))
	rec, err = f.svc.CheckOut(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 8.5, rec.TotalHours)
	assert.Equal(t, model.InOutStatusOut, rec.InOutStatus)
	assert.Equal(t, model.ApprovalPending, rec.ApprovalStatus)
	assert.Equal(t, 1, rec.CheckOutCount)
	assert.True(t, rec.Complete())

	stored, err := f.svc.Get(ctx, alice, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.5, stored.TotalHours)
	assert.Equal(t, "Operations", stored.Employee.DepartmentName())
}

func TestCheckInTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, alice)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, alice)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.EqualValues(t, 1, f.countRecords(t, alice.ID, "2024-03-05"))
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckOut(ctx, alice)
	assert.ErrorIs(t, err, ErrNoOpenCheckIn)

	f.workDay(t, alice, 5, 9, 12)
	_, err = f.svc.CheckOut(ctx, alice)
	assert.ErrorIs(t, err, ErrNoOpenCheckIn)
}

func TestMultiplePairsAccumulate(t *testing.T) {
	f := newFixture(t)

	f.workDay(t, alice, 5, 8, 12)
	rec := f.workDay(t, alice, 5, 13, 17)

	assert.Equal(t, 8.0, rec.TotalHours)
	assert.Equal(t, 2, rec.CheckInCount)
	assert.Equal(t, 2, rec.CheckOutCount)
	assert.Len(t, rec.Times, 2)
	assert.EqualValues(t, 1, f.countRecords(t, alice.ID, "2024-03-05"))
}

func TestLateCheckIn(t *testing.T) {
	f := newFixture(t)

	f.clock.Set(brisbane(5, 9, 30))
	rec, err := f.svc.CheckIn(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLate, rec.Status)
	require.NotNil(t, rec.ShiftStart)
	assert.True(t, brisbane(5, 9, 0).Equal(*rec.ShiftStart))
}

func TestCheckInAfterDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.workDay(t, alice, 5, 9, 12)
	_, err := f.svc.SetApproval(ctx, f.admin, rec.ID, model.ApprovalApproved)
	require.NoError(t, err)

	f.clock.Set(brisbane(5, 13, 0))
	_, err = f.svc.CheckIn(ctx, alice)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestCheckInRequiresIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, security.Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	stranger := security.Identity{ID: 42, Role: security.RoleEmployee}
	_, err = f.svc.CheckIn(ctx, stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNewDayNewRecord(t *testing.T) {
	f := newFixture(t)

	first := f.workDay(t, alice, 5, 9, 17)
	second := f.workDay(t, alice, 6, 9, 17)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2024-03-06", second.Date)
}

func TestConcurrentCheckIn(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
	}{
		{name: "first check-in of the day"},
		{name: "record already has a closed pair", existing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if tt.existing {
				f.workDay(t, alice, 5, 7, 8)
			}
			f.clock.Set(brisbane(5, 9, 0))

			const workers = 12
			var wg sync.WaitGroup
			errs := make([]error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = f.svc.CheckIn(ctx, alice)
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrConflict):
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, 1, succeeded)
			assert.EqualValues(t, 1, f.countRecords(t, alice.ID, "2024-03-05"))

			var rec model.AttendanceRecord
			require.NoError(t, f.dm.DB.Where("employee_id = ?", alice.ID).First(&rec).Error)
			open := 0
			for _, p := range rec.Times {
				if p.Open() {
					open++
				}
			}
			assert.Equal(t, 1, open)
		})
	}
}

func TestConcurrentCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.Set(brisbane(5, 9, 0))
	_, err := f.svc.CheckIn(ctx, alice)
	require.NoError(t, err)
	f.clock.Set(brisbane(5, 17, 30))

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CheckOut(ctx, alice)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoOpenCheckIn), errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	var rec model.AttendanceRecord
	require.NoError(t, f.dm.DB.Where("employee_id = ? AND date = ?", alice.ID, "2024-03-05").First(&rec).Error)
	assert.Equal(t, 1, rec.CheckOutCount)
	assert.Equal(t, 8.5, rec.TotalHours)
	assert.Equal(t, model.InOutStatusOut, rec.InOutStatus)
	require.Len(t, rec.Times, 1)
	assert.True(t, rec.Times[0].Complete())
}
