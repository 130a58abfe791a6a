package core

import (
	"context"
	"testing"

	"ems.com/ems/attendance/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for day := 4; day <= 8; day++ {
		f.workDay(t, alice, day, 9, 17)
	}
	f.workDay(t, bob, 5, 9, 17)

	page, err := f.svc.ListMine(ctx, alice, Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "2024-03-08", page.Records[0].Date)
	assert.Equal(t, "2024-03-07", page.Records[1].Date)

	page, err = f.svc.ListMine(ctx, alice, Page{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "2024-03-04", page.Records[0].Date)

	page, err = f.svc.ListMine(ctx, alice, Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.workDay(t, alice, 5, 9, 17)
	f.workDay(t, bob, 5, 9, 17)
	f.workDay(t, bob, 6, 9, 17)
	_, err := f.svc.SetApproval(ctx, f.admin, a.ID, model.ApprovalApproved)
	require.NoError(t, err)

	_, err = f.svc.List(ctx, alice, Filter{}, Page{})
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := f.svc.List(ctx, f.admin, Filter{}, Page{Limit: 1000})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, MaxPageLimit, all.Limit)

	byDate, err := f.svc.List(ctx, f.admin, Filter{Date: "2024-03-05"}, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byDate.Total)

	byEmployee, err := f.svc.List(ctx, f.admin, Filter{EmployeeID: bob.ID}, Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byEmployee.Total)

	approved, err := f.svc.List(ctx, f.admin, Filter{ApprovalStatus: "Approved"}, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, approved.Total)
	assert.Equal(t, a.ID, approved.Records[0].ID)

	_, err = f.svc.List(ctx, f.admin, Filter{Date: "05/03/2024"}, Page{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.List(ctx, f.admin, Filter{ApprovalStatus: "maybe"}, Page{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.workDay(t, alice, 5, 9, 17)

	_, err := f.svc.Get(ctx, bob, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.Get(ctx, f.admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.EmployeeID)

	_, err = f.svc.Get(ctx, f.admin, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailyReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.workDay(t, alice, 5, 9, 17)
	f.clock.Set(brisbane(5, 10, 0))
	_, err := f.svc.CheckIn(ctx, bob)
	require.NoError(t, err)
	c := f.workDay(t, carol, 5, 9, 12)
	f.workDay(t, alice, 6, 9, 17)

	_, err = f.svc.SetApproval(ctx, f.admin, a.ID, model.ApprovalApproved)
	require.NoError(t, err)
	_, err = f.svc.SetApproval(ctx, f.admin, c.ID, model.ApprovalRejected)
	require.NoError(t, err)

	_, err = f.svc.DailyReport(ctx, alice, "2024-03-05", Page{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.DailyReport(ctx, f.admin, "yesterday", Page{})
	assert.ErrorIs(t, err, ErrValidation)

	report, err := f.svc.DailyReport(ctx, f.admin, "2024-03-05", Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", report.Date)
	assert.EqualValues(t, 3, report.Total)
	assert.Len(t, report.Records, 2)
	for _, r := range report.Records {
		assert.Equal(t, "2024-03-05", r.Date)
		require.NotNil(t, r.Employee)
	}
	assert.Equal(t, map[string]int64{"present": 2, "late": 1}, report.StatusCounts)
	assert.Equal(t, map[string]int64{"Approved": 1, "Rejected": 1, "Pending": 1}, report.ApprovalCounts)

	var statusSum, approvalSum int64
	for _, n := range report.StatusCounts {
		statusSum += n
	}
	for _, n := range report.ApprovalCounts {
		approvalSum += n
	}
	assert.Equal(t, report.Total, statusSum)
	assert.Equal(t, report.Total, approvalSum)

	all, err := f.svc.DailyReport(ctx, f.admin, "2024-03-05", Page{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, all.Records, 3)
	assert.Equal(t, 0, all.Limit)

	empty, err := f.svc.DailyReport(ctx, f.admin, "2024-03-01", Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Total)
	assert.Empty(t, empty.Records)
}
