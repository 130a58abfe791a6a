package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"ems.com/ems/attendance/model"
	"ems.com/ems/core"
	"ems.com/ems/infrastructure/communication"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingSender struct {
	mu       sync.Mutex
	messages []communication.Message
}

func (r *recordingSender) Send(_ context.Context, msg communication.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) Messages() []communication.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]communication.Message(nil), r.messages...)
}

type fixture struct {
	svc    *Service
	dm     *core.DatabaseManager
	clock  *testClock
	sender *recordingSender
	admin  security.Identity
}

var (
	alice = security.Identity{ID: 1, Email: "alice@example.com", Role: security.RoleEmployee}
	bob   = security.Identity{ID: 2, Email: "bob@example.com", Role: security.RoleEmployee}
	carol = security.Identity{ID: 3, Email: "carol@example.com", Role: security.RoleEmployee}
)

func brisbane(day, hour, min int) time.Time {
	return time.Date(2024, 3, day, hour, min, 0, 0, utils.BrisbaneTZ)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dm, err := core.New(core.Options{
		Driver:   core.DriverSQLite,
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: core.LogLevelSilent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dm.Close() })

	require.NoError(t, core.AutoMigrate(dm.DB, &model.AttendanceRecord{}))

	ops := core.Department{Name: "Operations"}
	require.NoError(t, dm.DB.Create(&ops).Error)
	employees := []core.Employee{
		{ID: alice.ID, Code: "E001", FirstName: "Alice", Surname: "Nguyen", Email: alice.Email, DepartmentID: &ops.ID},
		{ID: bob.ID, Code: "E002", FirstName: "Bob", Surname: "Smith", Email: bob.Email, DepartmentID: &ops.ID},
		{ID: carol.ID, Code: "E003", FirstName: "Carol", Surname: "Jones", Email: carol.Email},
	}
	require.NoError(t, dm.DB.Create(&employees).Error)

	clock := &testClock{now: brisbane(5, 9, 0)}
	sender := &recordingSender{}
	svc := NewService(dm.DB, core.NewEmployeeDirectory(dm.DB), sender, nil, Options{
		Location: utils.BrisbaneTZ,
		Shift:    Shift{Start: "09:00", Finish: "17:00"},
		Clock:    clock.Now,
	})

	return &fixture{
		svc:    svc,
		dm:     dm,
		clock:  clock,
		sender: sender,
		admin:  security.Identity{ID: 100, Email: "admin@example.com", Role: security.RoleAdmin},
	}
}

// workDay checks the employee in and out on the given day of March 2024.
func (f *fixture) workDay(t *testing.T, who security.Identity, day, fromHour, toHour int) *model.AttendanceRecord {
	t.Helper()
	ctx := context.Background()

	f.clock.Set(brisbane(day, fromHour, 0))
	_, err := f.svc.CheckIn(ctx, who)
	require.NoError(t, err)

	f.clock.Set(brisbane(day, toHour, 0))
	rec, err := f.svc.CheckOut(ctx, who)
	require.NoError(t, err)
	return rec
}

func (f *fixture) countRecords(t *testing.T, employeeID uint, day string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.dm.DB.Model(&model.AttendanceRecord{}).
		Where("employee_id = ? AND date = ?", employeeID, day).
		Count(&n).Error)
	return n
}
