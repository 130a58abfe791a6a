package attendance

import (
	"context"
	"testing"

	core "ems.com/ems/attendance/core"
	"ems.com/ems/config"
	"ems.com/ems/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetup(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			LogLevel:    "silent",
			AutoMigrate: true,
		},
		Attendance: config.AttendanceConfig{ShiftStart: "08:30", ShiftFinish: "17:00"},
	}

	rt, err := Setup(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Slack)
	page, err := rt.Service.ListMine(context.Background(), security.Identity{ID: 1, Role: security.RoleEmployee}, core.Page{Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}

func TestSetupRejectsBadShift(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		finish string
	}{
		{name: "unparseable start", start: "late", finish: "17:00"},
		{name: "finish on the next day", start: "22:00", finish: "06:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Attendance: config.AttendanceConfig{ShiftStart: tt.start, ShiftFinish: tt.finish}}
			_, err := Setup(context.Background(), cfg, zap.NewNop())
			assert.Error(t, err)
		})
	}
}
