package core

import (
	"testing"
	"time"

	"ems.com/ems/attendance/model"
	"github.com/stretchr/testify/assert"
)

func at(hour, min int) *time.Time {
	t := time.Date(2024, 3, 5, hour, min, 0, 0, time.UTC)
	return &t
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []model.TimePair
		expected float64
	}{
		{name: "empty", pairs: nil, expected: 0},
		{name: "single pair", pairs: []model.TimePair{{In: at(9, 0), Out: at(17, 30)}}, expected: 8.5},
		{
			name: "open pair ignored",
			pairs: []model.TimePair{
				{In: at(8, 0), Out: at(12, 0)},
				{In: at(13, 0)},
			},
			expected: 4,
		},
		{
			name: "split shift",
			pairs: []model.TimePair{
				{In: at(8, 0), Out: at(12, 15)},
				{In: at(12, 45), Out: at(17, 5)},
			},
			expected: 8.58,
		},
		{name: "negative duration ignored", pairs: []model.TimePair{{In: at(10, 0), Out: at(9, 0)}}, expected: 0},
		{name: "rounded to two decimals", pairs: []model.TimePair{{In: at(9, 0), Out: at(9, 20)}}, expected: 0.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalHours(tt.pairs))
		})
	}
}
