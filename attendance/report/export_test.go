package report

import (
	"bytes"
	"testing"
	"time"

	"ems.com/ems/attendance/core"
	"ems.com/ems/attendance/model"
	emscore "ems.com/ems/core"
	"ems.com/ems/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteDailyReport(t *testing.T) {
	loc := utils.BrisbaneTZ
	in := time.Date(2024, 3, 5, 9, 0, 0, 0, loc)
	out := time.Date(2024, 3, 5, 17, 30, 0, 0, loc)
	later := time.Date(2024, 3, 5, 18, 0, 0, 0, loc)

	daily := &core.DailyReport{
		Date:  "2024-03-05",
		Total: 2,
		Records: []model.AttendanceRecord{
			{
				Date:           "2024-03-05",
				Times:          []model.TimePair{{In: &in, Out: &out}},
				TotalHours:     8.5,
				Status:         model.StatusPresent,
				ApprovalStatus: model.ApprovalApproved,
				CheckInCount:   1,
				CheckOutCount:  1,
				Employee: &emscore.Employee{
					Code:       "E001",
					FirstName:  "Alice",
					Surname:    "Nguyen",
					Department: &emscore.Department{Name: "Operations"},
				},
			},
			{
				Date:           "2024-03-05",
				Times:          []model.TimePair{{In: &later}},
				Status:         model.StatusLate,
				ApprovalStatus: model.ApprovalPending,
				CheckInCount:   1,
			},
		},
		StatusCounts:   map[string]int64{"present": 1, "late": 1},
		ApprovalCounts: map[string]int64{"Approved": 1, "Pending": 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDailyReport(&buf, daily, loc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRecords, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, recordHeaders, rows[0])
	assert.Equal(t, []string{"E001", "Alice Nguyen", "Operations", "2024-03-05", "09:00-17:30", "8.5", "present", "Approved", "1", "1"}, rows[1])
	assert.Equal(t, "18:00---:--", rows[2][4])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total records", "2"}, summary[1])
	assert.Equal(t, []string{"late", "1"}, summary[4])
	assert.Equal(t, []string{"present", "1"}, summary[5])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "attendance-2024-03-05.xlsx", FileName("2024-03-05"))
}
