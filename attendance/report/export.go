package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"ems.com/ems/attendance/core"
	"ems.com/ems/attendance/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetRecords = "Attendance"
	SheetSummary = "Summary"
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var recordHeaders = []string{
	"Employee Code", "Employee", "Department", "Date", "Times",
	"Total Hours", "Status", "Approval", "Check-ins", "Check-outs",
}

// FileName is the name used for the download and for the archived object.
func FileName(day string) string {
	return fmt.Sprintf("attendance-%s.xlsx", day)
}

// WriteDailyReport renders the report as a workbook with one row per record
// and a summary sheet holding the status breakdowns.
func WriteDailyReport(w io.Writer, r *core.DailyReport, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range recordHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetRecords, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(recordHeaders), 1)
	if err := f.SetCellStyle(SheetRecords, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rec := range r.Records {
		values := recordRow(rec, loc)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetRecords, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(SheetRecords, "B", "C", 24)
	_ = f.SetColWidth(SheetRecords, "E", "E", 36)

	if err := writeSummary(f, r, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func recordRow(rec model.AttendanceRecord, loc *time.Location) []interface{} {
	var code, name, department string
	if rec.Employee != nil {
		code = rec.Employee.Code
		name = rec.Employee.FullName()
		department = rec.Employee.DepartmentName()
	}
	return []interface{}{
		code,
		name,
		department,
		rec.Date,
		formatTimes(rec.Times, loc),
		rec.TotalHours,
		string(rec.Status),
		string(rec.ApprovalStatus),
		rec.CheckInCount,
		rec.CheckOutCount,
	}
}

func formatTimes(pairs []model.TimePair, loc *time.Location) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		in, out := "--:--", "--:--"
		if p.In != nil {
			in = p.In.In(loc).Format("15:04")
		}
		if p.Out != nil {
			out = p.Out.In(loc).Format("15:04")
		}
		parts = append(parts, in+"-"+out)
	}
	return strings.Join(parts, ", ")
}

func writeSummary(f *excelize.File, r *core.DailyReport, headerStyle int) error {
	rows := [][]interface{}{
		{"Date", r.Date},
		{"Total records", r.Total},
		{},
		{"Status", "Count"},
	}
	rows = append(rows, countRows(r.StatusCounts)...)
	rows = append(rows, []interface{}{}, []interface{}{"Approval", "Count"})
	rows = append(rows, countRows(r.ApprovalCounts)...)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
		if row[0] == "Status" || row[0] == "Approval" {
			end, _ := excelize.CoordinatesToCellName(2, i+1)
			_ = f.SetCellStyle(SheetSummary, cell, end, headerStyle)
		}
	}
	return nil
}

func countRows(counts map[string]int64) [][]interface{} {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]interface{}, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []interface{}{k, counts[k]})
	}
	return rows
}
