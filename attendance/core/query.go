package core

import (
	"context"
	"fmt"

	"ems.com/ems/attendance/model"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// normalize clamps the page into range. Limit <= 0 is kept when all is set,
// meaning no pagination.
func (p Page) normalize(all bool) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0 && all:
		p.Limit = 0
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) apply(query *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return query
	}
	return query.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

type Filter struct {
	Date           string
	EmployeeID     uint
	ApprovalStatus string
}

type RecordPage struct {
	Records []model.AttendanceRecord `json:"records"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
	Total   int64                    `json:"total"`
}

type DailyReport struct {
	Date           string                   `json:"date"`
	Records        []model.AttendanceRecord `json:"records"`
	Page           int                      `json:"page"`
	Limit          int                      `json:"limit"`
	Total          int64                    `json:"total"`
	StatusCounts   map[string]int64         `json:"statusCounts"`
	ApprovalCounts map[string]int64         `json:"approvalCounts"`
}

// ListMine returns the caller's own records, newest day first.
func (s *Service) ListMine(ctx context.Context, actor security.Identity, page Page) (*RecordPage, error) {
	if err := authorize(actor, security.RecordAttendance); err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("employee_id = ?", actor.ID)
	return s.page(query, page.normalize(false))
}

// List returns all records matching filter, newest day first.
func (s *Service) List(ctx context.Context, actor security.Identity, filter Filter, page Page) (*RecordPage, error) {
	if err := authorize(actor, security.ManageAttendance); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&model.AttendanceRecord{})
	if filter.Date != "" {
		if _, err := utils.StartOfDay(filter.Date, s.loc); err != nil {
			return nil, validationError("%s", err.Error())
		}
		query = query.Where("date = ?", filter.Date)
	}
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ApprovalStatus != "" {
		status, ok := model.ParseApprovalStatus(filter.ApprovalStatus)
		if !ok {
			return nil, validationError("unknown approval status %q", filter.ApprovalStatus)
		}
		query = query.Where("approval_status = ?", status)
	}
	return s.page(query, page.normalize(false))
}

func (s *Service) page(query *gorm.DB, page Page) (*RecordPage, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	records := []model.AttendanceRecord{}
	err := page.apply(query.Session(&gorm.Session{})).
		Preload("Employee.Department").
		Order("date DESC").Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return &RecordPage{Records: records, Page: page.Page, Limit: page.Limit, Total: total}, nil
}

// Get returns one record. Employees may only read their own.
func (s *Service) Get(ctx context.Context, actor security.Identity, id string) (*model.AttendanceRecord, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	rec, err := byID(id)(s.db.WithContext(ctx).Preload("Employee.Department"))
	if err != nil {
		return nil, err
	}
	if !actor.Can(security.ManageAttendance) && rec.EmployeeID != actor.ID {
		// do not leak the existence of other employees' records
		return nil, ErrNotFound
	}
	return rec, nil
}

// DailyReport lists every record of the day with its employee and department,
// along with counts per attendance status and per approval status.
func (s *Service) DailyReport(ctx context.Context, actor security.Identity, day string, page Page) (*DailyReport, error) {
	if err := authorize(actor, security.ViewReports); err != nil {
		return nil, err
	}
	if day == "" {
		day = s.Today()
	}
	if _, err := utils.StartOfDay(day, s.loc); err != nil {
		return nil, validationError("%s", err.Error())
	}

	query := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).Where("date = ?", day)

	statusCounts, err := countBy(query.Session(&gorm.Session{}), "status")
	if err != nil {
		return nil, err
	}
	approvalCounts, err := countBy(query.Session(&gorm.Session{}), "approval_status")
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range statusCounts {
		total += n
	}

	page = page.normalize(true)
	records := []model.AttendanceRecord{}
	err = page.apply(query.Session(&gorm.Session{})).
		Preload("Employee.Department").
		Order("employee_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("daily report records: %w", err)
	}

	return &DailyReport{
		Date:           day,
		Records:        records,
		Page:           page.Page,
		Limit:          page.Limit,
		Total:          total,
		StatusCounts:   statusCounts,
		ApprovalCounts: approvalCounts,
	}, nil
}

type groupCount struct {
	Grp   string
	Total int64
}

func countBy(query *gorm.DB, column string) (map[string]int64, error) {
	var rows []groupCount
	err := query.
		Select(column + " AS grp, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count records by %s: %w", column, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Grp] = r.Total
	}
	return counts, nil
}
