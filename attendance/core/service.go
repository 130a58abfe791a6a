package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ems.com/ems/attendance/model"
	"ems.com/ems/core"
	"ems.com/ems/infrastructure/communication"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultMaxAttempts = 5

type EmployeeFinder interface {
	FindEmployeeByID(ctx context.Context, id uint) (*core.Employee, error)
}

type Options struct {
	Location    *time.Location
	Shift       Shift
	MaxAttempts int
	Clock       func() time.Time
}

// Service owns every state transition of an attendance record. Each mutation
// is a versioned conditional update, so concurrent requests for the same
// record never both apply.
type Service struct {
	db          *gorm.DB
	employees   EmployeeFinder
	notifier    communication.Sender
	log         *zap.Logger
	loc         *time.Location
	shift       Shift
	maxAttempts int
	now         func() time.Time
}

func NewService(db *gorm.DB, employees EmployeeFinder, notifier communication.Sender, log *zap.Logger, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Shift.LateGrace == 0 {
		opts.Shift.LateGrace = DefaultLateGrace
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:          db,
		employees:   employees,
		notifier:    notifier,
		log:         log,
		loc:         opts.Location,
		shift:       opts.Shift,
		maxAttempts: opts.MaxAttempts,
		now:         opts.Clock,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current calendar day in the reporting timezone.
func (s *Service) Today() string {
	return utils.DayOf(s.now(), s.loc)
}

func authorize(actor security.Identity, c security.Capability) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !actor.Can(c) {
		return ErrForbidden
	}
	return nil
}

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", validationError("invalid record id %q", id)
	}
	return parsed.String(), nil
}

type loader func(db *gorm.DB) (*model.AttendanceRecord, error)

func byID(id string) loader {
	return func(db *gorm.DB) (*model.AttendanceRecord, error) {
		var rec model.AttendanceRecord
		if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("load record %s: %w", id, err)
		}
		return &rec, nil
	}
}

func byDay(employeeID uint, day string) loader {
	return func(db *gorm.DB) (*model.AttendanceRecord, error) {
		var rec model.AttendanceRecord
		if err := db.Where("employee_id = ? AND date = ?", employeeID, day).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("load record for employee %d on %s: %w", employeeID, day, err)
		}
		return &rec, nil
	}
}

// mutate loads a record, applies fn and writes it back only if nobody else
// changed it in between. Lost races are retried against the fresh state.
func (s *Service) mutate(ctx context.Context, load loader, fn func(rec *model.AttendanceRecord) error) (*model.AttendanceRecord, error) {
	db := s.db.WithContext(ctx)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		rec, err := load(db)
		if err != nil {
			return nil, err
		}
		if err := fn(rec); err != nil {
			return nil, err
		}

		ok, err := s.compareAndSwap(db, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			return rec, nil
		}
		s.log.Debug("conflicting attendance update, retrying",
			zap.String("record_id", rec.ID),
			zap.Int("attempt", attempt),
		)
	}
	return nil, ErrConflict
}

func (s *Service) compareAndSwap(db *gorm.DB, rec *model.AttendanceRecord) (bool, error) {
	result := db.Model(&model.AttendanceRecord{}).
		Where("id = ? AND version = ?", rec.ID, rec.Version).
		Updates(map[string]interface{}{
			"times":           rec.Times,
			"in_out_status":   rec.InOutStatus,
			"total_hours":     rec.TotalHours,
			"approval_status": rec.ApprovalStatus,
			"check_in_count":  rec.CheckInCount,
			"check_out_count": rec.CheckOutCount,
			"approved_by":     rec.ApprovedBy,
			"approved_at":     rec.ApprovedAt,
			"version":         rec.Version + 1,
		})
	if result.Error != nil {
		return false, fmt.Errorf("update record %s: %w", rec.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	rec.Version++
	return true, nil
}

func (s *Service) notify(ctx context.Context, rec *model.AttendanceRecord, subject, text string) {
	if s.notifier == nil {
		return
	}
	msg := communication.Message{Subject: subject, Text: text}
	if s.employees != nil {
		emp, err := s.employees.FindEmployeeByID(ctx, rec.EmployeeID)
		if err != nil {
			s.log.Warn("failed to resolve employee for notification", zap.Uint("employee_id", rec.EmployeeID), zap.Error(err))
		} else if emp != nil && emp.Email != "" {
			msg.To = []string{emp.Email}
			msg.Name = emp.FullName()
		}
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Warn("failed to send notification",
			zap.String("record_id", rec.ID),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
