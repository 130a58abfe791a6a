package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ems.com/ems/attendance/model"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// CheckIn opens a new pair on today's record of the caller, creating the
// record on the first check-in of the day.
func (s *Service) CheckIn(ctx context.Context, actor security.Identity) (*model.AttendanceRecord, error) {
	if err := authorize(actor, security.RecordAttendance); err != nil {
		return nil, err
	}
	if err := s.requireEmployee(ctx, actor.ID); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	day := utils.DayOf(now, s.loc)

	rec, created, err := s.createOnCheckIn(ctx, actor.ID, day, now)
	if err != nil {
		return nil, err
	}
	if !created {
		rec, err = s.mutate(ctx, byDay(actor.ID, day), func(rec *model.AttendanceRecord) error {
			if rec.ApprovalStatus != model.ApprovalPending {
				return ErrAlreadyDecided
			}
			if rec.OpenPair() >= 0 {
				return ErrAlreadyCheckedIn
			}
			rec.Times = append(rec.Times, model.TimePair{In: &now})
			rec.InOutStatus = model.InOutStatusIn
			rec.CheckInCount++
			return nil
		})
		if errors.Is(err, ErrNotFound) {
			// deleted between the insert attempt and the load
			return nil, ErrConflict
		}
		if err != nil {
			return nil, err
		}
	}

	s.log.Info("employee checked in",
		zap.String("record_id", rec.ID),
		zap.Uint("employee_id", actor.ID),
		zap.String("date", day),
		zap.Int("check_in_count", rec.CheckInCount),
	)
	return rec, nil
}

// createOnCheckIn inserts the day's record already holding the first pair.
// When the (employee, date) row exists the insert is a no-op and created is false.
func (s *Service) createOnCheckIn(ctx context.Context, employeeID uint, day string, now time.Time) (*model.AttendanceRecord, bool, error) {
	shiftStart, shiftEnd, err := s.shift.Bounds(day, s.loc)
	if err != nil {
		return nil, false, err
	}

	rec := &model.AttendanceRecord{
		EmployeeID:     employeeID,
		Date:           day,
		Times:          datatypes.JSONSlice[model.TimePair]{{In: &now}},
		InOutStatus:    model.InOutStatusIn,
		ApprovalStatus: model.ApprovalPending,
		Status:         ClassifyCheckIn(now, shiftStart, s.shift.LateGrace),
		CheckInCount:   1,
		ShiftStart:     shiftStart,
		ShiftEnd:       shiftEnd,
		Version:        1,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec)
	if result.Error != nil {
		return nil, false, fmt.Errorf("create record for employee %d on %s: %w", employeeID, day, result.Error)
	}
	return rec, result.RowsAffected == 1, nil
}

// CheckOut closes the open pair on today's record of the caller.
func (s *Service) CheckOut(ctx context.Context, actor security.Identity) (*model.AttendanceRecord, error) {
	if err := authorize(actor, security.RecordAttendance); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	day := utils.DayOf(now, s.loc)

	rec, err := s.mutate(ctx, byDay(actor.ID, day), func(rec *model.AttendanceRecord) error {
		idx := rec.OpenPair()
		if idx < 0 {
			return ErrNoOpenCheckIn
		}
		out := now
		if out.Before(*rec.Times[idx].In) {
			out = *rec.Times[idx].In
		}
		rec.Times[idx].Out = &out
		rec.InOutStatus = model.InOutStatusOut
		rec.CheckOutCount++
		rec.TotalHours = TotalHours(rec.Times)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoOpenCheckIn
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("employee checked out",
		zap.String("record_id", rec.ID),
		zap.Uint("employee_id", actor.ID),
		zap.String("date", day),
		zap.Float64("total_hours", rec.TotalHours),
	)
	return rec, nil
}

func (s *Service) requireEmployee(ctx context.Context, id uint) error {
	if s.employees == nil {
		return nil
	}
	emp, err := s.employees.FindEmployeeByID(ctx, id)
	if err != nil {
		return err
	}
	if emp == nil {
		return fmt.Errorf("%w: user %d has no employee profile", ErrForbidden, id)
	}
	return nil
}
