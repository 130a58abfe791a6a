package core

import (
	"context"
	"errors"
	"fmt"

	"ems.com/ems/attendance/model"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"go.uber.org/zap"
)

type BulkOutcome string

const (
	OutcomeUpdated    BulkOutcome = "updated"
	OutcomeSkipped    BulkOutcome = "skipped"
	OutcomeNotFound   BulkOutcome = "not_found"
	OutcomeIncomplete BulkOutcome = "incomplete"
	OutcomeFailed     BulkOutcome = "failed"
)

type BulkItemResult struct {
	ID      string      `json:"id"`
	Outcome BulkOutcome `json:"outcome"`
	Message string      `json:"message,omitempty"`
}

type BulkResult struct {
	Modified int              `json:"modified"`
	Results  []BulkItemResult `json:"results"`
}

func decisionStatus(status model.ApprovalStatus) error {
	if status != model.ApprovalApproved && status != model.ApprovalRejected {
		return validationError("status must be %s or %s", model.ApprovalApproved, model.ApprovalRejected)
	}
	return nil
}

// SetApproval approves or rejects a single pending, complete record.
func (s *Service) SetApproval(ctx context.Context, actor security.Identity, id string, status model.ApprovalStatus) (*model.AttendanceRecord, error) {
	if err := authorize(actor, security.ManageAttendance); err != nil {
		return nil, err
	}
	if err := decisionStatus(status); err != nil {
		return nil, err
	}
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, actor, id, status)
}

// BulkSetApproval applies the decision to every id independently. Records
// that are missing, already decided or still open are reported and skipped.
func (s *Service) BulkSetApproval(ctx context.Context, actor security.Identity, ids []string, status model.ApprovalStatus) (*BulkResult, error) {
	if err := authorize(actor, security.ManageAttendance); err != nil {
		return nil, err
	}
	if err := decisionStatus(status); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, validationError("ids must not be empty")
	}

	parsed := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, id)
	}

	result := &BulkResult{Results: make([]BulkItemResult, 0, len(parsed))}
	for _, id := range utils.Unique(parsed) {
		item := BulkItemResult{ID: id}
		_, err := s.decide(ctx, actor, id, status)
		switch {
		case err == nil:
			item.Outcome = OutcomeUpdated
			result.Modified++
		case errors.Is(err, ErrNotFound):
			item.Outcome = OutcomeNotFound
		case errors.Is(err, ErrAlreadyDecided):
			item.Outcome = OutcomeSkipped
		case errors.Is(err, ErrIncompleteRecord):
			item.Outcome = OutcomeIncomplete
		default:
			item.Outcome = OutcomeFailed
			s.log.Error("bulk approval item failed", zap.String("record_id", id), zap.Error(err))
		}
		if err != nil {
			item.Message = err.Error()
		}
		result.Results = append(result.Results, item)
	}

	s.log.Info("bulk approval applied",
		zap.Uint("admin_id", actor.ID),
		zap.String("status", string(status)),
		zap.Int("requested", len(ids)),
		zap.Int("modified", result.Modified),
	)
	return result, nil
}

func (s *Service) decide(ctx context.Context, actor security.Identity, id string, status model.ApprovalStatus) (*model.AttendanceRecord, error) {
	now := s.now().In(s.loc)
	rec, err := s.mutate(ctx, byID(id), func(rec *model.AttendanceRecord) error {
		if rec.ApprovalStatus != model.ApprovalPending {
			return ErrAlreadyDecided
		}
		if !rec.Complete() {
			return ErrIncompleteRecord
		}
		rec.ApprovalStatus = status
		rec.ApprovedBy = utils.Ptr(actor.ID)
		rec.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("attendance record decided",
		zap.String("record_id", rec.ID),
		zap.Uint("employee_id", rec.EmployeeID),
		zap.String("approval_status", string(rec.ApprovalStatus)),
		zap.Uint("admin_id", actor.ID),
	)
	s.notify(ctx, rec,
		fmt.Sprintf("Attendance %s for %s", rec.ApprovalStatus, rec.Date),
		fmt.Sprintf("Attendance on %s (%.2f hours) was %s.", rec.Date, rec.TotalHours, lower(rec.ApprovalStatus)),
	)
	return rec, nil
}

// ManualCheckout closes a pair the employee left open. The approval status
// is left untouched.
func (s *Service) ManualCheckout(ctx context.Context, actor security.Identity, id string) (*model.AttendanceRecord, error) {
	if err := authorize(actor, security.ManageAttendance); err != nil {
		return nil, err
	}
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	rec, err := s.mutate(ctx, byID(id), func(rec *model.AttendanceRecord) error {
		idx := rec.OpenPair()
		if idx < 0 {
			return ErrNoOpenCheckIn
		}
		out, err := ManualCheckoutTime(*rec.Times[idx].In, rec.ShiftEnd, rec.Date, s.loc, now)
		if err != nil {
			return err
		}
		rec.Times[idx].Out = &out
		rec.InOutStatus = model.InOutStatusOut
		rec.TotalHours = TotalHours(rec.Times)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("manual checkout applied",
		zap.String("record_id", rec.ID),
		zap.Uint("employee_id", rec.EmployeeID),
		zap.Uint("admin_id", actor.ID),
		zap.Float64("total_hours", rec.TotalHours),
	)
	s.notify(ctx, rec,
		fmt.Sprintf("Manual checkout for %s", rec.Date),
		fmt.Sprintf("Checked out by an administrator on %s. Total recorded: %.2f hours.", rec.Date, rec.TotalHours),
	)
	return rec, nil
}

// Delete removes a record that is still pending.
func (s *Service) Delete(ctx context.Context, actor security.Identity, id string) error {
	if err := authorize(actor, security.ManageAttendance); err != nil {
		return err
	}
	id, err := parseID(id)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	result := db.Where("id = ? AND approval_status = ?", id, model.ApprovalPending).
		Delete(&model.AttendanceRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete record %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := byID(id)(db); err != nil {
			return err
		}
		return ErrNotDeletable
	}

	s.log.Info("attendance record deleted", zap.String("record_id", id), zap.Uint("admin_id", actor.ID))
	return nil
}

func lower(status model.ApprovalStatus) string {
	switch status {
	case model.ApprovalApproved:
		return "approved"
	case model.ApprovalRejected:
		return "rejected"
	}
	return "pending"
}
