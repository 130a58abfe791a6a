package core

import (
	"fmt"
	"time"

	"ems.com/ems/attendance/model"
	"ems.com/ems/utils"
)

const DefaultLateGrace = 10 * time.Minute

// Shift is the default working window applied to new records.
type Shift struct {
	Start     string
	Finish    string
	LateGrace time.Duration
}

func (s Shift) Validate() error {
	if s.Start == "" && s.Finish == "" {
		return nil
	}
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	start, err := utils.ParseTimeOnDate(base, s.Start)
	if err != nil {
		return fmt.Errorf("invalid shift start %q: %w", s.Start, err)
	}
	finish, err := utils.ParseTimeOnDate(base, s.Finish)
	if err != nil {
		return fmt.Errorf("invalid shift finish %q: %w", s.Finish, err)
	}
	// a record covers one calendar day, so the shift must end on it
	if !finish.After(start) {
		return fmt.Errorf("shift finish %s must be after start %s", s.Finish, s.Start)
	}
	return nil
}

// Bounds places a validated shift on the given day.
func (s Shift) Bounds(day string, loc *time.Location) (*time.Time, *time.Time, error) {
	if s.Start == "" || s.Finish == "" {
		return nil, nil, nil
	}
	base, err := utils.StartOfDay(day, loc)
	if err != nil {
		return nil, nil, err
	}
	start, err := utils.ParseTimeOnDate(base, s.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid shift start %s: %w", s.Start, err)
	}
	finish, err := utils.ParseTimeOnDate(base, s.Finish)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid shift finish %s: %w", s.Finish, err)
	}
	return &start, &finish, nil
}

// ClassifyCheckIn marks a first check-in later than shiftStart+grace as late.
func ClassifyCheckIn(in time.Time, shiftStart *time.Time, grace time.Duration) model.AttendanceStatus {
	if shiftStart == nil {
		return model.StatusPresent
	}
	if in.Sub(*shiftStart) > grace {
		return model.StatusLate
	}
	return model.StatusPresent
}

// ManualCheckoutTime picks the out time used to close a forgotten check-in:
// the shift end when it falls after the check-in, otherwise the end of the
// record's day. The result is never in the future and never before in.
func ManualCheckoutTime(in time.Time, shiftEnd *time.Time, day string, loc *time.Location, now time.Time) (time.Time, error) {
	out, err := utils.EndOfDay(day, loc)
	if err != nil {
		return time.Time{}, err
	}
	if shiftEnd != nil && shiftEnd.After(in) {
		out = *shiftEnd
	}
	if out.After(now) {
		out = now
	}
	if out.Before(in) {
		out = in
	}
	return out, nil
}
