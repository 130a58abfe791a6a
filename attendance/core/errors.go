package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("not allowed to perform this action")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNoOpenCheckIn    = errors.New("no open check-in")
	ErrIncompleteRecord = errors.New("record has an open check-in, check out first")
	ErrNotDeletable     = errors.New("only pending records can be deleted")
	ErrAlreadyDecided   = errors.New("record is already approved or rejected")
	ErrNotFound         = errors.New("attendance record not found")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("record was modified concurrently, try again")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
