package model

import (
	"time"

	"ems.com/ems/core"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InOutStatus string

const (
	InOutStatusIn  InOutStatus = "in"
	InOutStatusOut InOutStatus = "out"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), true
	}
	return "", false
}

// AttendanceStatus classifies the first check-in of the day against the shift.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
)

type TimePair struct {
	In  *time.Time `json:"in"`
	Out *time.Time `json:"out"`
}

func (p TimePair) Open() bool {
	return p.In != nil && p.Out == nil
}

func (p TimePair) Complete() bool {
	return p.In != nil && p.Out != nil
}

type AttendanceRecord struct {
	ID             string                       `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID     uint                         `gorm:"not null;uniqueIndex:idx_attendance_employee_date,priority:1" json:"employeeId"`
	Date           string                       `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_attendance_employee_date,priority:2" json:"date"`
	Times          datatypes.JSONSlice[TimePair] `json:"times"`
	InOutStatus    InOutStatus                  `gorm:"type:varchar(3);not null" json:"inOutStatus"`
	TotalHours     float64                      `gorm:"type:decimal(10,2);not null;default:0" json:"totalHours"`
	ApprovalStatus ApprovalStatus               `gorm:"type:varchar(10);not null;index" json:"approvalStatus"`
	Status         AttendanceStatus             `gorm:"type:varchar(10);not null" json:"status"`
	CheckInCount   int                          `gorm:"not null;default:0" json:"checkInCount"`
	CheckOutCount  int                          `gorm:"not null;default:0" json:"checkOutCount"`
	ShiftStart     *time.Time                   `json:"shiftStart"`
	ShiftEnd       *time.Time                   `json:"shiftEnd"`
	ApprovedBy     *uint                        `json:"approvedBy"`
	ApprovedAt     *time.Time                   `json:"approvedAt"`
	Version        int                          `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Employee *core.Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

func (r *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// OpenPair returns the index of the open pair, or -1.
func (r *AttendanceRecord) OpenPair() int {
	for i := len(r.Times) - 1; i >= 0; i-- {
		if r.Times[i].Open() {
			return i
		}
	}
	return -1
}

// Complete reports whether every pair has both in and out set.
func (r *AttendanceRecord) Complete() bool {
	for _, p := range r.Times {
		if !p.Complete() {
			return false
		}
	}
	return true
}
