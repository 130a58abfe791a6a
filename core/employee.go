package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

type Employee struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Code         string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	FirstName    string      `gorm:"type:varchar(100)" json:"firstName"`
	Surname      string      `gorm:"type:varchar(100)" json:"surname"`
	Email        string      `gorm:"type:varchar(255);index" json:"email"`
	DepartmentID *uint       `json:"departmentId"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Salary       float64     `gorm:"type:decimal(13,2);default:0" json:"-"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.Surname
	case e.Surname == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.Surname
}

func (e Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}

// EmployeeDirectory resolves employees owned by the HR side of the system.
type EmployeeDirectory struct {
	db *gorm.DB
}

func NewEmployeeDirectory(db *gorm.DB) *EmployeeDirectory {
	return &EmployeeDirectory{db: db}
}

// FindEmployeeByID returns nil, nil when the employee does not exist.
func (d *EmployeeDirectory) FindEmployeeByID(ctx context.Context, id uint) (*Employee, error) {
	var emp Employee
	result := d.db.WithContext(ctx).Preload("Department").First(&emp, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, fmt.Errorf("find employee %d: %w", id, result.Error)
	}
	return &emp, nil
}
