package handlers

import (
	"ems.com/ems/attendance/model"
	web "ems.com/ems/web/common"
)

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ListQuery struct {
	PageQuery
	Date           *web.DateOnly `form:"date"`
	EmployeeID     uint          `form:"employeeId"`
	ApprovalStatus string        `form:"approvalStatus" binding:"omitempty,oneof=Pending Approved Rejected"`
}

type DailyReportQuery struct {
	PageQuery
	Date *web.DateOnly `form:"date"`
}

type ApprovalRequest struct {
	Status model.ApprovalStatus `json:"status" binding:"required,oneof=Approved Rejected"`
}

type BulkApprovalRequest struct {
	IDs    []string             `json:"ids" binding:"required,min=1,max=500,dive,uuid"`
	Status model.ApprovalStatus `json:"status" binding:"required,oneof=Approved Rejected"`
}

func dateOf(d *web.DateOnly) string {
	if d == nil {
		return ""
	}
	return d.String()
}
