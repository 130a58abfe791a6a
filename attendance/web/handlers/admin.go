package handlers

import (
	"net/http"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := attendance.Filter{
		Date:           dateOf(q.Date),
		EmployeeID:     q.EmployeeID,
		ApprovalStatus: q.ApprovalStatus,
	}
	page, err := ep.svc.List(c.Request.Context(), actor(c), filter, attendance.Page{Page: q.Page, Limit: q.Limit})
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(page.Records, page.Page, page.Limit, page.Total))
}

func (ep *Endpoint) Approve(c *gin.Context) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := ep.svc.SetApproval(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) BulkApprove(c *gin.Context) {
	var req BulkApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := ep.svc.BulkSetApproval(c.Request.Context(), actor(c), req.IDs, req.Status)
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}

func (ep *Endpoint) ManualCheckout(c *gin.Context) {
	rec, err := ep.svc.ManualCheckout(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	if err := ep.svc.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"id": c.Param("id")}))
}
