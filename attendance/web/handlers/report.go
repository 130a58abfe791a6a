package handlers

import (
	"bytes"
	"net/http"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/attendance/report"
	"ems.com/ems/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) DailyReport(c *gin.Context) {
	var q DailyReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page := attendance.Page{Page: q.Page, Limit: q.Limit}
	if page.Limit == 0 {
		page.Limit = attendance.DefaultPageLimit
	}
	daily, err := ep.svc.DailyReport(c.Request.Context(), actor(c), dateOf(q.Date), page)
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(daily))
}

// ExportDailyReport streams every record of the day as an xlsx workbook.
func (ep *Endpoint) ExportDailyReport(c *gin.Context) {
	var q DailyReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	daily, err := ep.svc.DailyReport(c.Request.Context(), actor(c), dateOf(q.Date), attendance.Page{})
	if err != nil {
		ep.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteDailyReport(&buf, daily, ep.svc.Location()); err != nil {
		ep.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(daily.Date)+`"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
