package handlers

import (
	"net/http"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) CheckIn(c *gin.Context) {
	rec, err := ep.svc.CheckIn(c.Request.Context(), actor(c))
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) CheckOut(c *gin.Context) {
	rec, err := ep.svc.CheckOut(c.Request.Context(), actor(c))
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) ListMine(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := ep.svc.ListMine(c.Request.Context(), actor(c), attendance.Page{Page: q.Page, Limit: q.Limit})
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(page.Records, page.Page, page.Limit, page.Total))
}

func (ep *Endpoint) Get(c *gin.Context) {
	rec, err := ep.svc.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		ep.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}
