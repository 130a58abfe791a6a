package handlers

import (
	"errors"
	"net/http"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/security"
	"ems.com/ems/web/common"
	"ems.com/ems/web/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Endpoint struct {
	svc *attendance.Service
	log *zap.Logger
}

// Register mounts the attendance routes on r. r is expected to run the
// Authentication middleware; role checks happen inside the service.
func Register(r *gin.RouterGroup, svc *attendance.Service, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	endpoint := &Endpoint{svc: svc, log: log}

	g := r.Group("/attendance")
	g.POST("/checkin", endpoint.CheckIn)
	g.POST("/checkout", endpoint.CheckOut)
	g.GET("/me", endpoint.ListMine)

	g.GET("", endpoint.List)
	g.PATCH("/approve", endpoint.BulkApprove)
	g.GET("/report/daily", endpoint.DailyReport)
	g.GET("/report/daily/export", endpoint.ExportDailyReport)

	g.GET("/:id", endpoint.Get)
	g.PATCH("/:id/approve", endpoint.Approve)
	g.PATCH("/:id/manual-checkout", endpoint.ManualCheckout)
	g.DELETE("/:id", endpoint.Delete)
}

// statusOf maps service errors onto HTTP statuses. Unknown errors are 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, attendance.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, attendance.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, attendance.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyDecided),
		errors.Is(err, attendance.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrNoOpenCheckIn),
		errors.Is(err, attendance.ErrIncompleteRecord),
		errors.Is(err, attendance.ErrNotDeletable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (ep *Endpoint) fail(c *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		ep.log.Error("attendance request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.NewErrorResponse(message))
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
}

func actor(c *gin.Context) security.Identity {
	return middlewares.Identity(c)
}
