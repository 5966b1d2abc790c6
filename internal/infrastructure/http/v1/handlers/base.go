// Package handlers provides HTTP request handlers.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ledgerlens/internal/core/apperror"
	appctx "ledgerlens/internal/core/context"
)

// dateLayout is the calendar-date wire format for query parameters.
const dateLayout = "2006-01-02"

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseDate parses a YYYY-MM-DD query value.
func (h *BaseHandler) ParseDate(c *gin.Context, name, value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name+" format, expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}

// GetUserID extracts user ID from request context.
func (h *BaseHandler) GetUserID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}
