package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/internal/api/middleware"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Summary returns dashboard analytics for the requested window
// GET /api/v1/analytics/summary?days=7
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.ParamError(c, "invalid days parameter")
			return
		}
		days = parsed
	}

	summary, err := h.analyticsService.Summary(userID, days)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, summary)
}
