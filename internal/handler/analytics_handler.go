package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rizkia-dev/study-planner-api/internal/service"
	"github.com/rizkia-dev/study-planner-api/pkg/response"
)

// AnalyticsHandler handles study-analytics endpoints.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Week godoc
// @Summary Planned versus completed hours for a week
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param date query string false "Any date inside the week (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /analytics/week [get]
func (h *AnalyticsHandler) Week(c *gin.Context) {
	ref := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err == nil {
			ref = parsed
		}
	}

	summary, err := h.service.WeekSummary(c.Request.Context(), currentUserID(c), ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Productivity godoc
// @Summary Average session quality over the trailing week
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /analytics/productivity [get]
func (h *AnalyticsHandler) Productivity(c *gin.Context) {
	summary, err := h.service.Productivity(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Missed godoc
// @Summary Missed sessions by subject over the trailing week
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /analytics/missed [get]
func (h *AnalyticsHandler) Missed(c *gin.Context) {
	summary, err := h.service.MissedSummary(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
