package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rizkia-dev/study-planner-api/internal/service"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
	"github.com/rizkia-dev/study-planner-api/pkg/response"
)

// JobHandler exposes maintenance-job triggers.
type JobHandler struct {
	missed *service.MissedSessionService
}

// NewJobHandler constructs a job handler.
func NewJobHandler(missed *service.MissedSessionService) *JobHandler {
	return &JobHandler{missed: missed}
}

// SweepMissed godoc
// @Summary Trigger an immediate missed-session sweep
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Router /jobs/missed-sessions/sweep [post]
func (h *JobHandler) SweepMissed(c *gin.Context) {
	if err := h.missed.SweepNow(); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue sweep"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "enqueued"}, nil)
}
