package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rizkia-dev/study-planner-api/internal/service"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
	"github.com/rizkia-dev/study-planner-api/pkg/response"
)

// ExportHandler streams rendered schedule exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Schedule godoc
// @Summary Download the schedule as CSV or PDF
// @Tags Export
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string true "csv or pdf"
// @Param from query string false "Range start (YYYY-MM-DD), defaults to today"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to start+6"
// @Success 200 {file} binary
// @Router /export/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format query parameter is required"))
		return
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
			return
		}
		from = parsed
	}
	to := from.AddDate(0, 0, 6)
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
			return
		}
		to = parsed
	}

	file, err := h.service.Schedule(c.Request.Context(), currentUserID(c), format, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(200, file.ContentType, file.Data)
}
