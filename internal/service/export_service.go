package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/models"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
	"github.com/rizkia-dev/study-planner-api/pkg/export"
)

type exportSessionRepository interface {
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]models.StudySession, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered schedule export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a user's schedule as CSV or PDF.
type ExportService struct {
	sessions exportSessionRepository
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(sessions exportSessionRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{sessions: sessions, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Schedule renders the sessions between from and to in the given format.
func (s *ExportService) Schedule(ctx context.Context, userID, format string, from, to time.Time) (*ExportFile, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export range end precedes start")
	}

	sessions, err := s.sessions.ListBetween(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions for export")
	}

	dataset := scheduleDataset(sessions)
	stamp := s.now().UTC().Format("20060102")

	switch format {
	case "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("study-schedule-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := s.pdf.Render(dataset, "Study Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("study-schedule-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func scheduleDataset(sessions []models.StudySession) export.Dataset {
	headers := []string{"Date", "Start", "End", "Subject", "Status", "Rating", "Notes"}
	rows := make([]map[string]string, 0, len(sessions))
	for _, sess := range sessions {
		rating := ""
		if sess.ProductivityRating != nil {
			rating = fmt.Sprintf("%d", *sess.ProductivityRating)
		}
		rows = append(rows, map[string]string{
			"Date":    sess.StartTime.Format("2006-01-02"),
			"Start":   sess.StartTime.Format("15:04"),
			"End":     sess.EndTime.Format("15:04"),
			"Subject": sess.SubjectName,
			"Status":  string(sess.Status),
			"Rating":  rating,
			"Notes":   sess.Notes,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
