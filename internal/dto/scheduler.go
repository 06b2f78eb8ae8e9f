package dto

import (
	"time"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

// GenerateScheduleRequest instructs the generator to build sessions for
// the coming horizon. Days defaults to the configured horizon when zero.
type GenerateScheduleRequest struct {
	StartDate time.Time `json:"startDate"`
	Days      int       `json:"days" validate:"omitempty,min=1,max=31"`
}

// GenerateScheduleResponse returns the persisted sessions plus run
// diagnostics.
type GenerateScheduleResponse struct {
	Sessions         []models.StudySession `json:"sessions"`
	Warnings         []string              `json:"warnings,omitempty"`
	RejectedSubjects []string              `json:"rejectedSubjects,omitempty"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}

// ScheduleListQuery filters GET /schedule.
type ScheduleListQuery struct {
	SubjectID string `form:"subjectId"`
	Status    string `form:"status" validate:"omitempty,oneof=planned completed missed"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}
