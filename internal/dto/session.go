package dto

import "time"

// UpdateSessionRequest captures PATCH /sessions/:id payload, used to mark
// completion and record quality.
type UpdateSessionRequest struct {
	Status             *string `json:"status" validate:"omitempty,oneof=planned completed missed"`
	ProductivityRating *int    `json:"productivityRating" validate:"omitempty,min=1,max=5"`
	Notes              *string `json:"notes" validate:"omitempty,max=500"`
}

// RescheduleSessionRequest moves a single session to a new time.
type RescheduleSessionRequest struct {
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
}
