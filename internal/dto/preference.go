package dto

// UpdatePreferenceRequest captures PUT /preferences payload. The whole
// settings block is replaced at once.
type UpdatePreferenceRequest struct {
	StudyHoursPerWeek   int  `json:"studyHoursPerWeek" validate:"required,min=1,max=80"`
	Morning             bool `json:"morning"`
	Afternoon           bool `json:"afternoon"`
	Evening             bool `json:"evening"`
	Night               bool `json:"night"`
	SessionLength       int  `json:"sessionLength" validate:"omitempty,min=30,max=240"`
	BreakDuration       int  `json:"breakDuration" validate:"omitempty,min=0,max=60"`
	MaxConsecutiveHours int  `json:"maxConsecutiveHours" validate:"omitempty,min=1,max=8"`
	WeekendStudy        bool `json:"weekendStudy"`
}
