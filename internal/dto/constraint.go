package dto

// CreateConstraintRequest captures POST /constraints payload.
type CreateConstraintRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=busy class"`
	Label     string `json:"label" validate:"required,max=120"`
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartHour int    `json:"startHour" validate:"min=0,max=23"`
	EndHour   int    `json:"endHour" validate:"required,min=1,max=24,gtfield=StartHour"`
}

// UpdateConstraintRequest captures PUT /constraints/:id payload.
type UpdateConstraintRequest struct {
	Kind      *string `json:"kind" validate:"omitempty,oneof=busy class"`
	Label     *string `json:"label" validate:"omitempty,max=120"`
	DayOfWeek *int    `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
	StartHour *int    `json:"startHour" validate:"omitempty,min=0,max=23"`
	EndHour   *int    `json:"endHour" validate:"omitempty,min=1,max=24"`
}
