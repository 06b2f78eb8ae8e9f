package dto

import "time"

// CreateSubjectRequest captures POST /subjects payload.
type CreateSubjectRequest struct {
	Name       string     `json:"name" validate:"required,max=120"`
	Priority   int        `json:"priority" validate:"required,min=1,max=5"`
	Workload   int        `json:"workload" validate:"required,min=1,max=80"`
	Difficulty int        `json:"difficulty" validate:"omitempty,min=1,max=5"`
	ExamDate   *time.Time `json:"examDate"`
	Color      string     `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateSubjectRequest captures PUT /subjects/:id payload. Nil fields are
// left untouched.
type UpdateSubjectRequest struct {
	Name       *string    `json:"name" validate:"omitempty,max=120"`
	Priority   *int       `json:"priority" validate:"omitempty,min=1,max=5"`
	Workload   *int       `json:"workload" validate:"omitempty,min=1,max=80"`
	Difficulty *int       `json:"difficulty" validate:"omitempty,min=0,max=5"`
	ExamDate   *time.Time `json:"examDate"`
	ClearExam  bool       `json:"clearExam"`
	Color      *string    `json:"color" validate:"omitempty,hexcolor"`
}

// SubjectListQuery filters GET /subjects.
type SubjectListQuery struct {
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}
