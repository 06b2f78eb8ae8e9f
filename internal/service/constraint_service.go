package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/dto"
	"github.com/rizkia-dev/study-planner-api/internal/models"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type constraintRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.TimeConstraint, error)
	FindByID(ctx context.Context, userID, id string) (*models.TimeConstraint, error)
	Create(ctx context.Context, constraint *models.TimeConstraint) error
	Update(ctx context.Context, constraint *models.TimeConstraint) error
	Delete(ctx context.Context, userID, id string) error
}

// ConstraintService manages recurring weekly time constraints.
type ConstraintService struct {
	repo      constraintRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService constructs a ConstraintService.
func NewConstraintService(repo constraintRepository, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// List returns all constraints for the user.
func (s *ConstraintService) List(ctx context.Context, userID string) ([]models.TimeConstraint, error) {
	constraints, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return constraints, nil
}

// Create validates and persists a new constraint.
func (s *ConstraintService) Create(ctx context.Context, userID string, req dto.CreateConstraintRequest) (*models.TimeConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}

	constraint := &models.TimeConstraint{
		UserID:    userID,
		Kind:      models.ConstraintKind(req.Kind),
		Label:     req.Label,
		DayOfWeek: req.DayOfWeek,
		StartHour: req.StartHour,
		EndHour:   req.EndHour,
	}
	if err := s.repo.Create(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create constraint")
	}
	return constraint, nil
}

// Update applies the non-nil fields of the request.
func (s *ConstraintService) Update(ctx context.Context, userID, id string, req dto.UpdateConstraintRequest) (*models.TimeConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}

	constraint, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}

	if req.Kind != nil {
		constraint.Kind = models.ConstraintKind(*req.Kind)
	}
	if req.Label != nil {
		constraint.Label = *req.Label
	}
	if req.DayOfWeek != nil {
		constraint.DayOfWeek = *req.DayOfWeek
	}
	if req.StartHour != nil {
		constraint.StartHour = *req.StartHour
	}
	if req.EndHour != nil {
		constraint.EndHour = *req.EndHour
	}
	if constraint.EndHour <= constraint.StartHour {
		return nil, appErrors.Clone(appErrors.ErrValidation, "constraint end hour must be after start hour")
	}

	if err := s.repo.Update(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update constraint")
	}
	return constraint, nil
}

// Delete removes a constraint.
func (s *ConstraintService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.FindByID(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete constraint")
	}
	return nil
}
