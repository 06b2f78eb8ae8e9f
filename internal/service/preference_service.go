package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/dto"
	"github.com/rizkia-dev/study-planner-api/internal/models"
	"github.com/rizkia-dev/study-planner-api/internal/scheduler"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type preferenceRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.StudyPreference, error)
	Upsert(ctx context.Context, pref *models.StudyPreference) error
}

// PreferenceService manages the per-user study settings block.
type PreferenceService struct {
	repo      preferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(repo preferenceRepository, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PreferenceService{repo: repo, validator: validate, logger: logger}
}

// Get returns the user's preferences, falling back to defaults when the
// user never saved any.
func (s *PreferenceService) Get(ctx context.Context, userID string) (*models.StudyPreference, error) {
	pref, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultPreferences(userID), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return pref, nil
}

// Update replaces the whole settings block.
func (s *PreferenceService) Update(ctx context.Context, userID string, req dto.UpdatePreferenceRequest) (*models.StudyPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}

	pref := &models.StudyPreference{
		UserID:              userID,
		StudyHoursPerWeek:   req.StudyHoursPerWeek,
		Morning:             req.Morning,
		Afternoon:           req.Afternoon,
		Evening:             req.Evening,
		Night:               req.Night,
		SessionLength:       req.SessionLength,
		BreakDuration:       req.BreakDuration,
		MaxConsecutiveHours: req.MaxConsecutiveHours,
		WeekendStudy:        req.WeekendStudy,
	}
	applyPreferenceDefaults(pref)

	if existing, err := s.repo.FindByUser(ctx, userID); err == nil {
		pref.ID = existing.ID
		pref.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preferences")
	}
	return pref, nil
}

func defaultPreferences(userID string) *models.StudyPreference {
	return &models.StudyPreference{
		UserID:              userID,
		StudyHoursPerWeek:   10,
		Morning:             true,
		Evening:             true,
		SessionLength:       scheduler.DefaultSessionLength,
		BreakDuration:       scheduler.DefaultBreakDuration,
		MaxConsecutiveHours: scheduler.DefaultMaxConsecutiveHours,
		WeekendStudy:        true,
	}
}

func applyPreferenceDefaults(pref *models.StudyPreference) {
	if pref.SessionLength <= 0 {
		pref.SessionLength = scheduler.DefaultSessionLength
	}
	if pref.BreakDuration < 0 {
		pref.BreakDuration = scheduler.DefaultBreakDuration
	}
	if pref.MaxConsecutiveHours <= 0 {
		pref.MaxConsecutiveHours = scheduler.DefaultMaxConsecutiveHours
	}
}
