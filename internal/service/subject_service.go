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

type subjectRepository interface {
	List(ctx context.Context, userID string, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, userID, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, userID, id string) error
}

type subjectCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// SubjectService implements subject CRUD scoped to the authenticated user.
type SubjectService struct {
	repo      subjectRepository
	cache     subjectCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, cache subjectCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the user's subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, userID string, query dto.SubjectListQuery) ([]models.Subject, *models.Pagination, error) {
	filter := models.SubjectFilter{
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	subjects, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one subject owned by the user.
func (s *SubjectService) Get(ctx context.Context, userID, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create validates and persists a new subject.
func (s *SubjectService) Create(ctx context.Context, userID string, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{
		UserID:     userID,
		Name:       req.Name,
		Priority:   req.Priority,
		Workload:   req.Workload,
		Difficulty: req.Difficulty,
		ExamDate:   req.ExamDate,
		Color:      req.Color,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.invalidateAnalytics(ctx, userID)
	return subject, nil
}

// Update applies the non-nil fields of the request to the subject.
func (s *SubjectService) Update(ctx context.Context, userID, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Priority != nil {
		subject.Priority = *req.Priority
	}
	if req.Workload != nil {
		subject.Workload = *req.Workload
	}
	if req.Difficulty != nil {
		subject.Difficulty = *req.Difficulty
	}
	if req.ClearExam {
		subject.ExamDate = nil
	} else if req.ExamDate != nil {
		subject.ExamDate = req.ExamDate
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.invalidateAnalytics(ctx, userID)
	return subject, nil
}

// Delete removes a subject together with its sessions.
func (s *SubjectService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidateAnalytics(ctx, userID)
	return nil
}

func (s *SubjectService) invalidateAnalytics(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:"+userID+":*"); err != nil {
		s.logger.Warn("failed to invalidate analytics cache", zap.String("user_id", userID), zap.Error(err))
	}
}
