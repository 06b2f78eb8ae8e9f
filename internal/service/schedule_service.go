package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/dto"
	"github.com/rizkia-dev/study-planner-api/internal/models"
	"github.com/rizkia-dev/study-planner-api/internal/scheduler"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type scheduleSubjectRepository interface {
	ListAll(ctx context.Context, userID string) ([]models.Subject, error)
}

type schedulePreferenceRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.StudyPreference, error)
}

type scheduleConstraintRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.TimeConstraint, error)
}

type scheduleSessionRepository interface {
	List(ctx context.Context, userID string, filter models.SessionFilter) ([]models.StudySession, int, error)
	FindByID(ctx context.Context, userID, id string) (*models.StudySession, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]models.StudySession, error)
	Begin(ctx context.Context) (*sqlx.Tx, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.StudySession) error
	DeletePlannedFromWithTx(ctx context.Context, tx *sqlx.Tx, userID string, cutoff time.Time) error
	Update(ctx context.Context, session *models.StudySession) error
	Delete(ctx context.Context, userID, id string) error
}

type generationLocker interface {
	AcquireGenerationLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseGenerationLock(ctx context.Context, userID string)
}

type scheduleCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

type generationObserver interface {
	ObserveGeneration(outcome string, sessions int, duration time.Duration)
}

// ScheduleConfig bounds the generation horizon.
type ScheduleConfig struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	GenerationLockTTL  time.Duration
}

// ScheduleService orchestrates schedule generation and session lifecycle.
type ScheduleService struct {
	subjects    scheduleSubjectRepository
	preferences schedulePreferenceRepository
	constraints scheduleConstraintRepository
	sessions    scheduleSessionRepository
	locker      generationLocker
	cache       scheduleCacheInvalidator
	metrics     generationObserver
	validator   *validator.Validate
	logger      *zap.Logger
	config      ScheduleConfig
	now         func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(
	subjects scheduleSubjectRepository,
	preferences schedulePreferenceRepository,
	constraints scheduleConstraintRepository,
	sessions scheduleSessionRepository,
	locker generationLocker,
	cache scheduleCacheInvalidator,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	config ScheduleConfig,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.DefaultHorizonDays <= 0 {
		config.DefaultHorizonDays = 7
	}
	if config.MaxHorizonDays <= 0 {
		config.MaxHorizonDays = 31
	}
	if config.GenerationLockTTL <= 0 {
		config.GenerationLockTTL = 30 * time.Second
	}
	return &ScheduleService{
		subjects:    subjects,
		preferences: preferences,
		constraints: constraints,
		sessions:    sessions,
		locker:      locker,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

// Generate rebuilds the user's upcoming schedule. Future planned sessions
// are replaced atomically; completed and missed history is left alone. Only
// one generation per user may run at a time.
func (s *ScheduleService) Generate(ctx context.Context, userID string, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	started := time.Now()
	outcome := "error"
	generated := 0
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveGeneration(outcome, generated, time.Since(started))
		}
	}()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	days := req.Days
	if days <= 0 {
		days = s.config.DefaultHorizonDays
	}
	if days > s.config.MaxHorizonDays {
		days = s.config.MaxHorizonDays
	}

	start := req.StartDate
	if start.IsZero() {
		start = s.now().UTC()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days-1)

	if s.locker != nil {
		ok, err := s.locker.AcquireGenerationLock(ctx, userID, s.config.GenerationLockTTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lock")
		}
		if !ok {
			outcome = "locked"
			return nil, appErrors.Clone(appErrors.ErrGenerationInFlight, "")
		}
		defer s.locker.ReleaseGenerationLock(ctx, userID)
	}

	subjects, err := s.subjects.ListAll(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "add at least one subject before generating a schedule")
	}

	pref, err := s.preferences.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			pref = defaultPreferences(userID)
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
		}
	}

	constraints, err := s.constraints.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}

	existing, err := s.sessions.ListBetween(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing sessions")
	}

	input := scheduler.GenerateInput{
		StartDate:   start,
		EndDate:     end,
		Subjects:    toSchedulerSubjects(subjects),
		Preferences: toSchedulerPreferences(pref),
		Booked:      collectBookedSlots(start, days, constraints, existing),
	}

	result, err := scheduler.Generate(input)
	if err != nil {
		return nil, err
	}

	sessions := toStudySessions(userID, result.Sessions)

	tx, err := s.sessions.Begin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.sessions.DeletePlannedFromWithTx(ctx, tx, userID, start); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear planned sessions")
	}
	if err := s.sessions.BulkCreateWithTx(ctx, tx, sessions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist sessions")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule")
	}
	committed = true
	outcome = "success"
	generated = len(sessions)

	s.invalidateAnalytics(ctx, userID)
	s.logger.Info("schedule generated",
		zap.String("user_id", userID),
		zap.Int("days", days),
		zap.Int("sessions", len(sessions)),
		zap.Int("rejected_subjects", len(result.RejectedSubjects)))

	return &dto.GenerateScheduleResponse{
		Sessions:         sessions,
		Warnings:         result.Warnings,
		RejectedSubjects: result.RejectedSubjects,
		GeneratedAt:      s.now().UTC(),
	}, nil
}

// List returns the user's sessions filtered by the query.
func (s *ScheduleService) List(ctx context.Context, userID string, query dto.ScheduleListQuery) ([]models.StudySession, *models.Pagination, error) {
	filter := models.SessionFilter{
		SubjectID: query.SubjectID,
		Status:    models.SessionStatus(query.Status),
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if from, err := time.Parse(time.RFC3339, query.From); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, query.To); err == nil {
		filter.To = &to
	}

	sessions, total, err := s.sessions.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateSession applies status, rating and notes changes to one session.
func (s *ScheduleService) UpdateSession(ctx context.Context, userID, id string, req dto.UpdateSessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session, err := s.findSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		session.Status = models.SessionStatus(*req.Status)
	}
	if req.ProductivityRating != nil {
		if session.Status != models.SessionCompleted {
			return nil, appErrors.Clone(appErrors.ErrValidation, "only completed sessions can be rated")
		}
		session.ProductivityRating = req.ProductivityRating
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}

	s.invalidateAnalytics(ctx, userID)
	return session, nil
}

// RescheduleSession moves one session to a new time, refusing slots that
// collide with another session.
func (s *ScheduleService) RescheduleSession(ctx context.Context, userID, id string, req dto.RescheduleSessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}

	session, err := s.findSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(req.StartTime.Year(), req.StartTime.Month(), req.StartTime.Day(), 0, 0, 0, 0, req.StartTime.Location())
	neighbors, err := s.sessions.ListBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check conflicts")
	}
	for _, other := range neighbors {
		if other.ID == session.ID {
			continue
		}
		if req.StartTime.Before(other.EndTime) && other.StartTime.Before(req.EndTime) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "the new time overlaps an existing session")
		}
	}

	session.StartTime = req.StartTime
	session.EndTime = req.EndTime
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule session")
	}

	s.invalidateAnalytics(ctx, userID)
	return session, nil
}

// DeleteSession removes a single session.
func (s *ScheduleService) DeleteSession(ctx context.Context, userID, id string) error {
	if _, err := s.findSession(ctx, userID, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.invalidateAnalytics(ctx, userID)
	return nil
}

func (s *ScheduleService) findSession(ctx context.Context, userID, id string) (*models.StudySession, error) {
	session, err := s.sessions.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

func (s *ScheduleService) invalidateAnalytics(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:"+userID+":*"); err != nil {
		s.logger.Warn("failed to invalidate analytics cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func toSchedulerSubjects(subjects []models.Subject) []scheduler.Subject {
	out := make([]scheduler.Subject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, scheduler.Subject{
			ID:         s.ID,
			Name:       s.Name,
			Priority:   s.Priority,
			Workload:   s.Workload,
			Difficulty: s.Difficulty,
			ExamDate:   s.ExamDate,
			Color:      s.Color,
		})
	}
	return out
}

func toSchedulerPreferences(pref *models.StudyPreference) scheduler.Preferences {
	return scheduler.Preferences{
		StudyHoursPerWeek:   pref.StudyHoursPerWeek,
		Morning:             pref.Morning,
		Afternoon:           pref.Afternoon,
		Evening:             pref.Evening,
		Night:               pref.Night,
		SessionLength:       pref.SessionLength,
		BreakDuration:       pref.BreakDuration,
		MaxConsecutiveHours: pref.MaxConsecutiveHours,
		WeekendStudy:        pref.WeekendStudy,
	}
}

// collectBookedSlots expands weekly constraints over the horizon and adds
// sessions that will survive the planned-session sweep.
func collectBookedSlots(start time.Time, days int, constraints []models.TimeConstraint, existing []models.StudySession) []scheduler.BookedSlot {
	var slots []scheduler.BookedSlot

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		for _, c := range constraints {
			if int(date.Weekday()) != c.DayOfWeek {
				continue
			}
			slots = append(slots, scheduler.BookedSlot{
				StartTime: date.Add(time.Duration(c.StartHour) * time.Hour),
				EndTime:   date.Add(time.Duration(c.EndHour) * time.Hour),
			})
		}
	}

	for _, sess := range existing {
		if sess.Status == models.SessionPlanned && !sess.StartTime.Before(start) {
			continue // about to be deleted and regenerated
		}
		slots = append(slots, scheduler.BookedSlot{StartTime: sess.StartTime, EndTime: sess.EndTime})
	}

	return slots
}

func toStudySessions(userID string, proposed []scheduler.ProposedSession) []models.StudySession {
	out := make([]models.StudySession, 0, len(proposed))
	for _, p := range proposed {
		out = append(out, models.StudySession{
			UserID:      userID,
			SubjectID:   p.SubjectID,
			SubjectName: p.SubjectName,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			Status:      models.SessionPlanned,
			Color:       p.Color,
		})
	}
	return out
}
