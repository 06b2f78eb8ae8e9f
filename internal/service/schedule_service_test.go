package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/dto"
	"github.com/rizkia-dev/study-planner-api/internal/models"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type stubSubjectRepo struct {
	subjects []models.Subject
	err      error
}

func (s *stubSubjectRepo) ListAll(context.Context, string) ([]models.Subject, error) {
	return s.subjects, s.err
}

type stubPreferenceRepo struct {
	pref *models.StudyPreference
	err  error
}

func (s *stubPreferenceRepo) FindByUser(context.Context, string) (*models.StudyPreference, error) {
	if s.pref == nil && s.err == nil {
		return nil, sql.ErrNoRows
	}
	return s.pref, s.err
}

type stubConstraintRepo struct {
	constraints []models.TimeConstraint
}

func (s *stubConstraintRepo) ListByUser(context.Context, string) ([]models.TimeConstraint, error) {
	return s.constraints, nil
}

type stubSessionRepo struct {
	db       *sqlx.DB
	mock     sqlmock.Sqlmock
	existing []models.StudySession
	sessions map[string]*models.StudySession

	created     []models.StudySession
	deletedFrom *time.Time
	updated     *models.StudySession
	deletedID   string
	listReturn  []models.StudySession
	listTotal   int
}

func (s *stubSessionRepo) List(context.Context, string, models.SessionFilter) ([]models.StudySession, int, error) {
	return s.listReturn, s.listTotal, nil
}

func (s *stubSessionRepo) FindByID(_ context.Context, _ string, id string) (*models.StudySession, error) {
	if sess, ok := s.sessions[id]; ok {
		clone := *sess
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubSessionRepo) ListBetween(context.Context, string, time.Time, time.Time) ([]models.StudySession, error) {
	return s.existing, nil
}

func (s *stubSessionRepo) Begin(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

func (s *stubSessionRepo) BulkCreateWithTx(_ context.Context, _ *sqlx.Tx, sessions []models.StudySession) error {
	s.created = append(s.created, sessions...)
	return nil
}

func (s *stubSessionRepo) DeletePlannedFromWithTx(_ context.Context, _ *sqlx.Tx, _ string, cutoff time.Time) error {
	s.deletedFrom = &cutoff
	return nil
}

func (s *stubSessionRepo) Update(_ context.Context, session *models.StudySession) error {
	s.updated = session
	return nil
}

func (s *stubSessionRepo) Delete(_ context.Context, _ string, id string) error {
	s.deletedID = id
	return nil
}

type stubLocker struct {
	acquired   bool
	acquireErr error
	released   bool
}

func (s *stubLocker) AcquireGenerationLock(context.Context, string, time.Duration) (bool, error) {
	return s.acquired, s.acquireErr
}

func (s *stubLocker) ReleaseGenerationLock(context.Context, string) {
	s.released = true
}

type stubCacheInvalidator struct {
	invalidated []string
}

func (s *stubCacheInvalidator) Invalidate(_ context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	return nil
}

type stubGenerationObserver struct {
	outcomes  []string
	sessions  []int
	durations []time.Duration
}

func (s *stubGenerationObserver) ObserveGeneration(outcome string, sessions int, duration time.Duration) {
	s.outcomes = append(s.outcomes, outcome)
	s.sessions = append(s.sessions, sessions)
	s.durations = append(s.durations, duration)
}

type scheduleFixture struct {
	service  *ScheduleService
	subjects *stubSubjectRepo
	prefs    *stubPreferenceRepo
	sessions *stubSessionRepo
	locker   *stubLocker
	cache    *stubCacheInvalidator
	metrics  *stubGenerationObserver
	cleanup  func()
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")

	subjects := &stubSubjectRepo{subjects: []models.Subject{
		{ID: "math", Name: "Math", Priority: 5, Workload: 4},
		{ID: "bio", Name: "Biology", Priority: 3, Workload: 3},
	}}
	prefs := &stubPreferenceRepo{pref: &models.StudyPreference{
		UserID:              "u1",
		StudyHoursPerWeek:   10,
		Morning:             true,
		Afternoon:           true,
		SessionLength:       60,
		BreakDuration:       15,
		MaxConsecutiveHours: 2,
		WeekendStudy:        true,
	}}
	sessions := &stubSessionRepo{db: sqlxdb, mock: mock, sessions: map[string]*models.StudySession{}}
	locker := &stubLocker{acquired: true}
	cache := &stubCacheInvalidator{}
	metrics := &stubGenerationObserver{}

	svc := NewScheduleService(subjects, prefs, &stubConstraintRepo{}, sessions, locker, cache, metrics, nil, zap.NewNop(), ScheduleConfig{
		DefaultHorizonDays: 7,
		MaxHorizonDays:     31,
		GenerationLockTTL:  time.Minute,
	})
	svc.now = func() time.Time { return time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC) }

	return &scheduleFixture{
		service:  svc,
		subjects: subjects,
		prefs:    prefs,
		sessions: sessions,
		locker:   locker,
		cache:    cache,
		metrics:  metrics,
		cleanup:  func() { db.Close() },
	}
}

func TestGenerateSchedulePersistsSessions(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()

	f.sessions.mock.ExpectBegin()
	f.sessions.mock.ExpectCommit()

	resp, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Sessions)
	assert.Equal(t, len(resp.Sessions), len(f.sessions.created))
	require.NotNil(t, f.sessions.deletedFrom)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), *f.sessions.deletedFrom)
	assert.True(t, f.locker.released)
	assert.NotEmpty(t, f.cache.invalidated)

	for _, sess := range resp.Sessions {
		assert.Equal(t, "u1", sess.UserID)
		assert.Equal(t, models.SessionPlanned, sess.Status)
	}
	assert.NoError(t, f.sessions.mock.ExpectationsWereMet())
}

func TestGenerateScheduleLockHeld(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.locker.acquired = false

	_, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrGenerationInFlight))
	assert.Empty(t, f.sessions.created)
	require.Len(t, f.metrics.outcomes, 1)
	assert.Equal(t, "locked", f.metrics.outcomes[0])
}

func TestGenerateScheduleRecordsMetrics(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()

	f.sessions.mock.ExpectBegin()
	f.sessions.mock.ExpectCommit()

	resp, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})
	require.NoError(t, err)

	require.Len(t, f.metrics.outcomes, 1)
	assert.Equal(t, "success", f.metrics.outcomes[0])
	assert.Equal(t, len(resp.Sessions), f.metrics.sessions[0])
}

func TestGenerateScheduleRecordsErrorOutcome(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.subjects.subjects = nil

	_, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})

	require.Error(t, err)
	require.Len(t, f.metrics.outcomes, 1)
	assert.Equal(t, "error", f.metrics.outcomes[0])
	assert.Equal(t, 0, f.metrics.sessions[0])
}

func TestGenerateScheduleNoSubjects(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.subjects.subjects = nil

	_, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestGenerateScheduleNoEligibleHours(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.prefs.pref.Morning = false
	f.prefs.pref.Afternoon = false
	f.prefs.pref.Evening = false
	f.prefs.pref.Night = false

	_, err := f.service.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoEligibleHours))
	assert.True(t, f.locker.released)
	assert.Empty(t, f.sessions.created)
}

func TestGenerateScheduleRespectsConstraints(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()

	svc := NewScheduleService(f.subjects, f.prefs, &stubConstraintRepo{constraints: []models.TimeConstraint{
		{Kind: models.ConstraintClass, DayOfWeek: 1, StartHour: 6, EndHour: 12}, // Monday mornings blocked
	}}, f.sessions, f.locker, f.cache, f.metrics, nil, zap.NewNop(), ScheduleConfig{DefaultHorizonDays: 7, MaxHorizonDays: 31, GenerationLockTTL: time.Minute})
	svc.now = f.service.now

	f.sessions.mock.ExpectBegin()
	f.sessions.mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{})
	require.NoError(t, err)

	for _, sess := range resp.Sessions {
		if sess.StartTime.Weekday() == time.Monday {
			assert.GreaterOrEqual(t, sess.StartTime.Hour(), 12, "session packed into a class block")
		}
	}
}

func TestUpdateSessionRatingRequiresCompleted(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.sessions.sessions["s1"] = &models.StudySession{ID: "s1", UserID: "u1", Status: models.SessionPlanned}

	rating := 4
	_, err := f.service.UpdateSession(context.Background(), "u1", "s1", dto.UpdateSessionRequest{ProductivityRating: &rating})

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestUpdateSessionComplete(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()
	f.sessions.sessions["s1"] = &models.StudySession{ID: "s1", UserID: "u1", Status: models.SessionPlanned}

	status := "completed"
	rating := 5
	updated, err := f.service.UpdateSession(context.Background(), "u1", "s1", dto.UpdateSessionRequest{Status: &status, ProductivityRating: &rating})
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, updated.Status)
	require.NotNil(t, updated.ProductivityRating)
	assert.Equal(t, 5, *updated.ProductivityRating)
	require.NotNil(t, f.sessions.updated)
}

func TestRescheduleSessionConflict(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()

	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	f.sessions.sessions["s1"] = &models.StudySession{ID: "s1", UserID: "u1", StartTime: start, EndTime: start.Add(time.Hour)}
	f.sessions.existing = []models.StudySession{
		{ID: "s2", UserID: "u1", StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour)},
	}

	_, err := f.service.RescheduleSession(context.Background(), "u1", "s1", dto.RescheduleSessionRequest{
		StartTime: start.Add(2 * time.Hour),
		EndTime:   start.Add(3 * time.Hour),
	})

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestRescheduleSessionMovesFreely(t *testing.T) {
	f := newScheduleFixture(t)
	defer f.cleanup()

	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	f.sessions.sessions["s1"] = &models.StudySession{ID: "s1", UserID: "u1", StartTime: start, EndTime: start.Add(time.Hour)}

	updated, err := f.service.RescheduleSession(context.Background(), "u1", "s1", dto.RescheduleSessionRequest{
		StartTime: start.Add(4 * time.Hour),
		EndTime:   start.Add(5 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, start.Add(4*time.Hour), updated.StartTime)
}
