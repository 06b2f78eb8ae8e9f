package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rizkia-dev/study-planner-api/internal/models"
	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type analyticsRepository interface {
	WeeklyProgress(ctx context.Context, userID string, weekStart, weekEnd time.Time) ([]models.WeeklyProgress, error)
	ProductivityWindow(ctx context.Context, userID string, since, until time.Time) (*models.ProductivitySummary, error)
	MissedBySubject(ctx context.Context, userID string, since time.Time) ([]models.MissedSubjectCount, error)
}

const productivityWindowDays = 7

// AnalyticsService aggregates study statistics, caching the results.
type AnalyticsService struct {
	repo     analyticsRepository
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// WeekSummary returns the planned-versus-completed picture for the week
// containing the reference date. Weeks start on Monday.
func (s *AnalyticsService) WeekSummary(ctx context.Context, userID string, ref time.Time) (*models.StudyWeekSummary, error) {
	weekStart := startOfWeek(ref.UTC())
	weekEnd := weekStart.AddDate(0, 0, 7)

	key := fmt.Sprintf("analytics:%s:week:%s", userID, weekStart.Format("2006-01-02"))
	var cached models.StudyWeekSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	rows, err := s.repo.WeeklyProgress(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate weekly progress")
	}

	summary := &models.StudyWeekSummary{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd.AddDate(0, 0, -1),
		BySubject:   rows,
		GeneratedAt: s.now().UTC(),
	}
	for _, row := range rows {
		summary.PlannedHours += row.PlannedHours
		summary.CompletedHours += row.CompletedHours
	}
	if summary.PlannedHours > 0 {
		summary.CompletionRate = summary.CompletedHours / summary.PlannedHours
	}

	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache week summary", zap.String("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

// Productivity returns average session quality over the trailing week,
// with a trend against the week before it.
func (s *AnalyticsService) Productivity(ctx context.Context, userID string) (*models.ProductivitySummary, error) {
	key := fmt.Sprintf("analytics:%s:productivity", userID)
	var cached models.ProductivitySummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	now := s.now().UTC()
	since := now.AddDate(0, 0, -productivityWindowDays)
	summary, err := s.repo.ProductivityWindow(ctx, userID, since, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate productivity")
	}

	previous, err := s.repo.ProductivityWindow(ctx, userID, since.AddDate(0, 0, -productivityWindowDays), since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate previous productivity window")
	}

	summary.WindowDays = productivityWindowDays
	summary.Trend = ratingTrend(summary, previous)
	summary.GeneratedAt = now

	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache productivity summary", zap.String("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

// MissedSummary groups missed sessions by subject over the trailing week.
func (s *AnalyticsService) MissedSummary(ctx context.Context, userID string) (*models.MissedSummary, error) {
	key := fmt.Sprintf("analytics:%s:missed", userID)
	var cached models.MissedSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	now := s.now().UTC()
	rows, err := s.repo.MissedBySubject(ctx, userID, now.AddDate(0, 0, -productivityWindowDays))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate missed sessions")
	}

	summary := &models.MissedSummary{
		WindowDays:  productivityWindowDays,
		BySubject:   rows,
		GeneratedAt: now,
	}
	for _, row := range rows {
		summary.Total += row.Missed
	}

	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache missed summary", zap.String("user_id", userID), zap.Error(err))
	}
	return summary, nil
}

func ratingTrend(current, previous *models.ProductivitySummary) string {
	if current.RatedSessions == 0 || previous.RatedSessions == 0 {
		return "steady"
	}
	const epsilon = 0.1
	switch {
	case current.AverageRating > previous.AverageRating+epsilon:
		return "up"
	case current.AverageRating < previous.AverageRating-epsilon:
		return "down"
	default:
		return "steady"
	}
}

// startOfWeek normalises to the Monday 00:00 UTC of the reference week.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
