package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

// SessionRepository handles persistence for study sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, user_id, subject_id, subject_name, start_time, end_time, status, productivity_rating, notes, color, created_at, updated_at"

// List returns sessions matching filters with pagination metadata.
func (r *SessionRepository) List(ctx context.Context, userID string, filter models.SessionFilter) ([]models.StudySession, int, error) {
	base := "FROM study_sessions WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.SubjectID != "" {
		base += fmt.Sprintf(" AND subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		base += fmt.Sprintf(" AND start_time >= $%d", len(args)+1)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		base += fmt.Sprintf(" AND start_time < $%d", len(args)+1)
		args = append(args, *filter.To)
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"start_time": true,
		"status":     true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_time"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", sessionColumns, base, sortBy, order, size, offset)
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	return sessions, total, nil
}

// FindByID returns a session scoped to its owner.
func (r *SessionRepository) FindByID(ctx context.Context, userID, id string) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE id = $1 AND user_id = $2 LIMIT 1", sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// ListBetween returns sessions whose start time falls inside [from, to).
func (r *SessionRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE user_id = $1 AND start_time >= $2 AND start_time < $3 ORDER BY start_time", sessionColumns)
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list sessions between: %w", err)
	}
	return sessions, nil
}

// BulkCreateWithTx inserts generated sessions using an existing transaction.
func (r *SessionRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.StudySession) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.bulkInsertSessions(ctx, tx, sessions)
}

func (r *SessionRepository) bulkInsertSessions(ctx context.Context, exec sqlx.ExtContext, sessions []models.StudySession) error {
	now := time.Now().UTC()
	for i := range sessions {
		payload := sessions[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.Status == "" {
			payload.Status = models.SessionPlanned
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO study_sessions (id, user_id, subject_id, subject_name, start_time, end_time, status, productivity_rating, notes, color, created_at, updated_at) VALUES (:id, :user_id, :subject_id, :subject_name, :start_time, :end_time, :status, :productivity_rating, :notes, :color, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert session: %w", err)
		}
		sessions[i] = payload
	}
	return nil
}

// DeletePlannedFromWithTx removes the user's not-yet-started planned
// sessions from the cutoff onward, inside an existing transaction.
func (r *SessionRepository) DeletePlannedFromWithTx(ctx context.Context, tx *sqlx.Tx, userID string, cutoff time.Time) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM study_sessions WHERE user_id = $1 AND status = $2 AND start_time >= $3`, userID, models.SessionPlanned, cutoff); err != nil {
		return fmt.Errorf("delete planned sessions: %w", err)
	}
	return nil
}

// Update modifies a session's mutable fields.
func (r *SessionRepository) Update(ctx context.Context, session *models.StudySession) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE study_sessions SET start_time = :start_time, end_time = :end_time, status = :status, productivity_rating = :productivity_rating, notes = :notes, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// MarkMissedBefore flips planned sessions whose end time passed the cutoff
// to missed, returning how many rows changed.
func (r *SessionRepository) MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE study_sessions SET status = $1, updated_at = $2 WHERE status = $3 AND end_time < $4`,
		models.SessionMissed, time.Now().UTC(), models.SessionPlanned, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark missed sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("missed sessions rows affected: %w", err)
	}
	return affected, nil
}

// Begin opens a transaction for multi-step schedule writes.
func (r *SessionRepository) Begin(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sessions tx: %w", err)
	}
	return tx, nil
}
