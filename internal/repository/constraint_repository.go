package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rizkia-dev/study-planner-api/internal/models"
)

// ConstraintRepository handles persistence for recurring time constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository creates a new repository instance.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

const constraintColumns = "id, user_id, kind, label, day_of_week, start_hour, end_hour, created_at, updated_at"

// ListByUser returns all constraints for a user ordered by weekday and hour.
func (r *ConstraintRepository) ListByUser(ctx context.Context, userID string) ([]models.TimeConstraint, error) {
	query := fmt.Sprintf("SELECT %s FROM time_constraints WHERE user_id = $1 ORDER BY day_of_week, start_hour", constraintColumns)
	var constraints []models.TimeConstraint
	if err := r.db.SelectContext(ctx, &constraints, query, userID); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	return constraints, nil
}

// FindByID returns a constraint scoped to its owner.
func (r *ConstraintRepository) FindByID(ctx context.Context, userID, id string) (*models.TimeConstraint, error) {
	query := fmt.Sprintf("SELECT %s FROM time_constraints WHERE id = $1 AND user_id = $2 LIMIT 1", constraintColumns)
	var constraint models.TimeConstraint
	if err := r.db.GetContext(ctx, &constraint, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find constraint: %w", err)
	}
	return &constraint, nil
}

// Create persists a new constraint.
func (r *ConstraintRepository) Create(ctx context.Context, constraint *models.TimeConstraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = now
	}
	constraint.UpdatedAt = now

	const query = `INSERT INTO time_constraints (id, user_id, kind, label, day_of_week, start_hour, end_hour, created_at, updated_at) VALUES (:id, :user_id, :kind, :label, :day_of_week, :start_hour, :end_hour, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}
	return nil
}

// Update modifies a constraint.
func (r *ConstraintRepository) Update(ctx context.Context, constraint *models.TimeConstraint) error {
	constraint.UpdatedAt = time.Now().UTC()
	const query = `UPDATE time_constraints SET kind = :kind, label = :label, day_of_week = :day_of_week, start_hour = :start_hour, end_hour = :end_hour, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("update constraint: %w", err)
	}
	return nil
}

// Delete removes a constraint by id.
func (r *ConstraintRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_constraints WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete constraint: %w", err)
	}
	return nil
}
