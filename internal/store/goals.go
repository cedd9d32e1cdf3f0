// internal/store/goals.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"goal-coach/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GoalStore implements models.GoalRepository on database/sql.
type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

// Create persists an approved goal. Status defaults to draft.
func (s *GoalStore) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if goal.Status == "" {
		goal.Status = "draft"
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO goals (id, user_id, original_input, refined_goal, key_results, confidence_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		goal.ID, goal.UserID, goal.OriginalInput, goal.RefinedGoal,
		pq.Array(goal.KeyResults), goal.ConfidenceScore, goal.Status,
	).Scan(&goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

// FindByID returns one goal, or ErrNotFound.
func (s *GoalStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, original_input, refined_goal, key_results, confidence_score, status, created_at
		FROM goals
		WHERE id = $1`,
		id,
	).Scan(
		&goal.ID, &goal.UserID, &goal.OriginalInput, &goal.RefinedGoal,
		pq.Array(&goal.KeyResults), &goal.ConfidenceScore, &goal.Status, &goal.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find goal: %w", err)
	}

	return &goal, nil
}

// ListByUser returns one page of the user's goals, newest first, plus the
// total count. Limit is clamped to [1, MaxPageSize].
func (s *GoalStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Goal, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM goals WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count goals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, original_input, refined_goal, key_results, confidence_score, status, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0, limit)
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(
			&goal.ID, &goal.UserID, &goal.OriginalInput, &goal.RefinedGoal,
			pq.Array(&goal.KeyResults), &goal.ConfidenceScore, &goal.Status, &goal.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, &goal)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate goals: %w", err)
	}

	return goals, total, nil
}
