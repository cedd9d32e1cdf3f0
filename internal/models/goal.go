package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefinedGoal is the structured output contract of the goal-refinement agent.
// It is only ever constructed from a fully validated model response.
type RefinedGoal struct {
	RefinedGoal     string   `json:"refined_goal"`
	KeyResults      []string `json:"key_results"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Goal is a persisted, user-approved goal record.
type Goal struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"userId" db:"user_id"`
	OriginalInput   string    `json:"original_input" db:"original_input"`
	RefinedGoal     string    `json:"refined_goal" db:"refined_goal"`
	KeyResults      []string  `json:"key_results" db:"key_results"`
	ConfidenceScore float64   `json:"confidence_score" db:"confidence_score"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// GoalRepository defines goal data access
type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	FindByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Goal, int, error)
}
