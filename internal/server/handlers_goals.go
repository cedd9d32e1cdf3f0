// internal/server/handlers_goals.go
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "goal-coach/internal/common/errors"
	"goal-coach/internal/models"
	"goal-coach/internal/store"
)

// A persisted goal carries the same shape the refinement agent emits.
const (
	minKeyResults = 3
	maxKeyResults = 5
)

type createGoalRequest struct {
	OriginalInput   string   `json:"original_input"`
	RefinedGoal     string   `json:"refined_goal"`
	KeyResults      []string `json:"key_results"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// CreateGoal persists a user-approved refined goal.
func (h *handlers) CreateGoal(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(userIDKey))
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewUnauthorizedError("malformed token subject"))
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.RefinedGoal) == "" {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("refined_goal must not be empty"))
		return
	}
	if len(req.KeyResults) < minKeyResults || len(req.KeyResults) > maxKeyResults {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError(
			fmt.Sprintf("key_results must contain between %d and %d items", minKeyResults, maxKeyResults)))
		return
	}
	if req.ConfidenceScore < 0 || req.ConfidenceScore > 1 {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("confidence_score must be between 0 and 1"))
		return
	}

	goal := &models.Goal{
		UserID:          userID,
		OriginalInput:   req.OriginalInput,
		RefinedGoal:     req.RefinedGoal,
		KeyResults:      req.KeyResults,
		ConfidenceScore: req.ConfidenceScore,
	}
	if err := h.goals.Create(c.Request.Context(), goal); err != nil {
		h.errHandler.Respond(c, apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// GetGoal returns one of the caller's goals by id. Goals owned by other
// users are reported as missing, so ids cannot be probed across accounts.
func (h *handlers) GetGoal(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(userIDKey))
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewUnauthorizedError("malformed token subject"))
		return
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewGoalNotFoundError(c.Param("id")))
		return
	}

	goal, err := h.goals.FindByID(c.Request.Context(), goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.errHandler.Respond(c, apperrors.NewGoalNotFoundError(goalID.String()))
			return
		}
		h.errHandler.Respond(c, apperrors.NewDatabaseError(err))
		return
	}
	if goal.UserID != userID {
		h.errHandler.Respond(c, apperrors.NewGoalNotFoundError(goalID.String()))
		return
	}

	c.JSON(http.StatusOK, goal)
}

// ListGoals returns one page of the caller's goals, newest first.
func (h *handlers) ListGoals(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(userIDKey))
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewUnauthorizedError("malformed token subject"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(store.DefaultPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = store.DefaultPageSize
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	goals, total, err := h.goals.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goals":  goals,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
