// internal/server/handlers_generate.go
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"goal-coach/internal/coach"
	apperrors "goal-coach/internal/common/errors"
)

type generateRequest struct {
	UserInput string `json:"user_input"`
	SessionID string `json:"session_id"`
}

// Generate runs one goal-refinement turn. An empty session_id starts a new
// session; a prior one continues it with feedback framing.
func (h *handlers) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("user_input must not be empty"))
		return
	}

	start := time.Now()
	result := h.coach.Generate(c.Request.Context(), req.UserInput, req.SessionID)
	if h.obs != nil {
		h.obs.RecordRefinement(c.Request.Context(), result.Outcome.String())
		h.obs.RecordRefinementDuration(c.Request.Context(), time.Since(start), result.Outcome.String())
	}

	switch result.Outcome {
	case coach.OutcomeAccepted:
		c.JSON(http.StatusOK, gin.H{
			"refined_goal":     result.Goal.RefinedGoal,
			"key_results":      result.Goal.KeyResults,
			"confidence_score": result.Goal.ConfidenceScore,
			"session_id":       result.SessionID,
		})
	case coach.OutcomeLowConfidence:
		h.errHandler.Respond(c, apperrors.NewLowConfidenceError(result.Goal.ConfidenceScore))
	case coach.OutcomeSchemaViolation:
		h.errHandler.Respond(c, apperrors.NewSchemaViolationError("model output failed validation"))
	default:
		h.errHandler.Respond(c, apperrors.NewNoResponseError("model produced no terminal response"))
	}
}
