// internal/server/handlers_auth.go
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goal-coach/internal/common/auth"
	apperrors "goal-coach/internal/common/errors"
	"goal-coach/internal/models"
	"goal-coach/internal/store"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup registers a new account.
func (h *handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("invalid request body"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := auth.ValidateUsername(req.Username); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError(err.Error()))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewInternalError(err))
		return
	}

	user := &models.User{Username: req.Username, PasswordHash: hash}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.errHandler.Respond(c, err)
		return
	}

	token, err := h.tokens.CreateAccessToken(user.ID.String())
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewInternalError(err))
		return
	}

	h.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID.String(),
	})
	c.JSON(http.StatusCreated, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.tokens.TTL().Seconds()),
	})
}

// Login verifies credentials and issues an access token. A lookup miss still
// burns one bcrypt comparison against a dummy hash, so response timing does
// not reveal whether the username exists.
func (h *handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errHandler.Respond(c, apperrors.NewValidationFailedError("invalid request body"))
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.VerifyPassword(req.Password, auth.DummyPasswordHash)
			h.errHandler.Respond(c, apperrors.NewInvalidCredentialsError())
			return
		}
		h.errHandler.Respond(c, err)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		h.errHandler.Respond(c, apperrors.NewInvalidCredentialsError())
		return
	}

	token, err := h.tokens.CreateAccessToken(user.ID.String())
	if err != nil {
		h.errHandler.Respond(c, apperrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.tokens.TTL().Seconds()),
	})
}
