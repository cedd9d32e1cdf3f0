// Package errors provides standardized error handling for the goal coach service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Refinement pipeline errors
	ErrCodeNoResponse      ErrorCode = "NO_RESPONSE"
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
	ErrCodeLowConfidence   ErrorCode = "LOW_CONFIDENCE"

	// Auth errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"

	// Request errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Infrastructure errors
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeGoalNotFound    ErrorCode = "GOAL_NOT_FOUND"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNoResponseError signals the model produced no terminal text.
func NewNoResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoResponse,
		Message:   "Model produced no usable response",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaViolationError signals the model output failed schema validation.
func NewSchemaViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaViolation,
		Message:   "Model output did not match the goal schema",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLowConfidenceError signals the refinement was gated on confidence.
func NewLowConfidenceError(confidence float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeLowConfidence,
		Message:   "Refined goal did not meet the confidence threshold",
		Details:   fmt.Sprintf("confidence: %.4f", confidence),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable missing/invalid token error.
func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Authentication required",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCredentialsError creates a non-retryable login failure error.
// The message never distinguishes a missing user from a wrong password.
func NewInvalidCredentialsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCredentials,
		Message:   "Incorrect username or password",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUsernameTakenError creates a non-retryable signup conflict error.
func NewUsernameTakenError(username string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUsernameTaken,
		Message:   "Username already registered",
		Details:   fmt.Sprintf("username: %s", username),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a retryable rate limit error.
func NewRateLimitedError(windowSeconds int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Details:   fmt.Sprintf("retry after %d seconds", windowSeconds),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseError creates a retryable database error.
func NewDatabaseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseError,
		Message:   "Database operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGoalNotFoundError creates a non-retryable missing goal error.
func NewGoalNotFoundError(goalID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGoalNotFound,
		Message:   "Goal not found",
		Details:   fmt.Sprintf("goalId: %s", goalID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeNoResponse:         502,
	ErrCodeSchemaViolation:    502,
	ErrCodeLowConfidence:      400,
	ErrCodeUnauthorized:       401,
	ErrCodeInvalidCredentials: 401,
	ErrCodeUsernameTaken:      409,
	ErrCodeValidationFailed:   400,
	ErrCodeRateLimited:        429,
	ErrCodeDatabaseError:      500,
	ErrCodeGoalNotFound:       404,
	ErrCodeInternal:           500,
}

// HTTPStatus returns the status code for an error code, 500 when unmapped.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return 500
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryable checks if an error is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "UNAUTHORIZED") || strings.Contains(codeStr, "USERNAME"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "GOAL"):
		return "DATABASE"
	case strings.Contains(codeStr, "RESPONSE") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "CONFIDENCE"):
		return "AI"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "RATE"):
		return "REQUEST"
	default:
		return "OTHER"
	}
}
