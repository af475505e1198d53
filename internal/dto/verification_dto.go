package dto

import "time"

type RequestCodeRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=signup password_reset password_change"`
}

type RequestCodeResponse struct {
	Message          string `json:"message"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

type SubmitCodeRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=signup password_reset password_change"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}

type SubmitCodeResponse struct {
	Message           string `json:"message"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
}

type VerificationStatusResponse struct {
	Email    string `json:"email"`
	Purpose  string `json:"purpose"`
	Verified bool   `json:"verified"`
}

type ErrorResponse struct {
	Message           string     `json:"message"`
	RetryAfterSeconds *int64     `json:"retry_after_seconds,omitempty"`
	BlockedUntil      *time.Time `json:"blocked_until,omitempty"`
	RemainingAttempts *int       `json:"remaining_attempts,omitempty"`
}

type SweepRequest struct {
	RetentionHours int `json:"retention_hours" validate:"omitempty,min=1"`
}

type SweepResponse struct {
	Removed int64 `json:"removed"`
}
