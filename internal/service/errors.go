package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCodeFormat  = errors.New("code must be exactly 6 digits")
	ErrNoSuchVerification = errors.New("no verification in progress")
	ErrCodeExpired        = errors.New("verification code expired")
)

// ResendTooSoonError rejects a code request inside the cooldown window.
type ResendTooSoonError struct {
	SecondsRemaining int64
}

func (e *ResendTooSoonError) Error() string {
	return fmt.Sprintf("code already sent, retry in %d seconds", e.SecondsRemaining)
}

// TooManyAttemptsError rejects both submissions and new requests while the
// record is blocked.
type TooManyAttemptsError struct {
	BlockedUntil time.Time
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many wrong attempts, blocked until %s", e.BlockedUntil.Format(time.RFC3339))
}

// CodeMismatchError reports a wrong code. The attempt increment has already
// been persisted by the time the caller sees this error.
type CodeMismatchError struct {
	RemainingAttempts int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("wrong verification code, %d attempts remaining", e.RemainingAttempts)
}

// NotificationError wraps a delivery failure from the notification gateway.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to send verification code: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
