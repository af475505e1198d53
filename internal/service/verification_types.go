package service

import (
	"context"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
)

// Settings are the tunables of the verification lifecycle. Zero values fall
// back to the production defaults via the accessor methods.
type Settings struct {
	CodeTTL        time.Duration
	MaxAttempts    int
	BlockDuration  time.Duration
	ResendCooldown time.Duration

	// KeepRecordOnSendFailure leaves the freshly inserted record standing when
	// the notification gateway fails. The default rolls the insert back so the
	// user can retry immediately instead of waiting out a cooldown for a code
	// that never arrived.
	KeepRecordOnSendFailure bool
}

func (s Settings) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return 3 * time.Minute
}

func (s Settings) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return 5
}

func (s Settings) blockDuration() time.Duration {
	if s.BlockDuration > 0 {
		return s.BlockDuration
	}
	return 30 * time.Minute
}

func (s Settings) resendCooldown() time.Duration {
	if s.ResendCooldown > 0 {
		return s.ResendCooldown
	}
	return 60 * time.Second
}

// NotificationGateway delivers a verification code. Implementations must not
// retry internally; a failed send is reported to the caller as a
// NotificationError.
type NotificationGateway interface {
	Send(ctx context.Context, to string, code string, purpose entity.VerificationPurpose) error
}

type CodeGenerator interface {
	Generate() (string, error)
	ValidFormat(code string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type RequestResult struct {
	Message          string
	ExpiresInSeconds int64
}

type SubmitResult struct {
	Message           string
	RemainingAttempts *int
}
