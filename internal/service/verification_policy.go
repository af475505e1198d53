package service

import (
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
)

type SubmitOutcome int

const (
	SubmitVerified SubmitOutcome = iota
	SubmitAlreadyVerified
)

// VerificationPolicy is the verification state machine. It only mutates the
// records handed to it; persisting the mutations (and holding a lock over the
// read-modify-write) is the caller's job.
type VerificationPolicy struct {
	settings Settings
}

func NewVerificationPolicy(settings Settings) VerificationPolicy {
	return VerificationPolicy{settings: settings}
}

// CheckRequest gates issuing a new code against the most recent prior record
// for the same (email, purpose). The returned bool reports that an expired
// block was lifted on the prior record, which the caller must persist even
// when an error is returned.
func (p VerificationPolicy) CheckRequest(prior *entity.EmailVerification, now time.Time) (bool, error) {
	if prior == nil {
		return false, nil
	}

	unblocked := false
	if prior.BlockExpired(now) {
		prior.ClearBlock()
		unblocked = true
	}

	if prior.Blocked {
		return unblocked, &TooManyAttemptsError{BlockedUntil: blockedUntil(prior)}
	}

	if elapsed := now.Sub(prior.CreatedAt); elapsed < p.settings.resendCooldown() {
		remaining := p.settings.resendCooldown() - elapsed
		return unblocked, &ResendTooSoonError{SecondsRemaining: ceilSeconds(remaining)}
	}

	return unblocked, nil
}

// Evaluate applies the submit-side transitions in their fixed order:
// auto-unblock, blocked, expired, already-verified, mismatch, match.
// The returned bool reports that the record was mutated and must be
// persisted regardless of the returned error; a mismatch is a failure with
// a durable side effect.
func (p VerificationPolicy) Evaluate(record *entity.EmailVerification, code string, now time.Time) (SubmitOutcome, bool, error) {
	changed := false

	if record.BlockExpired(now) {
		record.ClearBlock()
		changed = true
	}

	if record.Blocked {
		return 0, changed, &TooManyAttemptsError{BlockedUntil: blockedUntil(record)}
	}

	if record.Expired(now) {
		return 0, changed, ErrCodeExpired
	}

	if record.Verified {
		return SubmitAlreadyVerified, changed, nil
	}

	if code != record.Code {
		record.Attempts++
		changed = true
		if record.Attempts >= p.settings.maxAttempts() {
			until := now.Add(p.settings.blockDuration())
			record.Blocked = true
			record.BlockedUntil = &until
			return 0, changed, &TooManyAttemptsError{BlockedUntil: until}
		}
		return 0, changed, &CodeMismatchError{RemainingAttempts: p.settings.maxAttempts() - record.Attempts}
	}

	verifiedAt := now
	record.Verified = true
	record.VerifiedAt = &verifiedAt
	return SubmitVerified, true, nil
}

func blockedUntil(record *entity.EmailVerification) time.Time {
	if record.BlockedUntil != nil {
		return *record.BlockedUntil
	}
	return time.Time{}
}

func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}
