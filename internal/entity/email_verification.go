package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type VerificationPurpose string

const (
	PurposeSignup         VerificationPurpose = "signup"
	PurposePasswordReset  VerificationPurpose = "password_reset"
	PurposePasswordChange VerificationPurpose = "password_change"
)

var ErrUnknownPurpose = errors.New("unknown verification purpose")

func ParsePurpose(value string) (VerificationPurpose, error) {
	switch VerificationPurpose(value) {
	case PurposeSignup, PurposePasswordReset, PurposePasswordChange:
		return VerificationPurpose(value), nil
	}
	return "", ErrUnknownPurpose
}

// EmailVerification is one code-issuance cycle for an (email, purpose) pair.
// A new row is inserted on every issuance; only the most recent row per pair
// is consulted by the policy.
type EmailVerification struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Email   string              `gorm:"type:varchar(255);not null;index:idx_email_verifications_pair,priority:1"`
	Purpose VerificationPurpose `gorm:"type:varchar(32);not null;index:idx_email_verifications_pair,priority:2"`
	Code    string              `gorm:"type:varchar(6);not null"`

	Verified   bool `gorm:"not null;default:false"`
	VerifiedAt *time.Time

	Attempts     int  `gorm:"not null;default:0"`
	Blocked      bool `gorm:"not null;default:false"`
	BlockedUntil *time.Time

	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;index:idx_email_verifications_pair,priority:3,sort:desc"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// Expired reports whether the code's TTL has elapsed. The boundary is strict:
// a submission at exactly ExpiresAt is still accepted.
func (v *EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// BlockExpired reports whether an active block has run out. Strict boundary:
// at exactly BlockedUntil the record is still blocked.
func (v *EmailVerification) BlockExpired(now time.Time) bool {
	return v.Blocked && v.BlockedUntil != nil && now.After(*v.BlockedUntil)
}

// ClearBlock lifts the block and resets the attempt counter.
func (v *EmailVerification) ClearBlock() {
	v.Blocked = false
	v.BlockedUntil = nil
	v.Attempts = 0
}
