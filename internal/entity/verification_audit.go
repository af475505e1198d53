package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VerificationAction string

const (
	CodeIssued      VerificationAction = "code_issued"
	CodeSendFailed  VerificationAction = "code_send_failed"
	CodeRejected    VerificationAction = "code_rejected"
	AttemptsBlocked VerificationAction = "attempts_blocked"
	BlockLifted     VerificationAction = "block_lifted"
	EmailVerified   VerificationAction = "email_verified"
)

type VerificationAudit struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Email   string              `gorm:"type:varchar(255);not null;index"`
	Purpose VerificationPurpose `gorm:"type:varchar(32);not null"`
	Action  VerificationAction  `gorm:"type:varchar(32);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}

func (VerificationAudit) TableName() string {
	return "verification_audits"
}
