package repository

import (
	"context"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"

	"gorm.io/gorm"
)

type VerificationAuditRepository interface {
	Log(ctx context.Context, record *entity.VerificationAudit) error
}

type verificationAuditRepository struct {
	db *gorm.DB
}

func NewVerificationAuditRepository(db *gorm.DB) VerificationAuditRepository {
	return &verificationAuditRepository{db: db}
}

func (r *verificationAuditRepository) Log(ctx context.Context, record *entity.VerificationAudit) error {
	return r.db.WithContext(ctx).Create(record).Error
}
