package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmailVerificationRepository is the persistence contract for verification
// records. FindLatestForUpdate is only meaningful inside InTx, where it takes
// a row lock on the latest record for the (email, purpose) pair so that
// concurrent submissions cannot both read the same attempt count.
type EmailVerificationRepository interface {
	Create(ctx context.Context, record *entity.EmailVerification) error
	FindLatest(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.EmailVerification, error)
	FindLatestForUpdate(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.EmailVerification, error)
	Save(ctx context.Context, record *entity.EmailVerification) error
	ExistsVerified(ctx context.Context, email string, purpose entity.VerificationPurpose) (bool, error)
	SweepExpiredUnverified(ctx context.Context, olderThan time.Time) (int64, error)
	SweepOldVerified(ctx context.Context, olderThan time.Time) (int64, error)
	InTx(ctx context.Context, fn func(tx EmailVerificationRepository) error) error
}

type emailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

func (r *emailVerificationRepository) Create(ctx context.Context, record *entity.EmailVerification) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *emailVerificationRepository) FindLatest(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) (*entity.EmailVerification, error) {
	return r.findLatest(ctx, email, purpose, false)
}

func (r *emailVerificationRepository) FindLatestForUpdate(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) (*entity.EmailVerification, error) {
	return r.findLatest(ctx, email, purpose, true)
}

func (r *emailVerificationRepository) findLatest(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
	lock bool,
) (*entity.EmailVerification, error) {
	query := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Order("created_at DESC")
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record entity.EmailVerification
	err := query.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *emailVerificationRepository) Save(ctx context.Context, record *entity.EmailVerification) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *emailVerificationRepository) ExistsVerified(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.EmailVerification{}).
		Where("email = ? AND purpose = ? AND verified = true", email, purpose).
		Count(&count).Error
	return count > 0, err
}

func (r *emailVerificationRepository) SweepExpiredUnverified(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("verified = false AND expires_at < ?", olderThan).
		Delete(&entity.EmailVerification{})
	return result.RowsAffected, result.Error
}

func (r *emailVerificationRepository) SweepOldVerified(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("verified = true AND verified_at < ?", olderThan).
		Delete(&entity.EmailVerification{})
	return result.RowsAffected, result.Error
}

func (r *emailVerificationRepository) InTx(ctx context.Context, fn func(tx EmailVerificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&emailVerificationRepository{db: tx})
	})
}
