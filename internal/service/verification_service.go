package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/repository"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	msgCodeSent        = "verification code sent"
	msgVerified        = "verification completed"
	msgAlreadyVerified = "already verified"
)

// VerificationService orchestrates the policy, the record store and the
// notification gateway behind RequestCode and SubmitCode. Each call runs its
// read-modify-write inside a store transaction holding a row lock on the
// latest record for the (email, purpose) pair.
type VerificationService struct {
	records repository.EmailVerificationRepository
	audits  repository.VerificationAuditRepository

	gateway  NotificationGateway
	codes    CodeGenerator
	policy   VerificationPolicy
	clock    Clock
	logger   *logrus.Logger
	settings Settings
}

func NewVerificationService(
	records repository.EmailVerificationRepository,
	audits repository.VerificationAuditRepository,
	gateway NotificationGateway,
	codes CodeGenerator,
	clock Clock,
	logger *logrus.Logger,
	settings Settings,
) *VerificationService {
	if codes == nil {
		codes = NumericCodeGenerator{}
	}
	return &VerificationService{
		records:  records,
		audits:   audits,
		gateway:  gateway,
		codes:    codes,
		policy:   NewVerificationPolicy(settings),
		clock:    clock,
		logger:   logger,
		settings: settings,
	}
}

func (s *VerificationService) RequestCode(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) (*RequestResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}

	record := &entity.EmailVerification{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(s.settings.codeTTL()),
		CreatedAt: now,
	}

	var policyErr error
	err = s.records.InTx(ctx, func(tx repository.EmailVerificationRepository) error {
		prior, err := tx.FindLatestForUpdate(ctx, email, purpose)
		if err != nil {
			return err
		}

		unblocked, checkErr := s.policy.CheckRequest(prior, now)
		if unblocked {
			if err := tx.Save(ctx, prior); err != nil {
				return err
			}
			_ = s.audit(ctx, email, purpose, entity.BlockLifted, nil)
		}
		if checkErr != nil {
			// commit the lifted block, reject the request
			policyErr = checkErr
			return nil
		}

		if err := tx.Create(ctx, record); err != nil {
			return err
		}

		if !s.settings.KeepRecordOnSendFailure {
			// Sending inside the transaction so a delivery failure rolls the
			// insert back and the caller is free to retry without a cooldown.
			if err := s.send(ctx, email, code, purpose); err != nil {
				policyErr = &NotificationError{Err: err}
				return policyErr
			}
		}
		return nil
	})
	if policyErr != nil {
		var notify *NotificationError
		if errors.As(policyErr, &notify) {
			_ = s.audit(ctx, email, purpose, entity.CodeSendFailed, map[string]any{"error": notify.Err.Error()})
			s.log().WithError(notify.Err).WithField("email", utils.MaskEmail(email)).Warn("verification code send failed")
		}
		return nil, policyErr
	}
	if err != nil {
		return nil, err
	}

	if s.settings.KeepRecordOnSendFailure {
		if err := s.send(ctx, email, code, purpose); err != nil {
			_ = s.audit(ctx, email, purpose, entity.CodeSendFailed, map[string]any{"error": err.Error()})
			s.log().WithError(err).WithField("email", utils.MaskEmail(email)).Warn("verification code send failed")
			return nil, &NotificationError{Err: err}
		}
	}

	_ = s.audit(ctx, email, purpose, entity.CodeIssued, map[string]any{"expires_at": record.ExpiresAt})
	return &RequestResult{
		Message:          msgCodeSent,
		ExpiresInSeconds: int64(s.settings.codeTTL().Seconds()),
	}, nil
}

func (s *VerificationService) SubmitCode(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
	code string,
) (*SubmitResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if !s.codes.ValidFormat(code) {
		return nil, ErrInvalidCodeFormat
	}

	now := s.now()
	var (
		result        *SubmitResult
		policyErr     error
		becameBlocked bool
		blockLifted   bool
	)
	err := s.records.InTx(ctx, func(tx repository.EmailVerificationRepository) error {
		record, err := tx.FindLatestForUpdate(ctx, email, purpose)
		if err != nil {
			return err
		}
		if record == nil {
			policyErr = ErrNoSuchVerification
			return nil
		}

		wasBlocked := record.Blocked
		outcome, changed, evalErr := s.policy.Evaluate(record, code, now)
		if changed {
			// Policy mutations persist even on a failed outcome; only storage
			// errors roll this transaction back.
			if err := tx.Save(ctx, record); err != nil {
				return err
			}
		}
		becameBlocked = !wasBlocked && record.Blocked
		blockLifted = wasBlocked && !record.Blocked
		if evalErr != nil {
			policyErr = evalErr
			return nil
		}

		if outcome == SubmitAlreadyVerified {
			result = &SubmitResult{Message: msgAlreadyVerified}
		} else {
			result = &SubmitResult{Message: msgVerified}
			_ = s.audit(ctx, email, purpose, entity.EmailVerified, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if blockLifted {
		_ = s.audit(ctx, email, purpose, entity.BlockLifted, nil)
	}
	if policyErr != nil {
		var mismatch *CodeMismatchError
		var blocked *TooManyAttemptsError
		switch {
		case errors.As(policyErr, &mismatch):
			_ = s.audit(ctx, email, purpose, entity.CodeRejected, map[string]any{"remaining_attempts": mismatch.RemainingAttempts})
		case errors.As(policyErr, &blocked) && becameBlocked:
			_ = s.audit(ctx, email, purpose, entity.AttemptsBlocked, map[string]any{"blocked_until": blocked.BlockedUntil})
			s.log().WithFields(logrus.Fields{
				"email":         utils.MaskEmail(email),
				"purpose":       purpose,
				"blocked_until": blocked.BlockedUntil,
			}).Warn("verification blocked after too many attempts")
		}
		return nil, policyErr
	}
	return result, nil
}

func (s *VerificationService) IsVerified(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
) (bool, error) {
	return s.records.ExistsVerified(ctx, utils.NormalizeEmail(email), purpose)
}

// SweepRecords purges unverified records whose code expired before the
// retention window and verified records older than it. Meant to be driven by
// a scheduler; request and submit paths never call it.
func (s *VerificationService) SweepRecords(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	expired, err := s.records.SweepExpiredUnverified(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	verified, err := s.records.SweepOldVerified(ctx, cutoff)
	if err != nil {
		return expired, err
	}
	s.log().WithFields(logrus.Fields{
		"expired_removed":  expired,
		"verified_removed": verified,
	}).Info("verification records swept")
	return expired + verified, nil
}

func (s *VerificationService) send(ctx context.Context, email string, code string, purpose entity.VerificationPurpose) error {
	if s.gateway == nil {
		return nil
	}
	return s.gateway.Send(ctx, email, code, purpose)
}

func (s *VerificationService) audit(
	ctx context.Context,
	email string,
	purpose entity.VerificationPurpose,
	action entity.VerificationAction,
	metadata map[string]any,
) error {
	if s.audits == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	return s.audits.Log(ctx, &entity.VerificationAudit{
		Email:    email,
		Purpose:  purpose,
		Action:   action,
		Metadata: payload,
	})
}

func (s *VerificationService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *VerificationService) log() *logrus.Logger {
	if s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}
