package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/dto"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type VerificationHandler struct {
	Service          *service.VerificationService
	Validate         *validator.Validate
	DefaultRetention time.Duration
}

func NewVerificationHandler(svc *service.VerificationService, validate *validator.Validate) *VerificationHandler {
	return &VerificationHandler{
		Service:          svc,
		Validate:         validate,
		DefaultRetention: 24 * time.Hour,
	}
}

func (h *VerificationHandler) RequestCode(c echo.Context) error {
	var req dto.RequestCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	purpose, err := entity.ParsePurpose(req.Purpose)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.RequestCode(c.Request().Context(), req.Email, purpose)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.RequestCodeResponse{
		Message:          result.Message,
		ExpiresInSeconds: result.ExpiresInSeconds,
	})
}

func (h *VerificationHandler) SubmitCode(c echo.Context) error {
	var req dto.SubmitCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	purpose, err := entity.ParsePurpose(req.Purpose)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.SubmitCode(c.Request().Context(), req.Email, purpose, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SubmitCodeResponse{
		Message:           result.Message,
		RemainingAttempts: result.RemainingAttempts,
	})
}

func (h *VerificationHandler) Status(c echo.Context) error {
	email := c.QueryParam("email")
	purpose, err := entity.ParsePurpose(c.QueryParam("purpose"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if email == "" {
		return writeError(c, http.StatusBadRequest, service.ErrInvalidInput)
	}
	verified, err := h.Service.IsVerified(c.Request().Context(), email, purpose)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VerificationStatusResponse{
		Email:    email,
		Purpose:  string(purpose),
		Verified: verified,
	})
}

func (h *VerificationHandler) Sweep(c echo.Context) error {
	var req dto.SweepRequest
	if err := decodeJSON(c, &req); err != nil && !errors.Is(err, io.EOF) {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	retention := h.DefaultRetention
	if req.RetentionHours > 0 {
		retention = time.Duration(req.RetentionHours) * time.Hour
	}
	removed, err := h.Service.SweepRecords(c.Request().Context(), retention)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SweepResponse{Removed: removed})
}

func (h *VerificationHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, dto.ErrorResponse{Message: err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	var tooSoon *service.ResendTooSoonError
	var blocked *service.TooManyAttemptsError
	var mismatch *service.CodeMismatchError
	var notify *service.NotificationError

	switch {
	case errors.As(err, &tooSoon):
		return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
			Message:           err.Error(),
			RetryAfterSeconds: &tooSoon.SecondsRemaining,
		})
	case errors.As(err, &blocked):
		return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
			Message:      err.Error(),
			BlockedUntil: &blocked.BlockedUntil,
		})
	case errors.As(err, &mismatch):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message:           err.Error(),
			RemainingAttempts: &mismatch.RemainingAttempts,
		})
	case errors.As(err, &notify):
		return writeError(c, http.StatusBadGateway, err)
	case errors.Is(err, service.ErrCodeExpired):
		return writeError(c, http.StatusGone, err)
	case errors.Is(err, service.ErrNoSuchVerification):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidCodeFormat),
		errors.Is(err, entity.ErrUnknownPurpose):
		return writeError(c, http.StatusBadRequest, err)
	}
	return writeError(c, http.StatusInternalServerError, err)
}
