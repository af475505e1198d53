package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/handler"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/middleware"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/api/routes"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/dto"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/repository"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/service"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	records []entity.EmailVerification
}

func (s *stubStore) Create(_ context.Context, record *entity.EmailVerification) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *stubStore) FindLatest(_ context.Context, email string, purpose entity.VerificationPurpose) (*entity.EmailVerification, error) {
	var latest *entity.EmailVerification
	for i := range s.records {
		record := s.records[i]
		if record.Email != email || record.Purpose != purpose {
			continue
		}
		if latest == nil || !record.CreatedAt.Before(latest.CreatedAt) {
			copied := record
			latest = &copied
		}
	}
	return latest, nil
}

func (s *stubStore) FindLatestForUpdate(ctx context.Context, email string, purpose entity.VerificationPurpose) (*entity.EmailVerification, error) {
	return s.FindLatest(ctx, email, purpose)
}

func (s *stubStore) Save(_ context.Context, record *entity.EmailVerification) error {
	for i := range s.records {
		if s.records[i].ID == record.ID {
			s.records[i] = *record
		}
	}
	return nil
}

func (s *stubStore) ExistsVerified(_ context.Context, email string, purpose entity.VerificationPurpose) (bool, error) {
	for i := range s.records {
		if s.records[i].Email == email && s.records[i].Purpose == purpose && s.records[i].Verified {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) SweepExpiredUnverified(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubStore) SweepOldVerified(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubStore) InTx(_ context.Context, fn func(tx repository.EmailVerificationRepository) error) error {
	snapshot := append([]entity.EmailVerification(nil), s.records...)
	if err := fn(s); err != nil {
		s.records = snapshot
		return err
	}
	return nil
}

type fixedGenerator struct{}

func (fixedGenerator) Generate() (string, error) { return "042017", nil }

func (fixedGenerator) ValidFormat(code string) bool {
	return service.NumericCodeGenerator{}.ValidFormat(code)
}

func newTestHandler() (*handler.VerificationHandler, *stubStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := &stubStore{}
	svc := service.NewVerificationService(
		store,
		nil,
		service.LogGateway{Logger: logger},
		fixedGenerator{},
		service.RealClock{},
		logger,
		service.Settings{},
	)
	return handler.NewVerificationHandler(svc, validator.New()), store
}

func doJSON(t *testing.T, handlerFunc echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handlerFunc(c))
	return rec
}

func TestRequestCodeEndpoint(t *testing.T) {
	h, store := newTestHandler()

	rec := doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"signup"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp dto.RequestCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(180), resp.ExpiresInSeconds)
	assert.Len(t, store.records, 1)
}

func TestRequestCodeRejectsUnknownPurpose(t *testing.T) {
	h, _ := newTestHandler()
	rec := doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"login"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestCodeCooldownResponse(t *testing.T) {
	h, _ := newTestHandler()

	first := doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"signup"}`)
	require.Equal(t, http.StatusAccepted, first.Code)

	second := doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"signup"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	require.NotNil(t, resp.RetryAfterSeconds)
	assert.Greater(t, *resp.RetryAfterSeconds, int64(0))
}

func TestSubmitCodeMismatchResponse(t *testing.T) {
	h, _ := newTestHandler()

	doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"signup"}`)

	rec := doJSON(t, h.SubmitCode, http.MethodPost, "/verifications/submit",
		`{"email":"a@b.com","purpose":"signup","code":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.RemainingAttempts)
	assert.Equal(t, 4, *resp.RemainingAttempts)
}

func TestSubmitCodeWithoutRequestIs404(t *testing.T) {
	h, _ := newTestHandler()
	rec := doJSON(t, h.SubmitCode, http.MethodPost, "/verifications/submit",
		`{"email":"a@b.com","purpose":"signup","code":"042017"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	h, _ := newTestHandler()

	doJSON(t, h.RequestCode, http.MethodPost, "/verifications/request",
		`{"email":"a@b.com","purpose":"signup"}`)

	rec := doJSON(t, h.Status, http.MethodGet, "/verifications/status?email=a@b.com&purpose=signup", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var status dto.VerificationStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Verified)

	submitted := doJSON(t, h.SubmitCode, http.MethodPost, "/verifications/submit",
		`{"email":"a@b.com","purpose":"signup","code":"042017"}`)
	require.Equal(t, http.StatusOK, submitted.Code)

	rec = doJSON(t, h.Status, http.MethodGet, "/verifications/status?email=a@b.com&purpose=signup", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Verified)
}

func TestSweepRouteRequiresAdminToken(t *testing.T) {
	h, _ := newTestHandler()
	secret := []byte("test-secret")

	e := echo.New()
	router := routes.NewRouter(e, h, middleware.AuthMiddleware{JWT: &utils.JWTManager{Secret: secret}})
	router.RegisterRoutes()

	// No token.
	req := httptest.NewRequest(http.MethodPost, "/admin/verifications/sweep", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Admin token.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.APIClaims{
		Subject: "ops",
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/admin/verifications/sweep", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SweepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Removed)
}
