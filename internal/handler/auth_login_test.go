package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomiwa/kudi/internal/config"
	"github.com/tomiwa/kudi/internal/repository"
)

// MockUserRepo implements UserRepository but only mocks the needed methods.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(user *repository.User, tx *sqlx.Tx) (int64, error) {
	return 0, nil
}

func (m *MockUserRepo) GetOne(id int64) (*repository.User, bool, error) {
	return nil, false, nil
}

func (m *MockUserRepo) GetByEmail(email string) (*repository.User, bool, error) {
	args := m.Called(email)

	user, _ := args.Get(0).(*repository.User)
	return user, args.Bool(1), args.Error(2)
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BaseURL = "http://localhost"
	cfg.HttpPort = 8080
	cfg.Jwt.SecretKey = "test_secret"
	return cfg
}

func TestHandleAuthLogin_ValidCredentials(t *testing.T) {
	mockUserRepo := new(MockUserRepo)

	testUser := &repository.User{
		ID:             123,
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	mockUserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		ErrHandler: newTestErrHandler(),
		Config:     newTestConfig(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req := httptest.NewRequest("POST", "/v1/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	authHandler.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	envelope := decodeEnvelope(t, rr)
	require.Equal(t, "Login successful", envelope["message"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["auth_token"])
	require.NotEmpty(t, data["token_expiry"])
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepo)

	testUser := &repository.User{
		ID:             123,
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	mockUserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		ErrHandler: newTestErrHandler(),
		Config:     newTestConfig(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	})

	req := httptest.NewRequest("POST", "/v1/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	authHandler.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandleAuthLogin_LockedAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepo)

	testUser := &repository.User{
		ID:             123,
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountLockedStatus,
	}

	mockUserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		ErrHandler: newTestErrHandler(),
		Config:     newTestConfig(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req := httptest.NewRequest("POST", "/v1/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	authHandler.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}
