package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/service"
	"github.com/nestbio/linko/internal/testutil"
)

func setupAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), nil, cfg)
	return NewAuthHandler(authService, nil)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "not-an-email",
		Username: "testuser",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	body := dto.RegisterRequest{
		Email:    "dup@example.com",
		Username: "first",
		Password: "password123",
	}
	performRequest(router, "POST", "/register", body)

	body.Username = "second"
	w := performRequest(router, "POST", "/register", body)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "login@example.com",
		Username: "loginuser",
		Password: "password123",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "wrong@example.com",
		Username: "wronguser",
		Password: "password123",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "wrong@example.com",
		Password: "badpassword1",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_ForgotPassword_UnknownEmail(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/forgot-password", handler.ForgotPassword)

	// unknown addresses get the same success response as known ones
	w := performRequest(router, "POST", "/forgot-password", dto.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_ResetPassword_BadCode(t *testing.T) {
	handler := setupAuthHandler(t)

	router := gin.New()
	router.POST("/reset-password", handler.ResetPassword)

	w := performRequest(router, "POST", "/reset-password", dto.ResetPasswordRequest{
		Code:     "deadbeef",
		Password: "newpassword1",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}
