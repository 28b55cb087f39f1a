package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/jwt"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/testutil"
)

func setupAuthService(t *testing.T, mode string) (*AuthService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: mode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
	}

	svc := NewAuthService(repository.NewUserRepository(db), nil, cfg)
	return svc, db
}

func TestAuthService_Register(t *testing.T) {
	svc, db := setupAuthService(t, "release")

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	assert.False(t, user.EmailVerified)
	require.NotNil(t, user.VerificationCode)
	assert.Equal(t, "island-minimal", user.TemplateID)
	// never store the raw password
	assert.NotEqual(t, "supersecret1", *user.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, db := setupAuthService(t, "release")
	testutil.TestUser(t, db, testutil.WithEmail("dup@example.com"))

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "someoneelse",
		Email:    "dup@example.com",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, db := setupAuthService(t, "release")
	testutil.TestUser(t, db, testutil.WithUsername("slug"))

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "slug",
		Email:    "fresh@example.com",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthService(t, "debug")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "loginuser",
		Email:    "login@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "loginuser", resp.User.Username)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t, "debug")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "wrongpw",
		Email:    "wrongpw@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "notthepassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnverifiedEmail(t *testing.T) {
	svc, _ := setupAuthService(t, "release")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "unverified",
		Email:    "unverified@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{
		Email:    "unverified@example.com",
		Password: "supersecret1",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	svc, db := setupAuthService(t, "release")

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "toverify",
		Email:    "toverify@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	require.NotNil(t, user.VerificationCode)

	login, err := svc.VerifyEmail(*user.VerificationCode)
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.True(t, login.User.EmailVerified)
}

func TestAuthService_VerifyEmail_Expired(t *testing.T) {
	svc, db := setupAuthService(t, "release")

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "expired",
		Email:    "expired@example.com",
		Password: "supersecret1",
	})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", resp.UserID).
		Update("verification_expires_at", past).Error)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)

	_, err = svc.VerifyEmail(*user.VerificationCode)
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestAuthService_VerifyEmail_BadCode(t *testing.T) {
	svc, _ := setupAuthService(t, "release")

	_, err := svc.VerifyEmail("deadbeef")
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestAuthService_PasswordReset(t *testing.T) {
	svc, db := setupAuthService(t, "debug")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "forgetful",
		Email:    "forgetful@example.com",
		Password: "oldpassword1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset("forgetful@example.com"))

	var user model.User
	require.NoError(t, db.Where("username = ?", "forgetful").First(&user).Error)
	require.NotNil(t, user.PasswordResetCode)

	require.NoError(t, svc.ResetPassword(*user.PasswordResetCode, "newpassword1"))

	// old password no longer works, the new one does
	_, err = svc.Login(&dto.LoginRequest{
		Email:    "forgetful@example.com",
		Password: "oldpassword1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(&dto.LoginRequest{
		Email:    "forgetful@example.com",
		Password: "newpassword1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// the code is one-shot
	err = svc.ResetPassword(*user.PasswordResetCode, "anotherpassword1")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestAuthService_PasswordReset_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService(t, "release")

	// unknown addresses succeed silently, no account probing
	assert.NoError(t, svc.RequestPasswordReset("nobody@example.com"))
}

func TestAuthService_PasswordReset_ExpiredCode(t *testing.T) {
	svc, db := setupAuthService(t, "debug")

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "slowpoke",
		Email:    "slowpoke@example.com",
		Password: "oldpassword1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset("slowpoke@example.com"))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "slowpoke").
		Update("password_reset_expires_at", past).Error)

	var user model.User
	require.NoError(t, db.Where("username = ?", "slowpoke").First(&user).Error)

	err = svc.ResetPassword(*user.PasswordResetCode, "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}
