package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/email"
	"github.com/nestbio/linko/internal/pkg/jwt"
	"github.com/nestbio/linko/internal/pkg/oauth"
	"github.com/nestbio/linko/internal/repository"
)

var (
	ErrEmailExists        = errors.New("email is already registered")
	ErrUsernameExists     = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrInvalidVerifyCode  = errors.New("verification code is invalid or expired")
	ErrInvalidResetCode   = errors.New("reset code is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo    *repository.UserRepository
	emailSvc    *email.Service
	cfg         *config.Config
	githubOAuth *oauth.GithubOAuth
}

func NewAuthService(userRepo *repository.UserRepository, emailSvc *email.Service, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		emailSvc: emailSvc,
		cfg:      cfg,
		githubOAuth: oauth.NewGithubOAuth(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		),
	}
}

// Register creates an unverified account and emails the verification code.
// The username doubles as the public page slug, so uniqueness is enforced
// up front.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	verifyCode, err := generateRandomCode(32)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	expiresAt := time.Now().Add(24 * time.Hour)

	user := &model.User{
		Username:              req.Username,
		Email:                 &req.Email,
		PasswordHash:          &passwordStr,
		TemplateID:            "island-minimal",
		ThemeColor:            "blue",
		ShowViewCount:         true,
		VerificationCode:      &verifyCode,
		VerificationExpiresAt: &expiresAt,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendVerificationCode(req.Email, verifyCode); err != nil {
			log.Printf("Failed to send verification email to %s: %v", req.Email, err)
		}
	}

	// debug mode skips email verification
	if s.cfg.Server.Mode == "debug" {
		user.EmailVerified = true
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return &dto.RegisterResponse{
		UserID: user.ID,
	}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.EmailVerified && s.cfg.Server.Mode != "debug" {
		return nil, ErrEmailNotVerified
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  BuildUserInfo(user),
	}, nil
}

func (s *AuthService) VerifyEmail(code string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByVerificationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidVerifyCode
		}
		return nil, err
	}

	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		return nil, ErrInvalidVerifyCode
	}

	user.EmailVerified = true
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if s.emailSvc != nil && user.Email != nil {
		if err := s.emailSvc.SendWelcome(*user.Email, user.Username); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", *user.Email, err)
		}
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  BuildUserInfo(user),
	}, nil
}

// RequestPasswordReset emails a reset code. Unknown addresses succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(emailAddr string) error {
	user, err := s.userRepo.GetByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	resetCode, err := generateRandomCode(32)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(1 * time.Hour)

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_reset_code":       resetCode,
		"password_reset_expires_at": expiresAt,
	}); err != nil {
		return err
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendPasswordReset(emailAddr, resetCode); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", emailAddr, err)
		}
	}

	return nil
}

// ResetPassword consumes the reset code and sets the new password.
func (s *AuthService) ResetPassword(code, newPassword string) error {
	user, err := s.userRepo.GetByPasswordResetCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if user.PasswordResetExpiresAt == nil || time.Now().After(*user.PasswordResetExpiresAt) {
		return ErrInvalidResetCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash":             string(hashedPassword),
		"password_reset_code":       nil,
		"password_reset_expires_at": nil,
	})
}

func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) GetGithubAuthURL(state string) string {
	return s.githubOAuth.GetAuthURL(state)
}

// GithubCallback exchanges the OAuth code and signs the user in,
// creating the account on first login.
func (s *AuthService) GithubCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	githubUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}

	githubIDStr := fmt.Sprintf("%d", githubUser.ID)

	user, err := s.userRepo.GetByGithubID(githubIDStr)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user == nil {
		user = &model.User{
			Username:      githubUser.Login,
			GithubID:      &githubIDStr,
			FullName:      githubUser.Name,
			AvatarURL:     githubUser.AvatarURL,
			TemplateID:    "island-minimal",
			ThemeColor:    "blue",
			ShowViewCount: true,
			EmailVerified: true, // OAuth accounts are pre-verified
		}

		if githubUser.Email != "" {
			user.Email = &githubUser.Email
		}

		// the login doubles as the page slug, so dodge collisions
		exists, _ := s.userRepo.ExistsByUsername(user.Username)
		if exists {
			user.Username = fmt.Sprintf("%s_%d", githubUser.Login, githubUser.ID)
		}

		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	jwtToken, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: jwtToken,
		User:  BuildUserInfo(user),
	}, nil
}

// BuildUserInfo projects a user row onto the API shape shared by auth
// and profile endpoints.
func BuildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:               user.ID,
		Username:         user.Username,
		FullName:         user.FullName,
		AvatarURL:        user.AvatarURL,
		Bio:              user.Bio,
		TemplateID:       user.TemplateID,
		ThemeColor:       user.ThemeColor,
		ShowViewCount:    user.ShowViewCount,
		SensitiveContent: user.SensitiveContent,
		ViewCount:        user.ViewCount,
		IsPremium:        user.IsPremium,
		EmailVerified:    user.EmailVerified,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}

	if user.Email != nil {
		info.Email = *user.Email
	}

	return info
}

func generateRandomCode(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
