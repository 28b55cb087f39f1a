package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/oss"
	"github.com/nestbio/linko/internal/repository"
)

var (
	ErrInvalidAvatarType  = errors.New("unsupported avatar file type")
	ErrAvatarTooLarge     = errors.New("avatar file exceeds the size limit")
	ErrStorageUnavailable = errors.New("avatar storage is not configured")
)

const maxAvatarSize = 2 << 20 // 2 MB

type UserService struct {
	userRepo    *repository.UserRepository
	templateSvc *TemplateService
	ossClient   *oss.Client
}

func NewUserService(userRepo *repository.UserRepository, templateSvc *TemplateService, ossClient *oss.Client) *UserService {
	return &UserService{
		userRepo:    userRepo,
		templateSvc: templateSvc,
		ossClient:   ossClient,
	}
}

func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return BuildUserInfo(user), nil
}

// UpdateProfile applies partial updates. A username change re-checks
// uniqueness since it is the public page slug.
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Username != nil && *req.Username != user.Username {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		exists, err := s.userRepo.ExistsByUsername(username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		fields["username"] = username
		user.Username = username
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
		user.Bio = *req.Bio
	}
	if req.ThemeColor != nil {
		fields["theme_color"] = *req.ThemeColor
		user.ThemeColor = *req.ThemeColor
	}
	if req.ShowViewCount != nil {
		fields["show_view_count"] = *req.ShowViewCount
		user.ShowViewCount = *req.ShowViewCount
	}
	if req.SensitiveContent != nil {
		fields["sensitive_content"] = *req.SensitiveContent
		user.SensitiveContent = *req.SensitiveContent
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return BuildUserInfo(user), nil
}

// SetTemplate switches the page template, enforcing premium gating.
func (s *UserService) SetTemplate(userID int64, templateID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.templateSvc.ValidateForUser(templateID, user.IsPremium); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"template_id": templateID}); err != nil {
		return nil, err
	}
	user.TemplateID = templateID

	return BuildUserInfo(user), nil
}

// UploadAvatar stores the image and replaces the previous one. The OSS
// client is optional at boot, so uploads fail cleanly when it is absent.
func (s *UserService) UploadAvatar(userID int64, data []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", ErrInvalidAvatarType
	}
	if len(data) > maxAvatarSize {
		return "", ErrAvatarTooLarge
	}
	if s.ossClient == nil {
		return "", ErrStorageUnavailable
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	url, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}

	// best effort: drop the old object
	if user.AvatarURL != "" {
		if key := s.ossClient.ExtractObjectKey(user.AvatarURL); key != "" {
			_ = s.ossClient.Delete(key)
		}
	}

	return url, nil
}
