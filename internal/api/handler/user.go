package handler

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/internal/api/middleware"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/service"
)

type UserHandler struct {
	userService     *service.UserService
	templateService *service.TemplateService
}

func NewUserHandler(userService *service.UserService, templateService *service.TemplateService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		templateService: templateService,
	}
}

// GetProfile returns the signed-in user's profile
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile applies partial profile changes
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UploadAvatar replaces the profile picture
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "missing avatar file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	url, err := h.userService.UploadAvatar(userID, data, filepath.Ext(header.Filename))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAvatarType):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrAvatarTooLarge):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrStorageUnavailable):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, gin.H{"avatar_url": url})
}

// ListTemplates returns the template catalog
// GET /api/v1/user/templates
func (h *UserHandler) ListTemplates(c *gin.Context) {
	response.Success(c, h.templateService.List())
}

// SetTemplate switches the page template
// PUT /api/v1/user/template
func (h *UserHandler) SetTemplate(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.SetTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.SetTemplate(userID, req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTemplatePremium):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}
