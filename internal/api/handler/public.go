package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/internal/api/middleware"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/service"
)

type PublicHandler struct {
	publicService *service.PublicService
}

func NewPublicHandler(publicService *service.PublicService) *PublicHandler {
	return &PublicHandler{
		publicService: publicService,
	}
}

// GetProfile serves a public page payload. A signed-in owner viewing
// their own page does not inflate the view count.
// GET /p/:username
func (h *PublicHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	viewerID, _ := middleware.GetUserID(c)

	profile, err := h.publicService.GetProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, profile)
}

// Click records a click and returns the target URL
// POST /p/links/:id/click
func (h *PublicHandler) Click(c *gin.Context) {
	linkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid link id")
		return
	}

	resp, err := h.publicService.RecordClick(c.Request.Context(), linkID)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// Share records a share
// POST /p/links/:id/share
func (h *PublicHandler) Share(c *gin.Context) {
	linkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid link id")
		return
	}

	if err := h.publicService.RecordShare(linkID); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "share recorded", nil)
}
