package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/internal/api/middleware"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/service"
)

type LinkHandler struct {
	linkService *service.LinkService
}

func NewLinkHandler(linkService *service.LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
	}
}

// List returns all of the user's links in page order
// GET /api/v1/links
func (h *LinkHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	links, err := h.linkService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, links)
}

// Create adds a link
// POST /api/v1/links
func (h *LinkHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	link, err := h.linkService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkLimitReached):
			response.LimitError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, link)
}

// Update edits a link
// PUT /api/v1/links/:id
func (h *LinkHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	linkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid link id")
		return
	}

	var req dto.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	link, err := h.linkService.Update(userID, linkID, &req)
	if err != nil {
		h.writeLinkError(c, err)
		return
	}

	response.Success(c, link)
}

// Delete removes a link
// DELETE /api/v1/links/:id
func (h *LinkHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	linkID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid link id")
		return
	}

	if err := h.linkService.Delete(userID, linkID); err != nil {
		h.writeLinkError(c, err)
		return
	}

	response.SuccessWithMessage(c, "link deleted", nil)
}

// Reorder rewrites the page order
// PUT /api/v1/links/reorder
func (h *LinkHandler) Reorder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.ReorderLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.linkService.Reorder(userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteOrder):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrNotLinkOwner):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "links reordered", nil)
}

func (h *LinkHandler) writeLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNotLinkOwner):
		response.PermissionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
