package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// InviteHandler serves the invitation endpoints
type InviteHandler struct {
	inviteService service.InviteService
}

// NewInviteHandler creates a new InviteHandler
func NewInviteHandler(inviteService service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// SendInvite creates or refreshes an invitation and emails the link
// POST /api/boards/:boardId/invites
func (h *InviteHandler) SendInvite(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.inviteService.SendInvite(c, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// ListInvites returns the board's invitations
// GET /api/boards/:boardId/invites
func (h *InviteHandler) ListInvites(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	result, err := h.inviteService.ListInvites(c, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// RevokeInvite deletes an invitation, invalidating its emailed link
// DELETE /api/boards/:boardId/invites/:inviteId
func (h *InviteHandler) RevokeInvite(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	inviteID, ok := parseUUIDParam(c, "inviteId")
	if !ok {
		return
	}

	if err := h.inviteService.RevokeInvite(c, boardID, inviteID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendMessage(c, http.StatusOK, "Invitation revoked")
}

// AcceptInvite redeems a signed invitation token for the caller
// POST /api/invites/accept/:token
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invitation token is required")
		return
	}

	result, err := h.inviteService.AcceptInvite(c, token)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
