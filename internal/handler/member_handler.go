package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// MemberHandler serves the board membership endpoints
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// ListMembers returns the board's members
// GET /api/boards/:boardId/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	result, err := h.memberService.ListMembers(c, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// AddMember attaches an existing user to the board
// POST /api/boards/:boardId/members
func (h *MemberHandler) AddMember(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.memberService.AddMember(c, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// UpdateMemberRole changes a member's role
// PUT /api/boards/:boardId/members/:membershipId
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	membershipID, ok := parseUUIDParam(c, "membershipId")
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.memberService.UpdateRole(c, boardID, membershipID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// RemoveMember detaches a member from the board
// DELETE /api/boards/:boardId/members/:membershipId
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	membershipID, ok := parseUUIDParam(c, "membershipId")
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(c, boardID, membershipID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendMessage(c, http.StatusOK, "Member removed")
}
