package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// BoardHandler serves the board endpoints
type BoardHandler struct {
	boardService    service.BoardService
	activityService service.ActivityService
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardService service.BoardService, activityService service.ActivityService) *BoardHandler {
	return &BoardHandler{
		boardService:    boardService,
		activityService: activityService,
	}
}

// CreateBoard creates a board owned by the caller
// POST /api/boards
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.boardService.CreateBoard(c, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// ListBoards returns the caller's boards
// GET /api/boards
func (h *BoardHandler) ListBoards(c *gin.Context) {
	result, err := h.boardService.ListBoards(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetBoard returns the full board view, optionally filtered by ?tag=
// GET /api/boards/:boardId
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var activeTagID *uuid.UUID
	if raw := c.Query("tag"); raw != "" {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid tag filter")
			return
		}
		activeTagID = &tagID
	}

	result, err := h.boardService.GetBoard(c, boardID, activeTagID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UpdateBoard edits board title and description
// PUT /api/boards/:boardId
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.boardService.UpdateBoard(c, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteBoard removes a board and everything under it
// DELETE /api/boards/:boardId
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c, boardID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendMessage(c, http.StatusOK, "Board deleted")
}

// ListActivity returns the board's recent activity, optionally filtered
// by exact action label
// GET /api/boards/:boardId/activity?action=
func (h *BoardHandler) ListActivity(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	result, err := h.activityService.ListRecent(c, boardID, c.Query("action"), 20)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
