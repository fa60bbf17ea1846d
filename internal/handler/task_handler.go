package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// TaskHandler serves the task endpoints
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask appends a task to a list
// POST /api/boards/:boardId/lists/:listId/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "listId")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.taskService.CreateTask(c, boardID, listID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// GetTask returns one task
// GET /api/boards/:boardId/tasks/:taskId
func (h *TaskHandler) GetTask(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}

	result, err := h.taskService.GetTask(c, boardID, taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UpdateTask replaces a task's fields and association sets
// PUT /api/boards/:boardId/tasks/:taskId
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.taskService.UpdateTask(c, boardID, taskID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteTask removes a task
// DELETE /api/boards/:boardId/tasks/:taskId
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c, boardID, taskID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendMessage(c, http.StatusOK, "Task deleted")
}

// MoveTask relocates a task to another list on the same board. This
// endpoint keeps the original drag-and-drop wire contract: a bare
// {"status": "ok"} or {"status": "error"} instead of the envelope.
// POST /api/boards/:boardId/tasks/move
func (h *TaskHandler) MoveTask(c *gin.Context) {
	boardID, err := parseUUIDPath(c, "boardId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	if err := h.taskService.MoveTask(c, boardID, &req); err != nil {
		status := http.StatusInternalServerError
		var appErr *response.AppError
		if errors.As(err, &appErr) {
			status = mapErrorCodeToHTTPStatus(appErr.Code)
		}
		c.JSON(status, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
