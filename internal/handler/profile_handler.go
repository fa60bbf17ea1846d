package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// maxAvatarSize caps avatar uploads at 5 MiB
const maxAvatarSize = 5 << 20

// ProfileHandler serves the authenticated user's profile endpoints
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the caller's profile
// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	result, err := h.profileService.GetProfile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UpdateProfile applies partial profile edits
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.profileService.UpdateProfile(c, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UploadAvatar stores a new avatar image from a multipart form
// POST /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Avatar file is required")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Avatar file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Could not read avatar file")
		return
	}
	defer file.Close()

	result, err := h.profileService.UploadAvatar(c, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
