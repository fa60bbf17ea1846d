package dto

// ProfileResponse is the authenticated user's profile view
type ProfileResponse struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	Bio                string `json:"bio"`
	AvatarURL          string `json:"avatar_url"`
	NotifyTaskAssigned bool   `json:"notify_task_assigned"`
	NotifyTaskDue      bool   `json:"notify_task_due"`
	NotifyTaskStatus   bool   `json:"notify_task_status"`
}

// UpdateProfileRequest carries partial profile edits; nil fields are untouched
type UpdateProfileRequest struct {
	Bio                *string `json:"bio,omitempty"`
	NotifyTaskAssigned *bool   `json:"notify_task_assigned,omitempty"`
	NotifyTaskDue      *bool   `json:"notify_task_due,omitempty"`
	NotifyTaskStatus   *bool   `json:"notify_task_status,omitempty"`
}

// AvatarUploadResponse reports the stored avatar location
type AvatarUploadResponse struct {
	AvatarURL string `json:"avatar_url"`
}
