package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/client"
	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
)

// ProfileService defines the interface for user profile business logic
type ProfileService interface {
	GetProfile(ctx context.Context) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, fileName, contentType string, file io.Reader) (*dto.AvatarUploadResponse, error)
}

// profileServiceImpl is the implementation of ProfileService
type profileServiceImpl struct {
	userRepo repository.UserRepository
	s3Client client.S3ClientInterface
	logger   *zap.Logger
}

// NewProfileService creates a new instance of ProfileService.
// s3Client may be nil when avatar storage is not configured; uploads then
// fail with a validation error while the rest of the profile still works.
func NewProfileService(userRepo repository.UserRepository, s3Client client.S3ClientInterface, logger *zap.Logger) ProfileService {
	return &profileServiceImpl{
		userRepo: userRepo,
		s3Client: s3Client,
		logger:   logger,
	}
}

// GetProfile returns the authenticated user's profile
func (s *profileServiceImpl) GetProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	user, profile, err := s.loadUserAndProfile(ctx)
	if err != nil {
		return nil, err
	}
	return s.toProfileResponse(user, profile), nil
}

// UpdateProfile applies partial profile edits; nil fields are untouched
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, profile, err := s.loadUserAndProfile(ctx)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.NotifyTaskAssigned != nil {
		profile.NotifyTaskAssigned = *req.NotifyTaskAssigned
	}
	if req.NotifyTaskDue != nil {
		profile.NotifyTaskDue = *req.NotifyTaskDue
	}
	if req.NotifyTaskStatus != nil {
		profile.NotifyTaskStatus = *req.NotifyTaskStatus
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update profile", err.Error())
	}

	return s.toProfileResponse(user, profile), nil
}

// UploadAvatar stores a new avatar image and drops the previous one
func (s *profileServiceImpl) UploadAvatar(ctx context.Context, fileName, contentType string, file io.Reader) (*dto.AvatarUploadResponse, error) {
	if s.s3Client == nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Avatar storage is not configured", "")
	}

	user, profile, err := s.loadUserAndProfile(ctx)
	if err != nil {
		return nil, err
	}

	key, err := s.s3Client.GenerateAvatarKey(user.ID.String(), fileName)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unsupported avatar file", err.Error())
	}

	url, err := s.s3Client.UploadFile(ctx, key, file, contentType)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to upload avatar", err.Error())
	}

	oldKey := profile.AvatarKey
	profile.AvatarKey = key
	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to save avatar", err.Error())
	}

	// Old avatar cleanup is best-effort
	if oldKey != "" {
		if err := s.s3Client.DeleteFile(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete previous avatar",
				zap.String("key", oldKey),
				zap.Error(err),
			)
		}
	}

	return &dto.AvatarUploadResponse{AvatarURL: url}, nil
}

func (s *profileServiceImpl) loadUserAndProfile(ctx context.Context) (*domain.User, *domain.UserProfile, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewAppError(response.ErrCodeNotFound, "Account not found", "")
		}
		return nil, nil, response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	profile, err := s.userRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, nil, response.NewAppError(response.ErrCodeInternal, "Failed to load profile", err.Error())
	}

	return user, profile, nil
}

func (s *profileServiceImpl) toProfileResponse(user *domain.User, profile *domain.UserProfile) *dto.ProfileResponse {
	avatarURL := domain.DefaultAvatarURL
	if profile.AvatarKey != "" && s.s3Client != nil {
		avatarURL = s.s3Client.GetFileURL(profile.AvatarKey)
	}
	return &dto.ProfileResponse{
		Username:           user.Username,
		Email:              user.Email,
		Bio:                profile.Bio,
		AvatarURL:          avatarURL,
		NotifyTaskAssigned: profile.NotifyTaskAssigned,
		NotifyTaskDue:      profile.NotifyTaskDue,
		NotifyTaskStatus:   profile.NotifyTaskStatus,
	}
}
