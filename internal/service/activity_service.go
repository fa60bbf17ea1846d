package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/repository"
)

// ActivityService records and serves the append-only board activity trail
type ActivityService interface {
	Log(ctx context.Context, boardID uuid.UUID, userID *uuid.UUID, action, details string)
	ListRecent(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]dto.ActivityResponse, error)
}

// activityServiceImpl is the implementation of ActivityService
type activityServiceImpl struct {
	activityRepo repository.ActivityRepository
	memberSvc    MemberService
	logger       *zap.Logger
}

// NewActivityService creates a new instance of ActivityService
func NewActivityService(activityRepo repository.ActivityRepository, memberSvc MemberService, logger *zap.Logger) ActivityService {
	return &activityServiceImpl{
		activityRepo: activityRepo,
		memberSvc:    memberSvc,
		logger:       logger,
	}
}

// Log appends one activity record. Recording is best-effort: a failed
// insert is logged and swallowed so it never rolls back the mutation
// that produced it.
func (s *activityServiceImpl) Log(ctx context.Context, boardID uuid.UUID, userID *uuid.UUID, action, details string) {
	activity := &domain.Activity{
		BoardID: boardID,
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("board_id", boardID.String()),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ListRecent returns the newest activity entries for a board, optionally
// filtered to one action label. Any board member may read the trail.
func (s *activityServiceImpl) ListRecent(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]dto.ActivityResponse, error) {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.MemberRoles()...); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	activities, err := s.activityRepo.FindRecentByBoard(ctx, boardID, action, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	return out, nil
}

func toActivityResponse(a *domain.Activity) dto.ActivityResponse {
	resp := dto.ActivityResponse{
		ID:        a.ID,
		Action:    a.Action,
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
	if a.User != nil {
		resp.User = &dto.UserBrief{
			ID:       a.User.ID,
			Username: a.User.Username,
		}
	}
	return resp
}
