package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
)

// ListService defines the interface for task list business logic
type ListService interface {
	CreateList(ctx context.Context, boardID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error)
	UpdateList(ctx context.Context, boardID, listID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error)
	DeleteList(ctx context.Context, boardID, listID uuid.UUID) error
}

// listServiceImpl is the implementation of ListService
type listServiceImpl struct {
	taskListRepo repository.TaskListRepository
	memberSvc    MemberService
	activityRepo repository.ActivityRepository
	cache        ProgressCache
	logger       *zap.Logger
}

// NewListService creates a new instance of ListService
func NewListService(
	taskListRepo repository.TaskListRepository,
	memberSvc MemberService,
	activityRepo repository.ActivityRepository,
	cache ProgressCache,
	logger *zap.Logger,
) ListService {
	return &listServiceImpl{
		taskListRepo: taskListRepo,
		memberSvc:    memberSvc,
		activityRepo: activityRepo,
		cache:        cache,
		logger:       logger,
	}
}

// CreateList appends a list to the board. The position is the number of
// lists existing at creation time and is never renumbered afterwards.
func (s *listServiceImpl) CreateList(ctx context.Context, boardID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error) {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return nil, err
	}

	count, err := s.taskListRepo.CountByBoard(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to determine list position", err.Error())
	}

	list := &domain.TaskList{
		BoardID:  boardID,
		Title:    req.Title,
		Position: int(count),
	}
	if err := s.taskListRepo.Create(ctx, list); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create list", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionListCreated, list.Title)
	s.cache.Invalidate(ctx, boardID)

	resp := toListResponse(list)
	return &resp, nil
}

// UpdateList renames a list
func (s *listServiceImpl) UpdateList(ctx context.Context, boardID, listID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error) {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...); err != nil {
		return nil, err
	}

	list, err := s.findBoardList(ctx, boardID, listID)
	if err != nil {
		return nil, err
	}

	list.Title = req.Title
	if err := s.taskListRepo.Update(ctx, list); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update list", err.Error())
	}

	// Renaming can flip the list's done status, so the cached progress
	// summary is no longer trustworthy.
	s.cache.Invalidate(ctx, boardID)

	resp := toListResponse(list)
	return &resp, nil
}

// DeleteList removes a list and its tasks
func (s *listServiceImpl) DeleteList(ctx context.Context, boardID, listID uuid.UUID) error {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return err
	}

	list, err := s.findBoardList(ctx, boardID, listID)
	if err != nil {
		return err
	}

	if err := s.taskListRepo.Delete(ctx, list.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete list", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionListDeleted, list.Title)
	s.cache.Invalidate(ctx, boardID)

	return nil
}

// findBoardList loads a list and verifies it belongs to the board
func (s *listServiceImpl) findBoardList(ctx context.Context, boardID, listID uuid.UUID) (*domain.TaskList, error) {
	list, err := s.taskListRepo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "List not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load list", err.Error())
	}
	if list.BoardID != boardID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "List not found", "")
	}
	return list, nil
}

func (s *listServiceImpl) recordActivity(ctx context.Context, boardID, userID uuid.UUID, action, details string) {
	activity := &domain.Activity{
		BoardID: boardID,
		UserID:  &userID,
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

func toListResponse(l *domain.TaskList) dto.ListResponse {
	return dto.ListResponse{
		ID:        l.ID,
		BoardID:   l.BoardID,
		Title:     l.Title,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
	}
}
