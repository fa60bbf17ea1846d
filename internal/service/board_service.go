package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/util"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	ListBoards(ctx context.Context) ([]dto.BoardResponse, error)
	GetBoard(ctx context.Context, boardID uuid.UUID, activeTagID *uuid.UUID) (*dto.BoardDetailResponse, error)
	UpdateBoard(ctx context.Context, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, boardID uuid.UUID) error
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	boardRepo      repository.BoardRepository
	membershipRepo repository.MembershipRepository
	taskListRepo   repository.TaskListRepository
	taskRepo       repository.TaskRepository
	activityRepo   repository.ActivityRepository
	memberSvc      MemberService
	cache          ProgressCache
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(
	boardRepo repository.BoardRepository,
	membershipRepo repository.MembershipRepository,
	taskListRepo repository.TaskListRepository,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	memberSvc MemberService,
	cache ProgressCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:      boardRepo,
		membershipRepo: membershipRepo,
		taskListRepo:   taskListRepo,
		taskRepo:       taskRepo,
		activityRepo:   activityRepo,
		memberSvc:      memberSvc,
		cache:          cache,
		metrics:        m,
		logger:         logger,
	}
}

// CreateBoard creates a board and the creator's owner membership. The
// membership row is what grants access; the board is rolled back if it
// cannot be written.
func (s *boardServiceImpl) CreateBoard(ctx context.Context, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	board := &domain.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
	}

	membership := &domain.BoardMembership{
		BoardID: board.ID,
		UserID:  userID,
		Role:    domain.RoleOwner,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if delErr := s.boardRepo.Delete(ctx, board.ID); delErr != nil {
			s.logger.Error("Failed to roll back board after membership failure",
				zap.String("board_id", board.ID.String()),
				zap.Error(delErr),
			)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create owner membership", err.Error())
	}

	s.recordActivity(ctx, board.ID, userID, domain.ActionBoardCreated, board.Title)
	s.metrics.IncrementBoardCreated()

	resp := toBoardResponse(board)
	resp.Role = string(domain.RoleOwner)
	return &resp, nil
}

// ListBoards returns every board the caller is a member of
func (s *boardServiceImpl) ListBoards(ctx context.Context) ([]dto.BoardResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	boards, err := s.boardRepo.FindByMember(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list boards", err.Error())
	}

	out := make([]dto.BoardResponse, 0, len(boards))
	for _, board := range boards {
		resp := toBoardResponse(board)
		if membership, err := s.membershipRepo.FindByBoardAndUser(ctx, board.ID, userID); err == nil {
			resp.Role = string(membership.Role)
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetBoard builds the full board view. The optional tag filter narrows the
// visible tasks but never the progress summary, which always covers the
// whole board.
func (s *boardServiceImpl) GetBoard(ctx context.Context, boardID uuid.UUID, activeTagID *uuid.UUID) (*dto.BoardDetailResponse, error) {
	membership, err := s.memberSvc.Authorize(ctx, boardID, domain.MemberRoles()...)
	if err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}

	lists, err := s.taskListRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load lists", err.Error())
	}

	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}

	progress := s.boardProgress(ctx, boardID, lists, tasks)
	boardTags := collectBoardTags(tasks)

	tasksByList := make(map[uuid.UUID][]dto.TaskResponse, len(lists))
	for _, task := range tasks {
		if activeTagID != nil && !taskHasTag(task, *activeTagID) {
			continue
		}
		tasksByList[task.TaskListID] = append(tasksByList[task.TaskListID], toTaskResponse(task))
	}

	listViews := make([]dto.ListWithTasks, 0, len(lists))
	for _, list := range lists {
		view := dto.ListWithTasks{
			ID:        list.ID,
			Title:     list.Title,
			Position:  list.Position,
			StatusKey: util.ListStatusKey(list.Title),
			Tasks:     tasksByList[list.ID],
		}
		if view.Tasks == nil {
			view.Tasks = []dto.TaskResponse{}
		}
		listViews = append(listViews, view)
	}

	activities, err := s.activityRepo.FindRecentByBoard(ctx, boardID, "", 20)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load activity", err.Error())
	}
	activityViews := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		activityViews = append(activityViews, toActivityResponse(a))
	}

	members, err := s.memberSvc.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}

	return &dto.BoardDetailResponse{
		ID:             board.ID,
		Title:          board.Title,
		Description:    board.Description,
		OwnerID:        board.OwnerID,
		Role:           string(membership.Role),
		Lists:          listViews,
		Progress:       *progress,
		BoardTags:      boardTags,
		ActiveTagID:    activeTagID,
		RecentActivity: activityViews,
		Members:        members,
	}, nil
}

// UpdateBoard edits title and description. Owner only.
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}

	board.Title = req.Title
	board.Description = req.Description
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update board", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionBoardUpdated, board.Title)

	resp := toBoardResponse(board)
	resp.Role = string(domain.RoleOwner)
	return &resp, nil
}

// DeleteBoard removes the board and everything under it. Owner only.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, boardID uuid.UUID) error {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete board", err.Error())
	}

	s.cache.Invalidate(ctx, boardID)
	return nil
}

// boardProgress serves the completion summary from cache when possible
func (s *boardServiceImpl) boardProgress(ctx context.Context, boardID uuid.UUID, lists []*domain.TaskList, tasks []*domain.Task) *dto.BoardProgressResponse {
	if cached, ok := s.cache.Get(ctx, boardID); ok {
		return cached
	}

	doneLists := make(map[uuid.UUID]bool, len(lists))
	for _, list := range lists {
		if util.IsDoneList(list.Title) {
			doneLists[list.ID] = true
		}
	}

	progress := &dto.BoardProgressResponse{TotalTasks: len(tasks)}
	for _, task := range tasks {
		if doneLists[task.TaskListID] {
			progress.DoneTasks++
		}
	}
	if progress.TotalTasks > 0 {
		progress.Percent = progress.DoneTasks * 100 / progress.TotalTasks
	}

	s.cache.Set(ctx, boardID, progress)
	return progress
}

func (s *boardServiceImpl) recordActivity(ctx context.Context, boardID, userID uuid.UUID, action, details string) {
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

// collectBoardTags returns the distinct tags used on the board, name order
// preserved from the task ordering
func collectBoardTags(tasks []*domain.Task) []dto.TagResponse {
	seen := make(map[uuid.UUID]bool)
	out := []dto.TagResponse{}
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if seen[tag.ID] {
				continue
			}
			seen[tag.ID] = true
			out = append(out, toTagResponse(&tag))
		}
	}
	return out
}

func taskHasTag(task *domain.Task, tagID uuid.UUID) bool {
	for _, tag := range task.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

func toBoardResponse(b *domain.Board) dto.BoardResponse {
	return dto.BoardResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		Owner:       b.Owner.Username,
		CreatedAt:   b.CreatedAt,
	}
}
