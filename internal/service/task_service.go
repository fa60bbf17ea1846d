package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/util"
)

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, boardID, listID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, boardID, taskID uuid.UUID) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, boardID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, boardID, taskID uuid.UUID) error
	MoveTask(ctx context.Context, boardID uuid.UUID, req *dto.MoveTaskRequest) error
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo       repository.TaskRepository
	taskListRepo   repository.TaskListRepository
	tagRepo        repository.TagRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	activityRepo   repository.ActivityRepository
	memberSvc      MemberService
	cache          ProgressCache
	mail           mailer.Mailer
	metrics        *metrics.Metrics
	siteURL        string
	logger         *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	taskListRepo repository.TaskListRepository,
	tagRepo repository.TagRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	memberSvc MemberService,
	cache ProgressCache,
	mail mailer.Mailer,
	m *metrics.Metrics,
	siteURL string,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:       taskRepo,
		taskListRepo:   taskListRepo,
		tagRepo:        tagRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		activityRepo:   activityRepo,
		memberSvc:      memberSvc,
		cache:          cache,
		mail:           mail,
		metrics:        m,
		siteURL:        siteURL,
		logger:         logger,
	}
}

// CreateTask appends a task to a list. The position is the number of tasks
// in the list at creation time; it is never renumbered, not even when the
// task later moves to another list.
func (s *taskServiceImpl) CreateTask(ctx context.Context, boardID, listID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return nil, err
	}

	list, err := s.findBoardList(ctx, boardID, listID)
	if err != nil {
		return nil, err
	}

	priority, err := parsePriorityOrDefault(req.Priority)
	if err != nil {
		return nil, err
	}

	assignees, err := s.resolveAssignees(ctx, boardID, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	count, err := s.taskRepo.CountByList(ctx, list.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to determine task position", err.Error())
	}

	task := &domain.Task{
		TaskListID:  list.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		Position:    int(count),
		CreatedByID: &actor.UserID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	if err := s.taskRepo.ReplaceAssignees(ctx, task, assignees); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set assignees", err.Error())
	}
	if err := s.taskRepo.ReplaceTags(ctx, task, tags); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set tags", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionTaskCreated, task.Title)
	s.metrics.IncrementTaskCreated()
	s.cache.Invalidate(ctx, boardID)

	s.notifyAssigned(boardID, task.Title, assignees)

	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}
	resp := toTaskResponse(created)
	return &resp, nil
}

// GetTask returns one task with its associations
func (s *taskServiceImpl) GetTask(ctx context.Context, boardID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.MemberRoles()...); err != nil {
		return nil, err
	}

	task, err := s.findBoardTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

// UpdateTask replaces the task's fields and both association sets. The
// request carries the full desired sets: an empty assignee or tag list
// clears the association.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, boardID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return nil, err
	}

	task, err := s.findBoardTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	priority, err := parsePriorityOrDefault(req.Priority)
	if err != nil {
		return nil, err
	}

	assignees, err := s.resolveAssignees(ctx, boardID, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	previousAssignees := make(map[uuid.UUID]bool, len(task.AssignedTo))
	for _, u := range task.AssignedTo {
		previousAssignees[u.ID] = true
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Priority = priority
	task.DueDate = req.DueDate
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	if err := s.taskRepo.ReplaceAssignees(ctx, task, assignees); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set assignees", err.Error())
	}
	if err := s.taskRepo.ReplaceTags(ctx, task, tags); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to set tags", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionTaskUpdated, task.Title)
	s.cache.Invalidate(ctx, boardID)

	// Only users gaining the assignment are notified
	var added []domain.User
	for _, u := range assignees {
		if !previousAssignees[u.ID] {
			added = append(added, u)
		}
	}
	s.notifyAssigned(boardID, task.Title, added)

	updated, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}
	resp := toTaskResponse(updated)
	return &resp, nil
}

// DeleteTask removes a task
func (s *taskServiceImpl) DeleteTask(ctx context.Context, boardID, taskID uuid.UUID) error {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return err
	}

	task, err := s.findBoardTask(ctx, boardID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionTaskDeleted, task.Title)
	s.cache.Invalidate(ctx, boardID)

	return nil
}

// MoveTask relocates a task to another list on the same board. Only the
// list reference changes; the task keeps its original position value.
// Moving across boards is rejected.
func (s *taskServiceImpl) MoveTask(ctx context.Context, boardID uuid.UUID, req *dto.MoveTaskRequest) error {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.EditorRoles()...)
	if err != nil {
		return err
	}

	task, err := s.findBoardTask(ctx, boardID, req.TaskID)
	if err != nil {
		return err
	}

	target, err := s.taskListRepo.FindByID(ctx, req.NewListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "List not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load list", err.Error())
	}
	if target.BoardID != boardID {
		return response.NewAppError(response.ErrCodeValidation, "Cannot move a task to a list on another board", "")
	}

	if task.TaskListID == target.ID {
		return nil
	}

	fromTitle := task.TaskList.Title
	if err := s.taskRepo.MoveToList(ctx, task.ID, target.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to move task", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionTaskMoved,
		fmt.Sprintf("%s (%s → %s)", task.Title, fromTitle, target.Title))
	s.metrics.IncrementTaskMoved()
	s.cache.Invalidate(ctx, boardID)

	s.notifyStatusChanged(boardID, task, target.Title)

	return nil
}

// findBoardList loads a list and verifies it belongs to the board
func (s *taskServiceImpl) findBoardList(ctx context.Context, boardID, listID uuid.UUID) (*domain.TaskList, error) {
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

// findBoardTask loads a task and verifies its list belongs to the board
func (s *taskServiceImpl) findBoardTask(ctx context.Context, boardID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task", err.Error())
	}
	if task.TaskList.BoardID != boardID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
	}
	return task, nil
}

// resolveAssignees loads the requested assignees; IDs that are not board
// members are silently dropped
func (s *taskServiceImpl) resolveAssignees(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	memberIDs, err := s.membershipRepo.FindMemberUserIDs(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board members", err.Error())
	}
	members := make(map[uuid.UUID]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	users := make([]domain.User, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !members[id] {
			continue
		}
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load assignee", err.Error())
		}
		users = append(users, *user)
	}
	return users, nil
}

// resolveTags loads the requested tags; unknown IDs are silently dropped
func (s *taskServiceImpl) resolveTags(ctx context.Context, ids []uuid.UUID) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tags", err.Error())
	}
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, *t)
	}
	return out, nil
}

// notifyAssigned emails users who opted in to assignment notifications.
// Delivery happens in the background and never affects the request.
func (s *taskServiceImpl) notifyAssigned(boardID uuid.UUID, taskTitle string, users []domain.User) {
	if len(users) == 0 {
		return
	}
	boardURL := util.BuildBoardURL(s.siteURL, boardID)

	go func() {
		ctx := context.Background()
		for _, user := range users {
			profile, err := s.userRepo.GetOrCreateProfile(ctx, user.ID)
			if err != nil || !profile.NotifyTaskAssigned {
				continue
			}
			body := fmt.Sprintf("Hola %s,\n\nSe te ha asignado la tarea \"%s\".\n\n%s\n", user.Username, taskTitle, boardURL)
			err = s.mail.Send(user.Email, "Nueva tarea asignada", body)
			s.metrics.RecordNotificationEmail("task_assigned", err)
			if err != nil {
				s.logger.Warn("Failed to send assignment email",
					zap.String("user_id", user.ID.String()),
					zap.Error(err),
				)
			}
		}
	}()
}

// notifyStatusChanged emails the task's assignees after a move
func (s *taskServiceImpl) notifyStatusChanged(boardID uuid.UUID, task *domain.Task, newListTitle string) {
	if len(task.AssignedTo) == 0 {
		return
	}
	assignees := append([]domain.User(nil), task.AssignedTo...)
	boardURL := util.BuildBoardURL(s.siteURL, boardID)
	statusLabel := util.ListStatusLabel(newListTitle)

	go func() {
		ctx := context.Background()
		for _, user := range assignees {
			profile, err := s.userRepo.GetOrCreateProfile(ctx, user.ID)
			if err != nil || !profile.NotifyTaskStatus {
				continue
			}
			body := fmt.Sprintf("Hola %s,\n\nLa tarea \"%s\" ahora está en %s.\n\n%s\n", user.Username, task.Title, statusLabel, boardURL)
			err = s.mail.Send(user.Email, "Tarea actualizada", body)
			s.metrics.RecordNotificationEmail("task_status", err)
			if err != nil {
				s.logger.Warn("Failed to send status email",
					zap.String("user_id", user.ID.String()),
					zap.Error(err),
				)
			}
		}
	}()
}

func (s *taskServiceImpl) recordActivity(ctx context.Context, boardID, userID uuid.UUID, action, details string) {
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

func parsePriorityOrDefault(raw string) (domain.Priority, error) {
	if raw == "" {
		return domain.PriorityMedium, nil
	}
	priority, ok := domain.ParsePriority(raw)
	if !ok {
		return "", response.NewAppError(response.ErrCodeValidation, "Priority must be low, medium or high", "")
	}
	return priority, nil
}

func toTaskResponse(t *domain.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:          t.ID,
		TaskListID:  t.TaskListID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Position:    t.Position,
		AssignedTo:  []dto.UserBrief{},
		Tags:        []dto.TagResponse{},
		CreatedAt:   t.CreatedAt,
	}
	if t.CreatedBy != nil {
		resp.CreatedBy = &dto.UserBrief{ID: t.CreatedBy.ID, Username: t.CreatedBy.Username}
	}
	for _, u := range t.AssignedTo {
		resp.AssignedTo = append(resp.AssignedTo, dto.UserBrief{ID: u.ID, Username: u.Username})
	}
	for _, tag := range t.Tags {
		resp.Tags = append(resp.Tags, toTagResponse(&tag))
	}
	return resp
}

func toTagResponse(t *domain.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
	}
}
