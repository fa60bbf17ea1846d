package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	CountByList(ctx context.Context, listID uuid.UUID) (int64, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	MoveToList(ctx context.Context, taskID, listID uuid.UUID) error
	ReplaceTags(ctx context.Context, task *domain.Task, tags []domain.Tag) error
	ReplaceAssignees(ctx context.Context, task *domain.Task, users []domain.User) error
	FindDueSoonUnnotified(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Task, error)
	FindOverdueUnnotified(ctx context.Context, now time.Time) ([]*domain.Task, error)
	StampDueSoonNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error
	StampOverdueNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task with its associations
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task with its list, creator, assignees and tags
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("TaskList").
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Tags").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByBoardID finds every task on a board with full associations,
// ordered by list position then intra-list (position, created_at)
func (r *taskRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_lists ON task_lists.id = tasks.task_list_id").
		Where("task_lists.board_id = ?", boardID).
		Preload("TaskList").
		Preload("CreatedBy").
		Preload("AssignedTo").
		Preload("Tags").
		Order("task_lists.position ASC, tasks.position ASC, tasks.created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByList counts the tasks of a list. The count doubles as the position
// of the next appended task.
func (r *taskRepositoryImpl) CountByList(ctx context.Context, listID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("task_list_id = ?", listID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update persists scalar changes to a task. Associations are replaced
// explicitly via ReplaceTags and ReplaceAssignees.
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Omit("AssignedTo", "Tags").Save(task).Error
}

// Delete removes a task and its association rows
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("AssignedTo", "Tags").Delete(&domain.Task{BaseModel: domain.BaseModel{ID: id}}).Error
}

// MoveToList reassigns the task to another list. Position is deliberately
// left untouched: intra-list order after a move is (position, created_at).
func (r *taskRepositoryImpl) MoveToList(ctx context.Context, taskID, listID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("task_list_id", listID).Error
}

// ReplaceTags makes the given set the task's exact tag set
func (r *taskRepositoryImpl) ReplaceTags(ctx context.Context, task *domain.Task, tags []domain.Tag) error {
	return r.db.WithContext(ctx).Model(task).Association("Tags").Replace(tags)
}

// ReplaceAssignees makes the given set the task's exact assignee set
func (r *taskRepositoryImpl) ReplaceAssignees(ctx context.Context, task *domain.Task, users []domain.User) error {
	return r.db.WithContext(ctx).Model(task).Association("AssignedTo").Replace(users)
}

// FindDueSoonUnnotified finds tasks due within the window that have not yet
// triggered a due-soon notification
func (r *taskRepositoryImpl) FindDueSoonUnnotified(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL").
		Where("due_date > ? AND due_date <= ?", now, now.Add(window)).
		Where("due_soon_notified_at IS NULL").
		Preload("TaskList").
		Preload("AssignedTo").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOverdueUnnotified finds past-due tasks that have not yet triggered an
// overdue notification
func (r *taskRepositoryImpl) FindOverdueUnnotified(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL").
		Where("due_date < ?", now).
		Where("overdue_notified_at IS NULL").
		Preload("TaskList").
		Preload("AssignedTo").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// StampDueSoonNotified marks the task's due-soon window as notified
func (r *taskRepositoryImpl) StampDueSoonNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("due_soon_notified_at", at).Error
}

// StampOverdueNotified marks the task's overdue window as notified
func (r *taskRepositoryImpl) StampOverdueNotified(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("overdue_notified_at", at).Error
}
