package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// TaskListRepository defines the interface for task list data access
type TaskListRepository interface {
	Create(ctx context.Context, list *domain.TaskList) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.TaskList, error)
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error)
	Update(ctx context.Context, list *domain.TaskList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// taskListRepositoryImpl is the GORM implementation of TaskListRepository
type taskListRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskListRepository creates a new instance of TaskListRepository
func NewTaskListRepository(db *gorm.DB) TaskListRepository {
	return &taskListRepositoryImpl{db: db}
}

// Create creates a new task list
func (r *taskListRepositoryImpl) Create(ctx context.Context, list *domain.TaskList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID finds a task list by its ID
func (r *taskListRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskList, error) {
	var list domain.TaskList
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindByBoardID finds all lists of a board in position order
func (r *taskListRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.TaskList, error) {
	var lists []*domain.TaskList
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// CountByBoard counts the lists of a board. The count doubles as the
// position of the next appended list.
func (r *taskListRepositoryImpl) CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.TaskList{}).
		Where("board_id = ?", boardID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update persists changes to a task list
func (r *taskListRepositoryImpl) Update(ctx context.Context, list *domain.TaskList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// Delete removes a task list. Its tasks cascade; sibling positions are not
// renumbered.
func (r *taskListRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TaskList{}, "id = ?", id).Error
}
