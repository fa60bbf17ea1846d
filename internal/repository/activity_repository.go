package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// ActivityRepository defines the interface for the append-only activity
// trail. There is intentionally no update or delete method.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	FindRecentByBoard(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]*domain.Activity, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Activity, error)
}

// activityRepositoryImpl is the GORM implementation of ActivityRepository
type activityRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

// Create appends an activity record
func (r *activityRepositoryImpl) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindRecentByBoard returns the most recent records of a board, newest
// first, optionally filtered by exact action label
func (r *activityRepositoryImpl) FindRecentByBoard(ctx context.Context, boardID uuid.UUID, action string, limit int) ([]*domain.Activity, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID)
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var activities []*domain.Activity
	if err := query.Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByBoardID returns the full trail of a board, newest first
func (r *activityRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
