package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// boardRepositoryImpl is the GORM implementation of BoardRepository
type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

// Create creates a new board
func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindByID finds a board by its ID
func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).Preload("Owner").First(&board, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindByMember finds every board the user holds a membership on,
// most recently created first
func (r *boardRepositoryImpl) FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Joins("JOIN board_memberships ON board_memberships.board_id = boards.id").
		Where("board_memberships.user_id = ?", userID).
		Order("boards.created_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update persists changes to a board
func (r *boardRepositoryImpl) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete removes a board. Lists, tasks, memberships, invites and activity
// cascade at the database level.
func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Board{}, "id = ?", id).Error
}
