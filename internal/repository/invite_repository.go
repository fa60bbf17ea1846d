package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// InviteRepository defines the interface for board invite data access
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.BoardInvite) error
	Update(ctx context.Context, invite *domain.BoardInvite) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardInvite, error)
	FindByBoardUsernameEmail(ctx context.Context, boardID uuid.UUID, username, email string) (*domain.BoardInvite, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardInvite, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// inviteRepositoryImpl is the GORM implementation of InviteRepository
type inviteRepositoryImpl struct {
	db *gorm.DB
}

// NewInviteRepository creates a new instance of InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepositoryImpl{db: db}
}

// Create creates a new invite
func (r *inviteRepositoryImpl) Create(ctx context.Context, invite *domain.BoardInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// Update persists changes to an invite
func (r *inviteRepositoryImpl) Update(ctx context.Context, invite *domain.BoardInvite) error {
	return r.db.WithContext(ctx).Save(invite).Error
}

// FindByID finds an invite by its ID with the board preloaded
func (r *inviteRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardInvite, error) {
	var invite domain.BoardInvite
	if err := r.db.WithContext(ctx).Preload("Board").First(&invite, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindByBoardUsernameEmail finds the invite matching the unique
// (board, username, email) key, case-insensitively on username and email
func (r *inviteRepositoryImpl) FindByBoardUsernameEmail(ctx context.Context, boardID uuid.UUID, username, email string) (*domain.BoardInvite, error) {
	var invite domain.BoardInvite
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND LOWER(username) = LOWER(?) AND LOWER(email) = LOWER(?)", boardID, username, email).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindByBoardID finds all invites of a board, newest first
func (r *inviteRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardInvite, error) {
	var invites []*domain.BoardInvite
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// Delete removes an invite by its ID
func (r *inviteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BoardInvite{}, "id = ?", id).Error
}
