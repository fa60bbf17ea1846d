package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// MembershipRepository defines the interface for board membership data access
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.BoardMembership) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardMembership, error)
	FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMembership, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMembership, error)
	FindMemberUserIDs(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, membership *domain.BoardMembership) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// membershipRepositoryImpl is the GORM implementation of MembershipRepository
type membershipRepositoryImpl struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new instance of MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

// Create creates a new membership
func (r *membershipRepositoryImpl) Create(ctx context.Context, membership *domain.BoardMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// FindByID finds a membership by its ID
func (r *membershipRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.BoardMembership, error) {
	var membership domain.BoardMembership
	if err := r.db.WithContext(ctx).Preload("User").First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByBoardAndUser finds the membership binding a user to a board
func (r *membershipRepositoryImpl) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMembership, error) {
	var membership domain.BoardMembership
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByBoardID finds all memberships of a board with their users
func (r *membershipRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMembership, error) {
	var memberships []*domain.BoardMembership
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindMemberUserIDs returns the IDs of every user holding a membership on
// the board. Used to filter assignee submissions.
func (r *membershipRepositoryImpl) FindMemberUserIDs(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.BoardMembership{}).
		Where("board_id = ?", boardID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update persists changes to a membership
func (r *membershipRepositoryImpl) Update(ctx context.Context, membership *domain.BoardMembership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

// Delete removes a membership by its ID
func (r *membershipRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BoardMembership{}, "id = ?", id).Error
}
