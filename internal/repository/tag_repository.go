package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
)

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	FindAll(ctx context.Context) ([]*domain.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Tag, error)
}

// tagRepositoryImpl is the GORM implementation of TagRepository
type tagRepositoryImpl struct {
	db *gorm.DB
}

// NewTagRepository creates a new instance of TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepositoryImpl{db: db}
}

// Create creates a new tag
func (r *tagRepositoryImpl) Create(ctx context.Context, tag *domain.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// FindAll returns the full tag catalog
func (r *tagRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindByIDs finds tags by their IDs. Unknown IDs are simply absent from the
// result; callers treat that as a silent drop, not an error.
func (r *tagRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	var tags []*domain.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
