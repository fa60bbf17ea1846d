package service

import (
	"context"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
)

// TagService defines the interface for the shared tag catalog
type TagService interface {
	ListTags(ctx context.Context) ([]dto.TagResponse, error)
	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error)
}

// tagServiceImpl is the implementation of TagService
type tagServiceImpl struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new instance of TagService
func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagServiceImpl{tagRepo: tagRepo}
}

// ListTags returns the whole catalog, name order
func (s *tagServiceImpl) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list tags", err.Error())
	}
	out := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	return out, nil
}

// CreateTag adds a tag to the shared catalog. Colors outside the palette
// are rejected; an empty color falls back to the default.
func (s *tagServiceImpl) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagResponse, error) {
	color := req.Color
	if color == "" {
		color = domain.DefaultTagColor
	}
	if !domain.IsPaletteColor(color) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Color is not in the tag palette", "")
	}

	tag := &domain.Tag{
		Name:  req.Name,
		Color: color,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create tag", err.Error())
	}

	resp := toTagResponse(tag)
	return &resp, nil
}
