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
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
)

// MemberService defines the interface for board membership business logic.
// Authorize is the single authorization gate: every board-scoped operation
// resolves the caller's membership through it.
type MemberService interface {
	Authorize(ctx context.Context, boardID uuid.UUID, required ...domain.Role) (*domain.BoardMembership, error)
	ListMembers(ctx context.Context, boardID uuid.UUID) ([]dto.MemberResponse, error)
	AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateRole(ctx context.Context, boardID, membershipID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, boardID, membershipID uuid.UUID) error
}

// memberServiceImpl is the implementation of MemberService
type memberServiceImpl struct {
	membershipRepo repository.MembershipRepository
	boardRepo      repository.BoardRepository
	userRepo       repository.UserRepository
	activityRepo   repository.ActivityRepository
	logger         *zap.Logger
}

// NewMemberService creates a new instance of MemberService
func NewMemberService(
	membershipRepo repository.MembershipRepository,
	boardRepo repository.BoardRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	logger *zap.Logger,
) MemberService {
	return &memberServiceImpl{
		membershipRepo: membershipRepo,
		boardRepo:      boardRepo,
		userRepo:       userRepo,
		activityRepo:   activityRepo,
		logger:         logger,
	}
}

// userIDFromContext extracts the authenticated user set by the auth middleware
func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, response.NewAppError(response.ErrCodeUnauthorized, "User ID not found in context", "")
	}
	return userID, nil
}

// Authorize resolves the caller's membership on the board and checks it
// against the required role set. A user with no membership row gets
// NOT_FOUND rather than FORBIDDEN so board IDs are not probeable.
func (s *memberServiceImpl) Authorize(ctx context.Context, boardID uuid.UUID, required ...domain.Role) (*domain.BoardMembership, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check board access", err.Error())
	}

	if !membership.Role.In(required...) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Insufficient role for this operation", "")
	}

	return membership, nil
}

// ListMembers returns the board's members, oldest membership first
func (s *memberServiceImpl) ListMembers(ctx context.Context, boardID uuid.UUID) ([]dto.MemberResponse, error) {
	if _, err := s.Authorize(ctx, boardID, domain.MemberRoles()...); err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list members", err.Error())
	}

	out := make([]dto.MemberResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, toMemberResponse(m))
	}
	return out, nil
}

// AddMember attaches an existing active user to the board. Only the owner
// manages membership, and nobody can be granted the owner role this way.
func (s *memberServiceImpl) AddMember(ctx context.Context, boardID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	actor, err := s.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeValidation, "Role must be editor or viewer", "")
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "User not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up user", err.Error())
	}

	if _, err := s.membershipRepo.FindByBoardAndUser(ctx, boardID, user.ID); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a board member", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing membership", err.Error())
	}

	membership := &domain.BoardMembership{
		BoardID: boardID,
		UserID:  user.ID,
		Role:    role,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}
	membership.User = *user

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionMemberAdded,
		fmt.Sprintf("%s (%s)", user.Username, role))

	resp := toMemberResponse(membership)
	return &resp, nil
}

// UpdateRole changes a member's role. The owner's own membership is
// immutable: the owner role can neither be granted nor taken away.
func (s *memberServiceImpl) UpdateRole(ctx context.Context, boardID, membershipID uuid.UUID, req *dto.UpdateMemberRoleRequest) (*dto.MemberResponse, error) {
	actor, err := s.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeValidation, "Role must be editor or viewer", "")
	}

	membership, err := s.findBoardMembership(ctx, boardID, membershipID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.boardOwnerID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if membership.UserID == ownerID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "The board owner's role cannot be changed", "")
	}

	membership.Role = role
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update role", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionRoleUpdated,
		fmt.Sprintf("%s: %s", membership.User.Username, role))

	resp := toMemberResponse(membership)
	return &resp, nil
}

// RemoveMember detaches a member from the board. The owner's membership
// can never be removed; deleting the board is the only way out.
func (s *memberServiceImpl) RemoveMember(ctx context.Context, boardID, membershipID uuid.UUID) error {
	actor, err := s.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return err
	}

	membership, err := s.findBoardMembership(ctx, boardID, membershipID)
	if err != nil {
		return err
	}

	ownerID, err := s.boardOwnerID(ctx, boardID)
	if err != nil {
		return err
	}
	if membership.UserID == ownerID {
		return response.NewAppError(response.ErrCodeForbidden, "The board owner cannot be removed", "")
	}

	if err := s.membershipRepo.Delete(ctx, membership.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove member", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionMemberRemoved, membership.User.Username)

	return nil
}

// boardOwnerID returns the board's designated owner. Owner protection
// keys on this, not on the membership's role column.
func (s *memberServiceImpl) boardOwnerID(ctx context.Context, boardID uuid.UUID) (uuid.UUID, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return uuid.Nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}
	return board.OwnerID, nil
}

// findBoardMembership loads a membership and verifies it belongs to the board
func (s *memberServiceImpl) findBoardMembership(ctx context.Context, boardID, membershipID uuid.UUID) (*domain.BoardMembership, error) {
	membership, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Membership not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load membership", err.Error())
	}
	if membership.BoardID != boardID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Membership not found", "")
	}
	return membership, nil
}

func (s *memberServiceImpl) recordActivity(ctx context.Context, boardID, userID uuid.UUID, action, details string) {
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

func toMemberResponse(m *domain.BoardMembership) dto.MemberResponse {
	return dto.MemberResponse{
		MembershipID: m.ID,
		UserID:       m.UserID,
		Username:     m.User.Username,
		Email:        m.User.Email,
		Role:         string(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}
