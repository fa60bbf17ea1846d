package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/token"
)

// InviteService defines the interface for the board invitation flow
type InviteService interface {
	SendInvite(ctx context.Context, boardID uuid.UUID, req *dto.SendInviteRequest) (*dto.InviteResponse, error)
	ListInvites(ctx context.Context, boardID uuid.UUID) ([]dto.InviteResponse, error)
	RevokeInvite(ctx context.Context, boardID, inviteID uuid.UUID) error
	AcceptInvite(ctx context.Context, tokenStr string) (*dto.AcceptInviteResponse, error)
}

// inviteServiceImpl is the implementation of InviteService
type inviteServiceImpl struct {
	inviteRepo     repository.InviteRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	activityRepo   repository.ActivityRepository
	memberSvc      MemberService
	codec          *token.InviteCodec
	mail           mailer.Mailer
	metrics        *metrics.Metrics
	siteURL        string
	logger         *zap.Logger
}

// NewInviteService creates a new instance of InviteService
func NewInviteService(
	inviteRepo repository.InviteRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	memberSvc MemberService,
	codec *token.InviteCodec,
	mail mailer.Mailer,
	m *metrics.Metrics,
	siteURL string,
	logger *zap.Logger,
) InviteService {
	return &inviteServiceImpl{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		activityRepo:   activityRepo,
		memberSvc:      memberSvc,
		codec:          codec,
		mail:           mail,
		metrics:        m,
		siteURL:        siteURL,
		logger:         logger,
	}
}

// SendInvite creates or refreshes an invitation and emails the signed
// acceptance link. The invitee must be a registered account whose username
// and email both match, case-insensitively. Re-inviting the same
// (username, email) pair on a board
// reuses the existing row and clears any previous acceptance, so the new
// link works even if an older one was already used.
func (s *inviteServiceImpl) SendInvite(ctx context.Context, boardID uuid.UUID, req *dto.SendInviteRequest) (*dto.InviteResponse, error) {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok || role == domain.RoleOwner {
		return nil, response.NewAppError(response.ErrCodeValidation, "Role must be editor or viewer", "")
	}

	// Only registered identities can be invited
	if _, err := s.userRepo.FindByUsernameAndEmail(ctx, req.Username, req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "No registered user matches that username and email", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up user", err.Error())
	}

	invite, err := s.inviteRepo.FindByBoardUsernameEmail(ctx, boardID, req.Username, req.Email)
	switch {
	case err == nil:
		invite.Role = role
		invite.InvitedByID = actor.UserID
		invite.AcceptedAt = nil
		if err := s.inviteRepo.Update(ctx, invite); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to refresh invitation", err.Error())
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		invite = &domain.BoardInvite{
			BoardID:     boardID,
			Username:    req.Username,
			Email:       req.Email,
			Role:        role,
			InvitedByID: actor.UserID,
		}
		if err := s.inviteRepo.Create(ctx, invite); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create invitation", err.Error())
		}
	default:
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up invitation", err.Error())
	}

	signed, err := s.codec.Sign(invite.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to sign invitation token", err.Error())
	}

	link := fmt.Sprintf("%s/invites/accept/%s", s.siteURL, signed)
	body := fmt.Sprintf("Hola %s,\n\nHas sido invitado a un tablero como %s. Acepta la invitación aquí:\n\n%s\n", req.Username, role, link)
	if err := s.mail.Send(req.Email, "Invitación a un tablero", body); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to send invitation email", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionInviteSent,
		fmt.Sprintf("%s (%s)", req.Username, role))
	s.metrics.IncrementInviteSent()

	resp := toInviteResponse(invite)
	return &resp, nil
}

// ListInvites returns the board's invitations, pending and accepted
func (s *inviteServiceImpl) ListInvites(ctx context.Context, boardID uuid.UUID) ([]dto.InviteResponse, error) {
	if _, err := s.memberSvc.Authorize(ctx, boardID, domain.RoleOwner); err != nil {
		return nil, err
	}

	invites, err := s.inviteRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list invitations", err.Error())
	}

	out := make([]dto.InviteResponse, 0, len(invites))
	for _, invite := range invites {
		out = append(out, toInviteResponse(invite))
	}
	return out, nil
}

// RevokeInvite deletes a pending invitation, invalidating its link
func (s *inviteServiceImpl) RevokeInvite(ctx context.Context, boardID, inviteID uuid.UUID) error {
	actor, err := s.memberSvc.Authorize(ctx, boardID, domain.RoleOwner)
	if err != nil {
		return err
	}

	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Invitation not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load invitation", err.Error())
	}
	if invite.BoardID != boardID {
		return response.NewAppError(response.ErrCodeNotFound, "Invitation not found", "")
	}

	if err := s.inviteRepo.Delete(ctx, invite.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to revoke invitation", err.Error())
	}

	s.recordActivity(ctx, boardID, actor.UserID, domain.ActionInviteRevoked, invite.Email)
	return nil
}

// AcceptInvite redeems a signed invitation token for the authenticated
// user. The caller's email must match the invite case-insensitively, and
// the username too when the invite carries one. A spent invite reports
// AlreadyAccepted and grants nothing.
func (s *inviteServiceImpl) AcceptInvite(ctx context.Context, tokenStr string) (*dto.AcceptInviteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	inviteID, err := s.codec.Parse(tokenStr)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid or expired invitation link", "")
	}

	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Invitation no longer exists", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load invitation", err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	usernameMismatch := invite.Username != "" && !strings.EqualFold(user.Username, invite.Username)
	if usernameMismatch || !strings.EqualFold(user.Email, invite.Email) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "This invitation was issued to a different account", "")
	}

	// An accepted invite is spent. Reporting AlreadyAccepted without
	// touching the membership keeps the link from restoring access to
	// someone the owner has since removed.
	if invite.Accepted() {
		return &dto.AcceptInviteResponse{
			BoardID:         invite.BoardID,
			BoardTitle:      invite.Board.Title,
			Role:            string(invite.Role),
			AlreadyAccepted: true,
		}, nil
	}

	if _, err := s.membershipRepo.FindByBoardAndUser(ctx, invite.BoardID, userID); err == nil {
		// Already a member through some other path; just stamp the invite
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		membership := &domain.BoardMembership{
			BoardID: invite.BoardID,
			UserID:  userID,
			Role:    invite.Role,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create membership", err.Error())
		}
	} else {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}

	now := time.Now()
	invite.AcceptedAt = &now
	if err := s.inviteRepo.Update(ctx, invite); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to stamp invitation", err.Error())
	}

	s.recordActivity(ctx, invite.BoardID, userID, domain.ActionInviteAccept, user.Username)
	s.metrics.IncrementInviteAccepted()

	return &dto.AcceptInviteResponse{
		BoardID:    invite.BoardID,
		BoardTitle: invite.Board.Title,
		Role:       string(invite.Role),
	}, nil
}

func (s *inviteServiceImpl) recordActivity(ctx context.Context, boardID, userID uuid.UUID, action, details string) {
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

func toInviteResponse(i *domain.BoardInvite) dto.InviteResponse {
	resp := dto.InviteResponse{
		ID:         i.ID,
		BoardID:    i.BoardID,
		Username:   i.Username,
		Email:      i.Email,
		Role:       string(i.Role),
		AcceptedAt: i.AcceptedAt,
		CreatedAt:  i.CreatedAt,
	}
	if i.InvitedBy.Username != "" {
		resp.InvitedBy = i.InvitedBy.Username
	}
	return resp
}
