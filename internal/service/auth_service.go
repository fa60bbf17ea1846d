package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/domain"
	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/token"
)

// AuthService defines the interface for account business logic
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Activate(ctx context.Context, req *dto.ActivateRequest) error
	ResendActivation(ctx context.Context, req *dto.ResendActivationRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, req *dto.PasswordResetConfirmRequest) error
}

// authServiceImpl is the implementation of AuthService
type authServiceImpl struct {
	userRepo       repository.UserRepository
	activation     *token.ActivationGenerator
	mail           mailer.Mailer
	jwtSecret      string
	sessionTimeout time.Duration
	siteURL        string
	logger         *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	activation *token.ActivationGenerator,
	mail mailer.Mailer,
	jwtSecret string,
	sessionTimeout time.Duration,
	siteURL string,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:       userRepo,
		activation:     activation,
		mail:           mail,
		jwtSecret:      jwtSecret,
		sessionTimeout: sessionTimeout,
		siteURL:        siteURL,
		logger:         logger,
	}
}

// Signup registers a new inactive account and emails the activation link.
// The account is created even when the email cannot be delivered; the
// response tells the caller to use the resend flow in that case.
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Username is already taken", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check username", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create account", err.Error())
	}

	if _, err := s.userRepo.GetOrCreateProfile(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to create profile for new account",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	emailSent := true
	message := "Account created. Check your email for the activation link."
	if err := s.sendActivationEmail(user); err != nil {
		emailSent = false
		message = "Account created, but the activation email could not be sent. Use the resend option."
		s.logger.Warn("Failed to send activation email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	return &dto.SignupResponse{
		User:      toUserResponse(user),
		EmailSent: emailSent,
		Message:   message,
	}, nil
}

// Activate confirms an account with the emailed token. Expired tokens get
// a distinct message so the client can offer the resend flow.
func (s *authServiceImpl) Activate(ctx context.Context, req *dto.ActivateRequest) error {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeValidation, "Invalid activation link", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	switch s.activation.State(user, req.Token) {
	case token.StateValid:
	case token.StateExpired:
		return response.NewAppError(response.ErrCodeValidation, "Activation link has expired, request a new one", "")
	default:
		return response.NewAppError(response.ErrCodeValidation, "Invalid activation link", "")
	}

	user.IsActive = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to activate account", err.Error())
	}
	return nil
}

// ResendActivation re-issues the activation email for an inactive account.
// The outcome is indistinguishable for unknown addresses.
func (s *authServiceImpl) ResendActivation(ctx context.Context, req *dto.ResendActivationRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}
	if user.IsActive {
		return nil
	}

	if err := s.sendActivationEmail(user); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to send activation email", err.Error())
	}
	return nil
}

// Login authenticates by username and password and issues a session JWT
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	invalidCredentials := response.NewAppError(response.ErrCodeUnauthorized, "Invalid username or password", "")

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidCredentials
	}

	if !user.IsActive {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Account is not activated", "")
	}

	expiresAt := time.Now().Add(s.sessionTimeout)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to sign session token", err.Error())
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

// RequestPasswordReset emails a reset link. Unknown addresses succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	tok := s.activation.Make(user)
	link := fmt.Sprintf("%s/password-reset/%s/%s", s.siteURL, user.ID, tok)
	body := fmt.Sprintf("Hola %s,\n\nPara restablecer tu contraseña visita:\n\n%s\n\nSi no solicitaste este cambio, ignora este mensaje.\n", user.Username, link)
	if err := s.mail.Send(user.Email, "Restablece tu contraseña", body); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to send reset email", err.Error())
	}
	return nil
}

// ConfirmPasswordReset sets a new password. The token binds the current
// password hash, so it is single-use: changing the password invalidates it.
func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, req *dto.PasswordResetConfirmRequest) error {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeValidation, "Invalid reset link", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load account", err.Error())
	}

	switch s.activation.State(user, req.Token) {
	case token.StateValid:
	case token.StateExpired:
		return response.NewAppError(response.ErrCodeValidation, "Reset link has expired, request a new one", "")
	default:
		return response.NewAppError(response.ErrCodeValidation, "Invalid reset link", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to update password", err.Error())
	}
	return nil
}

func (s *authServiceImpl) sendActivationEmail(user *domain.User) error {
	tok := s.activation.Make(user)
	link := fmt.Sprintf("%s/activate/%s/%s", s.siteURL, user.ID, tok)
	body := fmt.Sprintf("Hola %s,\n\nActiva tu cuenta visitando el siguiente enlace:\n\n%s\n\nEl enlace caduca pronto.\n", user.Username, link)
	return s.mail.Send(user.Email, "Activa tu cuenta", body)
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
