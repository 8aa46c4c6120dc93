package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

// LoginRateLimiter throttles login attempts per username. A nil limiter
// disables throttling, which the tests rely on.
type LoginRateLimiter interface {
	CheckLogin(ctx context.Context, username string) error
	ResetLogin(ctx context.Context, username string) error
}

// AuthService verifies credentials and manages the system's user accounts.
type AuthService struct {
	repo      repository.Repository
	limiter   LoginRateLimiter
	validator *validator.Validator
	logger    *slog.Logger
}

func NewAuthService(repo repository.Repository, limiter LoginRateLimiter, validator *validator.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		limiter:   limiter,
		validator: validator,
		logger:    logger.With("component", "auth"),
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin hr supervisor accounting audit"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin hr supervisor accounting audit"`
}

// Login checks the password against the stored bcrypt hash. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.User{}, model.ValidationError{Message: err.Error()}
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	if s.limiter != nil {
		if err := s.limiter.CheckLogin(ctx, username); err != nil {
			if errors.Is(err, ErrTooManyAttempts) {
				return model.User{}, err
			}
			// The limiter is advisory. A redis outage must not lock
			// every account out.
			s.logger.Warn("login rate limiter unavailable", "username", username, "error", err)
		}
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed", "username", username)
		return model.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed", "username", username)
		return model.User{}, ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.ResetLogin(ctx, username); err != nil {
			s.logger.Warn("resetting login attempts failed", "username", username, "error", err)
		}
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.User{}, model.ValidationError{Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         model.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.User{}, model.ValidationError{Message: err.Error()}
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account. The last admin cannot be removed, so the
// system is never locked out of user management.
func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		users, err := s.repo.ListUsers(ctx)
		if err != nil {
			return err
		}
		admins := 0
		for _, u := range users {
			if u.IsAdmin() {
				admins++
			}
		}
		if admins <= 1 {
			return model.PreconditionError{Reason: "cannot delete the last admin"}
		}
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}
