package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/model"
	"github.com/contactly/contactly/internal/repository"
)

// UserService handles registration, sessions and profile changes.
type UserService struct {
	users    UserStore
	sessions SessionCache
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
// A nil sessions cache disables caching; pass an untyped nil, not a nil *cache.Cache.
func NewUserService(users UserStore, sessions SessionCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if sessions == nil {
		sessions = noopSessionCache{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// Register creates a new logged-out user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		PasswordHash: hash,
		Name:         input.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a fresh session token,
// replacing any token the user held before.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*model.Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.BurnVerify(input.Password)
			s.metrics.IncLogin(metrics.LoginFailed)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.SetUserToken(ctx, user.ID, &token.Digest); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	if user.TokenHash != nil {
		s.evict(ctx, *user.TokenHash)
	}
	user.TokenHash = &token.Digest

	s.metrics.IncLogin(metrics.LoginSucceeded)

	return &model.Session{User: user, Token: token.Plaintext}, nil
}

// Authenticate resolves a plaintext token to its current holder.
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if !auth.ValidateTokenFormat(token) {
		return nil, ErrUnauthorized
	}

	digest := auth.HashToken(token)

	cached, err := s.sessions.GetSession(ctx, digest)
	if err != nil {
		s.logger.Warn("session cache lookup failed", "error", err)
	}
	if cached != nil {
		s.metrics.IncSessionCacheHit()
		return cached, nil
	}
	s.metrics.IncSessionCacheMiss()

	user, err := s.users.GetUserByTokenHash(ctx, digest)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	if err := s.sessions.SetSession(ctx, digest, user); err != nil {
		s.logger.Warn("session cache fill failed", "user_id", user.ID, "error", err)
		return user, nil
	}

	// A logout or login that landed between the read and the fill evicted
	// nothing, so the entry just written may already be stale.
	if _, err := s.users.GetUserByTokenHash(ctx, digest); err != nil {
		s.evict(ctx, digest)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	return user, nil
}

// Logout clears the user's session token.
func (s *UserService) Logout(ctx context.Context, user *model.User) error {
	if err := s.users.SetUserToken(ctx, user.ID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("failed to clear token: %w", err)
	}

	if user.TokenHash != nil {
		s.evict(ctx, *user.TokenHash)
	}
	user.TokenHash = nil

	s.metrics.IncLogout()

	return nil
}

// UpdateProfile applies the supplied name and password changes.
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, input UpdateProfileInput) (*model.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.users.GetUserByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if input.Name != nil {
		stored.Name = *input.Name
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		stored.PasswordHash = hash
	}
	stored.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUserProfile(ctx, stored); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if stored.TokenHash != nil {
		s.evict(ctx, *stored.TokenHash)
	}

	return stored, nil
}

func (s *UserService) evict(ctx context.Context, tokenHash string) {
	if err := s.sessions.DeleteSession(ctx, tokenHash); err != nil {
		s.logger.Warn("session cache eviction failed", "error", err)
	}
}
