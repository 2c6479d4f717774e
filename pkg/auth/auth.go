// Package auth handles shopper registration and login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/salesmate/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const profileCacheTTL = 30 * time.Minute

// Store persists user accounts. Lookups return ErrUserNotFound when no
// account matches.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByChatID(ctx context.Context, chatID int64) (*models.User, error)
	SetChatID(ctx context.Context, email string, chatID int64) error
}

// Cache is the profile cache contract, satisfied by the redis cache client.
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

func NewService(store Store, c Cache, logger *zap.Logger) *Service {
	return &Service{store: store, cache: c, logger: logger}
}

func (s *Service) Register(ctx context.Context, email, password, fullName, mobile string) (*models.User, error) {
	if _, err := s.store.ByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  string(hash),
		FullName:  fullName,
		Mobile:    mobile,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.cacheProfile(ctx, user)
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.cacheProfile(ctx, user)
	return user, nil
}

// LinkChat attaches a chat transport id (e.g. a Telegram chat) to the user
// so the bot can recognize returning shoppers.
func (s *Service) LinkChat(ctx context.Context, email string, chatID int64) error {
	if err := s.store.SetChatID(ctx, email, chatID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to link chat: %w", err)
	}

	// Invalidate the cached profile; it now carries a stale chat id.
	if err := s.cache.Del(ctx, profileKey(email)); err != nil {
		s.logger.Warn("Failed to invalidate user cache", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Profile returns the cached public profile, falling back to the store.
func (s *Service) Profile(ctx context.Context, email string) (*models.User, error) {
	var cached models.User
	if err := s.cache.GetJSON(ctx, profileKey(email), &cached); err == nil {
		return &cached, nil
	}

	user, err := s.store.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

// ProfileByChatID resolves a returning shopper from a linked chat id.
func (s *Service) ProfileByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	user, err := s.store.ByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

func (s *Service) cacheProfile(ctx context.Context, user *models.User) {
	// The json tags strip the password hash before it reaches redis.
	if err := s.cache.SetJSON(ctx, profileKey(user.Email), user, profileCacheTTL); err != nil {
		s.logger.Warn("Failed to cache user", zap.String("email", user.Email), zap.Error(err))
	}
}

func profileKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}
