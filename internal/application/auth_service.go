package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"dawah-crm/internal/domain"
	"dawah-crm/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on a failed login or an invalid token.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailInUse is returned when registering an address that already exists.
var ErrEmailInUse = errors.New("email already in use")

// AuthService handles user registration, login and bearer-token validation.
// Tokens are opaque random keys persisted with an expiry; there is no signed
// claim format.
type AuthService struct {
	users    ports.UserStore
	tokens   ports.TokenStore
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users ports.UserStore, tokens ports.TokenStore, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register creates a new user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("checking existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("email", email).Msg("User registered")
	return user, token, nil
}

// Login verifies credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Expired tokens are
// deleted and rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	record, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	if record == nil {
		return nil, ErrInvalidCredentials
	}
	if record.Expired(time.Now().UTC()) {
		if err := s.tokens.Delete(ctx, token); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete expired token")
		}
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// issueToken generates a 32-byte random token and persists it with an expiry.
func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	record := &domain.APIToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	return token, nil
}
