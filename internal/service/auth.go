package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Adamaq01/Tachi/internal/auth"
	"github.com/Adamaq01/Tachi/internal/domain"
	domainerrors "github.com/Adamaq01/Tachi/internal/errors"
	"github.com/Adamaq01/Tachi/internal/id"
	"github.com/Adamaq01/Tachi/internal/store"
)

// AuthService handles registration, API-key login and token
// verification. The plaintext API key is returned exactly once, at
// registration; only its argon2id hash is stored.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new user and returns it together with the
// freshly generated plaintext API key.
func (s *AuthService) Register(ctx context.Context, username string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", domainerrors.Validation("username is required")
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "generate api key")
	}

	hash, err := auth.HashAPIKey(apiKey)
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "hash api key")
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "generate user id")
	}

	now := time.Now()
	user := &domain.User{
		ID:         userID,
		Username:   username,
		APIKeyHash: hash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrUserExists) {
			return nil, "", domainerrors.Conflict("username is already taken")
		}
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "create user")
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return user, apiKey, nil
}

// Login verifies a username + API key pair and mints an access token.
func (s *AuthService) Login(ctx context.Context, username, apiKey string) (string, *domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return "", nil, domainerrors.InvalidCredentials("invalid username or api key")
		}
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up user")
	}

	ok, err := auth.VerifyAPIKey(user.APIKeyHash, apiKey)
	if err != nil {
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "verify api key")
	}
	if !ok {
		return "", nil, domainerrors.InvalidCredentials("invalid username or api key")
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "mint access token")
	}

	return token, user, nil
}

// VerifyAccessToken validates a bearer token and loads its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.Claims, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("token user no longer exists")
	}

	return user, claims, nil
}

// TokenDuration exposes the configured access-token lifetime.
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokens.TokenDuration()
}
