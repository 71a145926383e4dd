package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Repository interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	// LoadPrincipal returns the principal and the account status of userID.
	LoadPrincipal(ctx context.Context, userID int64) (identity.Principal, string, error)
}

// Registrar creates accounts; implemented by the user service.
type Registrar interface {
	Register(ctx context.Context, dto user.RegisterDTO) (*user.User, error)
	GetByID(ctx context.Context, userID int64) (*user.User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           Repository
	registrar      Registrar
	tokenGenerator TokenGenerator
	revoker        TokenRevoker
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo Repository, registrar Registrar, tokenGen TokenGenerator, revoker TokenRevoker, logger *slog.Logger) *Service {
	if revoker == nil {
		revoker = NopRevoker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		registrar:      registrar,
		tokenGenerator: tokenGen,
		revoker:        revoker,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentials(ctx, user.NormalizeEmail(dto.Email))
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := user.VerifyPassword(creds.PasswordHash, dto.Password); err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if creds.Status != user.StatusActive {
		return nil, internal.ErrUserInactive
	}

	return s.issue(ctx, Subject{UserID: creds.UserID, Email: creds.Email, Role: creds.Role})
}

// Register creates the account with its empty profile and logs it in.
func (s *Service) Register(ctx context.Context, dto user.RegisterDTO) (*AuthResponse, error) {
	u, err := s.registrar.Register(ctx, dto)
	if err != nil {
		return nil, err
	}

	tokens, err := s.generatePair(Subject{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AuthTokens: tokens, User: u}, nil
}

// RefreshTokens validates refresh token and returns new tokens. The presented
// refresh token is revoked so it cannot be replayed.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return AuthTokens{}, err
	}

	p, status, err := s.repo.LoadPrincipal(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken.WithCause(err)
	}
	if status != user.StatusActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	tokens, err := s.generatePair(Subject{UserID: p.UserID, Email: p.Email, Role: p.Role})
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining()); err != nil {
		s.logger.Warn("failed to revoke rotated refresh token", "user_id", claims.UserID, "error", err)
	}
	return tokens, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ResolvePrincipal loads the current role data for a validated token.
func (s *Service) ResolvePrincipal(ctx context.Context, claims *Claims) (identity.Principal, error) {
	p, status, err := s.repo.LoadPrincipal(ctx, claims.UserID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return identity.Principal{}, internal.ErrInvalidToken.WithCause(err)
		}
		return identity.Principal{}, err
	}
	if status != user.StatusActive {
		return identity.Principal{}, internal.ErrUserInactive
	}
	return p, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *Service) Logout(ctx context.Context, accessToken string, dto LogoutDTO) error {
	claims, err := s.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining()); err != nil {
		return internal.NewExternalError("failed to revoke token", internal.ErrCodeTokenRevoked, err)
	}

	if dto.RefreshToken != "" {
		refresh, err := s.tokenGenerator.ValidateRefreshToken(dto.RefreshToken)
		if err != nil {
			s.logger.Warn("logout with invalid refresh token", "user_id", claims.UserID, "error", err)
			return nil
		}
		if refresh.UserID != claims.UserID {
			return internal.ErrInvalidToken
		}
		if err := s.revoker.Revoke(ctx, refresh.ID, refresh.Remaining()); err != nil {
			return internal.NewExternalError("failed to revoke token", internal.ErrCodeTokenRevoked, err)
		}
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

func (s *Service) issue(ctx context.Context, sub Subject) (*AuthResponse, error) {
	tokens, err := s.generatePair(sub)
	if err != nil {
		return nil, err
	}
	u, err := s.registrar.GetByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AuthTokens: tokens, User: u}, nil
}

func (s *Service) generatePair(sub Subject) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(sub)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(sub)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return internal.NewExternalError("token store unavailable", internal.ErrCodeTokenRevoked, err)
	}
	if revoked {
		return internal.ErrTokenRevoked
	}
	return nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(sub Subject) (string, error) {
	return j.sign(sub, TokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(sub Subject) (string, error) {
	return j.sign(sub, TokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(sub Subject, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    sub.UserID,
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", sub.UserID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID == 0 {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
