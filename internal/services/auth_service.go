package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	tokenIssuer = "rentalhub"
)

// AuthService owns registration, credential checks and the access/refresh
// token lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, *models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error)
	IssueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	RotateAccessToken(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
	Revoke(ctx context.Context, userID uuid.UUID) error

	// ValidateAccessToken parses and verifies an access token.
	ValidateAccessToken(token string) (*TokenClaims, error)
	// ResolveUser loads the active user named by verified access claims.
	ResolveUser(ctx context.Context, claims *TokenClaims) (*models.User, error)
}

// AuthConfig holds the independent secrets and lifetimes of both token kinds.
type AuthConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID    string      `json:"id"`
	Role      models.Role `json:"role,omitempty"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type authService struct {
	userRepo repositories.UserRepository
	cfg      AuthConfig
}

func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, *models.TokenPair, error) {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, nil, err
	}
	email := common.NormalizeEmail(input.Email)
	if err := common.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if input.Password == "" {
		return nil, nil, common.Validation("password is required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleTenant
	}
	if !role.Valid() {
		return nil, nil, common.Validation("role must be one of tenant, agent, admin")
	}
	if role == models.RoleAdmin {
		return nil, nil, common.Forbidden("admin accounts cannot be self-registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, common.Validation("please provide email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, nil, common.Unauthenticated("invalid credentials")
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.Unauthenticated("invalid credentials")
	}
	if !user.IsActive {
		return nil, nil, common.Unauthenticated("account is deactivated")
	}

	tokens, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// IssueTokens signs a fresh access/refresh pair and persists the refresh
// token hash, replacing any earlier session.
func (s *authService) IssueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	accessToken, err := s.sign(user, TokenTypeAccess, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.sign(user, TokenTypeRefresh, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	hash := hashToken(refreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTTL.Seconds()),
	}, nil
}

func (s *authService) RotateAccessToken(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	if refreshToken == "" {
		return nil, common.Unauthenticated("refresh token required")
	}

	claims, err := s.parse(refreshToken, TokenTypeRefresh, s.cfg.RefreshSecret)
	if err != nil {
		return nil, common.Unauthenticated("invalid refresh token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, common.Unauthenticated("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.Unauthenticated("invalid refresh token")
		}
		return nil, err
	}
	if user.RefreshTokenHash == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshTokenHash), []byte(hashToken(refreshToken))) != 1 {
		return nil, common.Unauthenticated("invalid refresh token")
	}
	if !user.IsActive {
		return nil, common.Unauthenticated("account is deactivated")
	}

	accessToken, err := s.sign(user, TokenTypeAccess, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	return &models.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// Revoke clears the stored refresh token. Access tokens already issued stay
// valid until they expire.
func (s *authService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	log.Printf("Refresh token revoked for user %s", userID)
	return nil
}

func (s *authService) ValidateAccessToken(token string) (*TokenClaims, error) {
	claims, err := s.parse(token, TokenTypeAccess, s.cfg.AccessSecret)
	if err != nil {
		return nil, common.Unauthenticated("not authorized to access this route")
	}
	return claims, nil
}

func (s *authService) ResolveUser(ctx context.Context, claims *TokenClaims) (*models.User, error) {
	if claims == nil || claims.TokenType != TokenTypeAccess {
		return nil, common.Unauthenticated("not authorized to access this route")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, common.Unauthenticated("not authorized to access this route")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.Unauthenticated("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.Unauthenticated("user account is deactivated")
	}
	return user, nil
}

func (s *authService) sign(user *models.User, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    user.ID.String(),
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

func (s *authService) parse(token, tokenType string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !parsed.Valid || claims.TokenType != tokenType {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// hashToken creates a SHA-256 hash of the token for secure storage
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
