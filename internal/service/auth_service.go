package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrdesk/internal/config"
	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

// Claims represents the JWT claims with employee context.
// EmployeeID is uuid.Nil for staff accounts without an employee record.
type Claims struct {
	jwt.RegisteredClaims
	UserID     uuid.UUID       `json:"user_id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Email      string          `json:"email"`
	Role       domain.UserRole `json:"role"`
}

// Session converts the claims into the request session.
func (c *Claims) Session() domain.Session {
	return domain.Session{
		IsAuthenticated: true,
		UserID:          c.UserID,
		EmployeeID:      c.EmployeeID,
		Email:           c.Email,
		Role:            c.Role,
	}
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshInput is the DTO for token refresh and logout requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo     port.UserRepository
	employeeRepo port.EmployeeRepository
	cfg          config.JWTConfig

	mu      sync.Mutex
	revoked map[string]time.Time // refresh jti -> token expiry
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	employeeRepo port.EmployeeRepository,
	cfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		cfg:          cfg,
		revoked:      make(map[string]time.Time),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	employeeID, err := s.employeeIDFor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	return s.generateTokenPair(user, employeeID)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if s.isRevoked(claims.ID) {
		return nil, domain.ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	employeeID, err := s.employeeIDFor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}

	pair, err := s.generateTokenPair(user, employeeID)
	if err != nil {
		return nil, err
	}
	// Refresh tokens are single use.
	s.revoke(claims)
	return pair, nil
}

func (s *authService) Logout(_ context.Context, refreshToken string) error {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return domain.ErrUnauthorized
	}
	s.revoke(claims)
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

func (s *authService) employeeIDFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEmployeeNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return emp.ID, nil
}

func (s *authService) revoke(claims *Claims) {
	expiry := time.Now().Add(s.cfg.RefreshTokenExpiry)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[claims.ID] = expiry
}

func (s *authService) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

func (s *authService) generateTokenPair(user *domain.User, employeeID uuid.UUID) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiry)

	accessTokenString, err := s.sign(user, employeeID, "access", now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refreshTokenString, err := s.sign(user, employeeID, "refresh", now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) sign(user *domain.User, employeeID uuid.UUID, audience string, now, expiry time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		UserID:     user.ID,
		EmployeeID: employeeID,
		Email:      user.Email,
		Role:       user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	if !slices.Contains(aud, audience) {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
