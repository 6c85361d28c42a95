package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// TokenClaims is what an authenticated request carries: who the caller is
// and whether they hold the admin role.
type TokenClaims struct {
	UserID uuid.UUID
	Name   string
	Role   domain.Role
}

// AuthService implements PIN login and token verification. Tokens are HS256
// JWTs carrying the user id, display name, and role.
type AuthService struct {
	users  repo.UserRepo
	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService signing tokens with secret and
// expiring them after ttl.
func NewAuthService(users repo.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// Login checks the username/PIN pair and returns a signed token plus the
// authenticated user. A wrong PIN and an unknown username both return
// domain.ErrUnauthorized — the caller cannot tell which was wrong.
func (s *AuthService) Login(ctx context.Context, username, pin string) (string, domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.Name,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: sign: %w", err)
	}
	return token, user, nil
}

// Verify parses and validates a token string and returns its claims.
// Returns domain.ErrUnauthorized for anything malformed, forged, or expired.
func (s *AuthService) Verify(tokenStr string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return TokenClaims{UserID: userID, Name: name, Role: domain.Role(role)}, nil
}
