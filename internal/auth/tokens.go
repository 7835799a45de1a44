package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
)

const (
	tokenIssuer   = "hagiga-server"
	tokenAudience = "hagiga-client"

	// HS256 secrets shorter than this are brute-forceable.
	minSecretLength = 32
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService handles JWT generation and verification.
type TokenService struct {
	secret        []byte
	tokenDuration time.Duration
}

// NewTokenService creates a token service signing with the given HS256
// secret.
func NewTokenService(secret string, tokenDuration time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters, got %d", minSecretLength, len(secret))
	}
	if tokenDuration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", tokenDuration)
	}

	return &TokenService{
		secret:        []byte(secret),
		tokenDuration: tokenDuration,
	}, nil
}

// GenerateToken creates a signed access token for the user.
func (s *TokenService) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()

	tokenID, err := id.Generate("token")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}

	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken verifies and parses an access token. Returns the claims
// if valid, or a domain error suitable for a 401 response.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.TokenExpired("token expired")
		}
		return nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	return claims, nil
}

// TokenDuration returns the configured access token lifetime.
func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}
