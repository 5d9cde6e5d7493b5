package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminTokenType = "admin_console"

// TokenGenerator handles admin console token generation and validation
type TokenGenerator struct {
	secret           string
	adminTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, adminExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:           secret,
		adminTokenExpiry: adminExpiry,
	}
}

// GenerateAdminToken creates a signed token granting access to the admin console
func (tg *TokenGenerator) GenerateAdminToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"exp":  now.Add(tg.adminTokenExpiry).Unix(),
		"iat":  now.Unix(),
		"type": adminTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	return tokenString, nil
}

// ValidateAdminToken checks the signature, expiry and type of an admin console token
func (tg *TokenGenerator) ValidateAdminToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != adminTokenType {
		return fmt.Errorf("token is not an admin console token")
	}

	return nil
}
