package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingToken is returned when a request carries no token at all.
var ErrMissingToken = errors.New("missing token")

// Claims are the claims issued by the account service for interviewers and companies.
type Claims struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the participant identity carried by the token.
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTConfig holds the settings tokens are verified against. Tokens are minted by the account service.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Enabled reports whether tokens can be verified at all.
func (cfg *JWTConfig) Enabled() bool {
	return cfg != nil && len(cfg.Secret) > 0
}

// ValidateToken parses and validates a JWT token.
func ValidateToken(cfg *JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	// Validate issuer and audience if configured
	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("invalid issuer")
	}
	if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
		return nil, fmt.Errorf("invalid audience")
	}
	if claims.Identity() == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the token query parameter browsers use for WebSocket upgrades.
func TokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", fmt.Errorf("invalid authorization header format")
		}
		return parts[1], nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingToken
}
