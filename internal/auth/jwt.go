package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims of an admin API token.
type Claims struct {
	Subject string `json:"sub_name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Service mints and validates admin tokens with an HS256 secret.
type Service struct {
	secret []byte
}

// NewService creates a token service. With an empty secret the admin
// API is disabled and every validation fails.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// GenerateAdminToken mints a 24h admin token for the named operator.
func (s *Service) GenerateAdminToken(subject string) (string, error) {
	claims := &Claims{
		Subject: subject,
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, jwt.ErrInvalidKey
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
