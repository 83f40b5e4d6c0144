package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AuthHeader is the header name for JWT authentication
	AuthHeader = "Authorization"
	// TokenQueryParam carries the token where headers cannot be set (websocket upgrade)
	TokenQueryParam = "token"
	// TokenExpiry is the JWT token expiry duration
	TokenExpiry = 7 * 24 * time.Hour // 7 days
)

// AuthMiddleware provides JWT authentication for the settings API
type AuthMiddleware struct {
	password string
	now      func() time.Time
}

// NewAuthMiddleware creates a new auth middleware; an empty password disables it
func NewAuthMiddleware(password string) *AuthMiddleware {
	return &AuthMiddleware{
		password: password,
		now:      time.Now,
	}
}

// IsEnabled returns true if authentication is enabled
func (m *AuthMiddleware) IsEnabled() bool {
	return m.password != ""
}

// GenerateToken generates a JWT token
func (m *AuthMiddleware) GenerateToken() (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "dontcaught-settings",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.password))
}

// ValidateToken validates a JWT token
func (m *AuthMiddleware) ValidateToken(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.password), nil
	}, jwt.WithIssuer("dontcaught-settings"))

	return err == nil && token.Valid
}

// Wrap wraps a handler with JWT authentication. The token is read from the
// Bearer header, falling back to the token query parameter.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsEnabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := requestToken(r)
		if token == "" || !m.ValidateToken(token) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestToken(r *http.Request) string {
	if authHeader := r.Header.Get(AuthHeader); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ""
		}
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return r.URL.Query().Get(TokenQueryParam)
}

// VerifyPassword checks if the provided password is correct
func (m *AuthMiddleware) VerifyPassword(password string) bool {
	if !m.IsEnabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(m.password), []byte(password)) == 1
}
