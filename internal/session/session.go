package session

import (
	"errors"
	"fmt"
	"time"

	"anoa.com/socialblog/internal/entity"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the principal fields the rest of the service reads from a session.
type Claims struct {
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) Issue(p entity.Principal) (string, time.Time, error) {
	if p.ID == "" {
		return "", time.Time{}, fmt.Errorf("principal id is required")
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		Name:      p.FullName,
		GivenName: p.FirstName,
		Picture:   deref(p.AvatarURL),
		Email:     deref(p.PrimaryEmail),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, expiresAt, nil
}

func (m *Manager) Parse(tokenString string) (entity.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return entity.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return entity.Principal{}, ErrInvalidToken
	}

	return entity.Principal{
		ID:           claims.Subject,
		FullName:     claims.Name,
		FirstName:    claims.GivenName,
		AvatarURL:    ref(claims.Picture),
		PrimaryEmail: ref(claims.Email),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
