// README: JWT issuing and validation. The token carries identity only; roles
// are resolved from the profiles table on every protected request.
package auth

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"vdeliveries/internal/types"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptyToken   = errors.New("bearer token missing")
)

// Claims is the canonical token payload.
type Claims struct {
	jwtlib.RegisteredClaims
}

var _ jwtlib.Claims = (*Claims)(nil)

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	s := strings.TrimSpace(secret)
	if s == "" {
		panic("auth: empty jwt secret")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(s), ttl: ttl}
}

// Sign issues an HS256 token for the given profile id.
func (m *Manager) Sign(userID types.ID) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   string(userID),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates signature, algorithm, and expiry, returning the claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyToken
	}

	var claims Claims
	token, err := jwtlib.ParseWithClaims(raw, &claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
