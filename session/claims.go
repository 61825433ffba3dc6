package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoAccessToken is returned by Claims when the session holds no
// access token.
var ErrNoAccessToken = errors.New("no access token held")

// Claims is the decoded payload of the access token. The platform issues
// SimpleJWT tokens; the client reads them without verifying the
// signature — verification is the server's job — so these values are for
// display only, never for authorization decisions.
type Claims struct {
	UserID    int64
	TokenType string
	ExpiresAt time.Time
}

type accessClaims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Claims decodes the held access token.
func (m *Manager) Claims() (*Claims, error) {
	token := m.loadAccess()
	if token == "" {
		return nil, ErrNoAccessToken
	}

	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}

	out := &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
