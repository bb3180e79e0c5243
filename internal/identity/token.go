package identity

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dmarifin/dompet/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims we care about: the registered subject
// plus the email the identity provider embeds.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenProvider derives the current user from a session JWT stored on disk
// by the sign-in flow. A missing, expired or otherwise invalid token means
// signed out, not an error: the caller sees (nil, nil) and a diagnostic is
// logged.
type TokenProvider struct {
	path   string
	secret []byte
	log    logging.Logger
}

func NewTokenProvider(path string, secret []byte, log logging.Logger) *TokenProvider {
	return &TokenProvider{path: path, secret: secret, log: log}
}

func (p *TokenProvider) CurrentUser(ctx context.Context) (*User, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(string(raw)), claims,
		func(t *jwt.Token) (interface{}, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		p.log.Debug(ctx, "session token rejected, treating as signed out", "error", err)
		return nil, nil
	}
	if claims.Subject == "" {
		p.log.Debug(ctx, "session token has no subject, treating as signed out")
		return nil, nil
	}

	return &User{ID: claims.Subject, Email: claims.Email}, nil
}
