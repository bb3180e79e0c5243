// Package identity resolves the currently signed-in user. The cloud identity
// provider itself is out of scope; this package only answers "who is signed
// in right now", if anyone.
package identity

import "context"

// User is the signed-in identity the backup engine keys documents by.
type User struct {
	ID    string
	Email string
}

// Provider reports the current user. A nil *User with a nil error means
// nobody is signed in; callers must treat that as a normal state, not a
// failure.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// StaticProvider always returns the same user (or none). Useful for tests
// and local development.
type StaticProvider struct {
	User *User
}

func (p *StaticProvider) CurrentUser(ctx context.Context) (*User, error) {
	return p.User, nil
}
