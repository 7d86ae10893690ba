// Package session holds the authenticated state of one CLI invocation
// as an explicit value: a token and the user it belongs to. Login,
// resume and logout return or destroy session values instead of
// mutating shared globals.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
)

// Authenticator is the slice of the platform client the session layer
// needs.
type Authenticator interface {
	Login(email, password string) (string, error)
	Me() (*cvmatch.User, error)
	SetToken(token string)
}

// Session is the authenticated state. It is immutable by convention:
// operations build new sessions rather than editing one in place.
type Session struct {
	Token string
	User  *cvmatch.User
}

// Establish logs in, persists the token and fetches the user profile.
func Establish(auth Authenticator, store *Store, email, password string, logger *zap.Logger) (*Session, error) {
	token, err := auth.Login(email, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := store.Save(token); err != nil {
		return nil, err
	}

	user, err := auth.Me()
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	logger.Info("session established", zap.String("email", user.Email))

	return &Session{Token: token, User: user}, nil
}

// Resume rebuilds a session from the persisted token.
func Resume(auth Authenticator, store *Store) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, err
	}

	auth.SetToken(token)

	user, err := auth.Me()
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	return &Session{Token: token, User: user}, nil
}

// Close discards the persisted token. The session value itself simply
// goes out of scope.
func Close(store *Store) error {
	return store.Clear()
}
