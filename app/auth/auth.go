package auth

import (
	"context"
	"errors"

	"github.com/mytheresa/catalog-web/models"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid login")
	// ErrAccountDisabled is returned for correct credentials on an inactive account.
	ErrAccountDisabled = errors.New("account disabled")
)

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type Authenticator struct {
	users UserProvider
}

func NewAuthenticator(users UserProvider) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate checks username and password. The password is verified
// before the active flag so a disabled account is only reported to
// someone who knows its password.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return user, ErrAccountDisabled
	}
	return user, nil
}
