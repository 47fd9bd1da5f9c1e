// Package store persists the session credential and the signed-in user.
//
// The token and the user record are kept under fixed keys: TokenKey holds the
// opaque bearer token and UserKey the JSON-encoded user. Implementations exist
// for process memory, a state file for the terminal client, and browser
// cookies for the web UI.
package store

import (
	"time"

	"storefront/console/internal/model"
)

const (
	TokenKey = "authToken"
	UserKey  = "user"

	// TokenTTL is how long a persisted token is kept.
	TokenTTL = 7 * 24 * time.Hour
)

type Store interface {
	// Token returns "" when no usable token is persisted.
	Token() string
	SetToken(token string) error

	// User returns nil when no user is persisted.
	User() *model.User
	SetUser(user model.User) error

	// Clear removes both the token and the user.
	Clear() error
}
