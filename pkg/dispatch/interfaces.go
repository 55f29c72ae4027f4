// Package dispatch defines the contracts between the notification handlers
// and the external services they call: the push delivery platform and the
// record store.
package dispatch

import (
	"context"
	"errors"

	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// ErrProfileNotFound is returned by ProfileStore.GetProfile when no document
// exists for the user.
var ErrProfileNotFound = errors.New("profile not found")

// ErrInvalidToken is returned (wrapped) by a Dispatcher when the delivery
// platform reports the destination token as permanently dead. The stored
// token should be cleared; retrying is pointless.
var ErrInvalidToken = errors.New("delivery token invalid")

// Dispatcher sends one push message to one delivery token. The returned
// receipt is an opaque platform identifier for the accepted message.
type Dispatcher interface {
	Send(ctx context.Context, token string, content notification.NotificationContent, data map[string]string) (string, error)
}

// ProfileStore reads user profiles and manages the single delivery token
// each profile carries.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound if the user document is absent.
	GetProfile(ctx context.Context, userID string) (*marketplace.UserProfile, error)

	// SetToken upserts the delivery token on the user's profile.
	SetToken(ctx context.Context, userID, token string) error

	// ClearToken removes the delivery token from the user's profile.
	// Clearing an absent token is not an error.
	ClearToken(ctx context.Context, userID string) error
}

// NotificationLog appends a delivered-notification copy to a user's
// notification history. Entries are never read or mutated by this service.
type NotificationLog interface {
	Append(ctx context.Context, userID string, entry marketplace.NotificationEntry) error
}
