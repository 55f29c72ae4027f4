// Package firestore implements the profile store and notification log on
// Google Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

// MarketStore implements dispatch.ProfileStore and dispatch.NotificationLog
// against the "users" collection and its "notifications" subcollections.
type MarketStore struct {
	client *firestore.Client
}

func NewMarketStore(client *firestore.Client) *MarketStore {
	return &MarketStore{client: client}
}

func (s *MarketStore) GetProfile(ctx context.Context, userID string) (*marketplace.UserProfile, error) {
	doc, err := s.userRef(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, dispatch.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile lookup for %s: %w", userID, err)
	}

	var profile marketplace.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", userID, err)
	}
	return &profile, nil
}

// SetToken upserts the token without touching the rest of the profile.
func (s *MarketStore) SetToken(ctx context.Context, userID, token string) error {
	_, err := s.userRef(userID).Set(ctx, map[string]interface{}{
		"fcmToken": token,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("setting token for %s: %w", userID, err)
	}
	return nil
}

// ClearToken removes the token field. A missing profile is treated as
// already-cleared.
func (s *MarketStore) ClearToken(ctx context.Context, userID string) error {
	_, err := s.userRef(userID).Update(ctx, []firestore.Update{
		{Path: "fcmToken", Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clearing token for %s: %w", userID, err)
	}
	return nil
}

// Append adds the entry under users/{userID}/notifications. The store
// assigns the document ID and, via the serverTimestamp tag, the creation
// timestamp.
func (s *MarketStore) Append(ctx context.Context, userID string, entry marketplace.NotificationEntry) error {
	_, _, err := s.notificationsCollection(userID).Add(ctx, entry)
	if err != nil {
		return fmt.Errorf("appending notification for %s: %w", userID, err)
	}
	return nil
}

// --- Helpers ---

func (s *MarketStore) userRef(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

func (s *MarketStore) notificationsCollection(userID string) *firestore.CollectionRef {
	return s.userRef(userID).Collection("notifications")
}
