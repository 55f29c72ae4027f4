//go:build integration

package firestore_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	fs "github.com/tinywideclouds/go-marketplace-notifier/internal/storage/firestore"

	"github.com/illmade-knight/go-test/emulators"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

func setupSuite(t *testing.T) (context.Context, *firestore.Client, *fs.MarketStore) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	projectID := "test-market-store"
	conn := emulators.SetupFirestoreEmulator(t, ctx, emulators.GetDefaultFirestoreConfig(projectID))
	client, err := firestore.NewClient(ctx, projectID, conn.ClientOptions...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := fs.NewMarketStore(client)
	return ctx, client, store
}

func TestMarketStore_Integration(t *testing.T) {
	ctx, client, store := setupSuite(t)

	t.Run("Profile Lifecycle", func(t *testing.T) {
		userID := "provider-lifecycle"

		// Missing profile -> sentinel
		_, err := store.GetProfile(ctx, userID)
		require.ErrorIs(t, err, dispatch.ErrProfileNotFound)

		// Seed a profile the way the marketplace app would
		_, err = client.Collection("users").Doc(userID).Set(ctx, map[string]interface{}{
			"name": "Asha's Salon",
		})
		require.NoError(t, err)

		profile, err := store.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Asha's Salon", profile.Name)
		assert.Empty(t, profile.FCMToken)

		// Register token without clobbering the name
		require.NoError(t, store.SetToken(ctx, userID, "token-android-1"))

		profile, err = store.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Asha's Salon", profile.Name)
		assert.Equal(t, "token-android-1", profile.FCMToken)

		// Clear
		require.NoError(t, store.ClearToken(ctx, userID))

		profile, err = store.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, profile.FCMToken)
	})

	t.Run("ClearToken on missing profile is a no-op", func(t *testing.T) {
		require.NoError(t, store.ClearToken(ctx, "no-such-user"))
	})

	t.Run("Append writes entry with server timestamp and read=false", func(t *testing.T) {
		userID := "provider-archive"

		entry := marketplace.NotificationEntry{
			Title: "New Service Booking",
			Body:  "Asha has booked Haircut from you at 5 Mar 2024, 10:30 am",
			Data: map[string]string{
				"type":      "booking",
				"bookingId": "booking-42",
			},
		}
		require.NoError(t, store.Append(ctx, userID, entry))

		iter := client.Collection("users").Doc(userID).Collection("notifications").Documents(ctx)
		defer iter.Stop()

		var entries []marketplace.NotificationEntry
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			require.NoError(t, err)

			var got marketplace.NotificationEntry
			require.NoError(t, doc.DataTo(&got))
			entries = append(entries, got)
		}

		require.Len(t, entries, 1)
		assert.Equal(t, entry.Title, entries[0].Title)
		assert.Equal(t, entry.Body, entries[0].Body)
		assert.Equal(t, "booking-42", entries[0].Data["bookingId"])
		assert.False(t, entries[0].Read)
		assert.False(t, entries[0].Timestamp.IsZero(), "store must assign the creation timestamp")
	})
}
