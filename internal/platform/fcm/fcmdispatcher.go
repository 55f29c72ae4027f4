// Package fcm provides the Firebase Cloud Messaging delivery client.
package fcm

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
type MessagingClient interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

type Dispatcher struct {
	client MessagingClient
	logger *slog.Logger
}

// NewDispatcher accepts the concrete client but stores it as the interface.
// Note: *messaging.Client automatically satisfies this interface.
func NewDispatcher(client MessagingClient, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger.With("component", "FCMDispatcher"),
	}
}

// Send delivers one message to one token. Tokens FCM reports as unregistered
// or malformed are surfaced as dispatch.ErrInvalidToken so the caller can
// clear them from the profile.
func (d *Dispatcher) Send(ctx context.Context, token string, content notification.NotificationContent, data map[string]string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("fcm send: %w: empty token", dispatch.ErrInvalidToken)
	}

	msg := &messaging.Message{
		Token: token,
		Data:  data,
		Notification: &messaging.Notification{
			Title: content.Title,
			Body:  content.Body,
		},
	}

	receipt, err := d.client.Send(ctx, msg)
	if err != nil {
		if messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsInvalidArgument(err) {
			d.logger.Info("FCM rejected token as dead", "err", err)
			return "", fmt.Errorf("fcm send: %w: %s", dispatch.ErrInvalidToken, err)
		}
		// Real network/auth/quota failure.
		return "", fmt.Errorf("fcm transport failed: %w", err)
	}

	return receipt, nil
}
