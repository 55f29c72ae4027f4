package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinywideclouds/go-marketplace-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// Notifier runs the side-effecting half of each handler: profile lookups,
// push delivery, and the notification-log append. Composition is delegated
// to the pure functions in compose.go.
type Notifier struct {
	profiles dispatch.ProfileStore
	push     dispatch.Dispatcher
	history  dispatch.NotificationLog
	logger   *slog.Logger
}

func NewNotifier(
	profiles dispatch.ProfileStore,
	push dispatch.Dispatcher,
	history dispatch.NotificationLog,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		profiles: profiles,
		push:     push,
		history:  history,
		logger:   logger.With("component", "Notifier"),
	}
}

// BookingCreated notifies the provider that a new booking landed.
func (n *Notifier) BookingCreated(ctx context.Context, bookingID string, b marketplace.Booking) Outcome {
	token, stop := n.lookupToken(ctx, b.ProviderID, "provider")
	if stop != nil {
		return *stop
	}
	content, data := BookingCreatedMessage(bookingID, b, n.customerName(ctx, b.CustomerID))
	return n.deliver(ctx, b.ProviderID, token, content, data)
}

// OrderCreated notifies the shop that a new order landed.
func (n *Notifier) OrderCreated(ctx context.Context, orderID string, o marketplace.Order) Outcome {
	token, stop := n.lookupToken(ctx, o.ShopID, "shop")
	if stop != nil {
		return *stop
	}
	content, data := OrderCreatedMessage(orderID, o, n.customerName(ctx, o.CustomerID))
	return n.deliver(ctx, o.ShopID, token, content, data)
}

// BookingStatusChanged notifies the customer when a booking's status field
// actually changed between snapshots.
func (n *Notifier) BookingStatusChanged(ctx context.Context, bookingID string, before, after marketplace.Booking) Outcome {
	if before.Status == after.Status {
		return Skipped("status unchanged")
	}
	token, stop := n.lookupToken(ctx, after.CustomerID, "customer")
	if stop != nil {
		return *stop
	}
	content, data := BookingStatusMessage(bookingID, after)
	return n.deliver(ctx, after.CustomerID, token, content, data)
}

// OrderStatusChanged notifies the customer when an order's status field
// actually changed between snapshots.
func (n *Notifier) OrderStatusChanged(ctx context.Context, orderID string, before, after marketplace.Order) Outcome {
	if before.Status == after.Status {
		return Skipped("status unchanged")
	}
	token, stop := n.lookupToken(ctx, after.CustomerID, "customer")
	if stop != nil {
		return *stop
	}
	content, data := OrderStatusMessage(orderID, after)
	return n.deliver(ctx, after.CustomerID, token, content, data)
}

// lookupToken resolves the recipient's delivery token. A non-nil Outcome
// means the invocation is over (silent skip or lookup failure).
func (n *Notifier) lookupToken(ctx context.Context, userID, role string) (string, *Outcome) {
	profile, err := n.profiles.GetProfile(ctx, userID)
	if errors.Is(err, dispatch.ErrProfileNotFound) {
		o := Skipped(role + " profile not found")
		return "", &o
	}
	if err != nil {
		o := Failed(fmt.Errorf("%s lookup: %w", role, err))
		return "", &o
	}
	if profile.FCMToken == "" {
		o := Skipped(role + " has no delivery token")
		return "", &o
	}
	return profile.FCMToken, nil
}

// customerName resolves the counterparty's display name, falling back to a
// generic label when the profile is missing or nameless.
func (n *Notifier) customerName(ctx context.Context, customerID string) string {
	profile, err := n.profiles.GetProfile(ctx, customerID)
	if err != nil {
		if !errors.Is(err, dispatch.ErrProfileNotFound) {
			n.logger.Warn("Customer lookup failed, using fallback name", "user_id", customerID, "err", err)
		}
		return FallbackCustomerName
	}
	if profile.Name == "" {
		return FallbackCustomerName
	}
	return profile.Name
}

// deliver sends the push and, only after a successful send, archives a copy
// under the recipient's notification log. The two writes are not atomic: a
// sent-but-not-archived outcome is possible and carries the receipt.
func (n *Notifier) deliver(ctx context.Context, recipientID, token string, content notification.NotificationContent, data map[string]string) Outcome {
	receipt, err := n.push.Send(ctx, token, content, data)
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidToken) {
			// Self-healing: a dead token stays dead, so stop storing it.
			if clearErr := n.profiles.ClearToken(ctx, recipientID); clearErr != nil {
				n.logger.Warn("Failed to clear dead delivery token", "user_id", recipientID, "err", clearErr)
			} else {
				n.logger.Info("Cleared dead delivery token", "user_id", recipientID)
			}
		}
		return Failed(fmt.Errorf("push delivery: %w", err))
	}

	entry := marketplace.NotificationEntry{
		Title: content.Title,
		Body:  content.Body,
		Data:  data,
		Read:  false,
	}
	if err := n.history.Append(ctx, recipientID, entry); err != nil {
		o := Failed(fmt.Errorf("archive notification: %w", err))
		o.Receipt = receipt
		return o
	}
	return Sent(receipt)
}
