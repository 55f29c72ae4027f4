package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-marketplace-notifier/internal/notify"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

// Handler is the set of operations the processor routes events to.
// *notify.Notifier satisfies it.
type Handler interface {
	BookingCreated(ctx context.Context, bookingID string, b marketplace.Booking) notify.Outcome
	OrderCreated(ctx context.Context, orderID string, o marketplace.Order) notify.Outcome
	BookingStatusChanged(ctx context.Context, bookingID string, before, after marketplace.Booking) notify.Outcome
	OrderStatusChanged(ctx context.Context, orderID string, before, after marketplace.Order) notify.Outcome
}

// NewProcessor routes a validated envelope to the matching handler operation
// and logs the outcome. It always returns nil: delivery is at-most-once, so
// a failed handler must not trigger redelivery.
func NewProcessor(handler Handler, logger *slog.Logger) messagepipeline.StreamProcessor[marketplace.DocumentEvent] {
	return func(ctx context.Context, original messagepipeline.Message, event *marketplace.DocumentEvent) error {
		procLogger := logger.With(
			"event_type", string(event.Type),
			"document_id", event.DocumentID,
			"pubsub_msg_id", original.ID,
		)

		outcome, err := route(ctx, handler, event)
		if err != nil {
			// The envelope validated but the snapshot itself is garbage.
			// Redelivering the same bytes cannot succeed.
			procLogger.Error("Dropping event with undecodable snapshot", "err", err)
			return nil
		}

		switch outcome.Status {
		case notify.StatusSent:
			procLogger.Info("Notification dispatched", "receipt", outcome.Receipt)
		case notify.StatusSkipped:
			procLogger.Info("Notification skipped", "reason", outcome.Reason)
		case notify.StatusFailed:
			if outcome.Receipt != "" {
				procLogger.Error("Notification sent but not archived", "receipt", outcome.Receipt, "err", outcome.Err)
			} else {
				procLogger.Error("Notification failed", "err", outcome.Err)
			}
		}
		return nil
	}
}

func route(ctx context.Context, handler Handler, event *marketplace.DocumentEvent) (notify.Outcome, error) {
	switch event.Type {
	case marketplace.EventBookingCreated:
		var booking marketplace.Booking
		if err := json.Unmarshal(event.Data, &booking); err != nil {
			return notify.Outcome{}, fmt.Errorf("booking snapshot: %w", err)
		}
		return handler.BookingCreated(ctx, event.DocumentID, booking), nil

	case marketplace.EventOrderCreated:
		var order marketplace.Order
		if err := json.Unmarshal(event.Data, &order); err != nil {
			return notify.Outcome{}, fmt.Errorf("order snapshot: %w", err)
		}
		return handler.OrderCreated(ctx, event.DocumentID, order), nil

	case marketplace.EventBookingUpdated:
		var before, after marketplace.Booking
		if err := json.Unmarshal(event.OldData, &before); err != nil {
			return notify.Outcome{}, fmt.Errorf("booking pre-update snapshot: %w", err)
		}
		if err := json.Unmarshal(event.Data, &after); err != nil {
			return notify.Outcome{}, fmt.Errorf("booking snapshot: %w", err)
		}
		return handler.BookingStatusChanged(ctx, event.DocumentID, before, after), nil

	case marketplace.EventOrderUpdated:
		var before, after marketplace.Order
		if err := json.Unmarshal(event.OldData, &before); err != nil {
			return notify.Outcome{}, fmt.Errorf("order pre-update snapshot: %w", err)
		}
		if err := json.Unmarshal(event.Data, &after); err != nil {
			return notify.Outcome{}, fmt.Errorf("order snapshot: %w", err)
		}
		return handler.OrderStatusChanged(ctx, event.DocumentID, before, after), nil
	}

	// Unreachable for envelopes that passed Validate.
	return notify.Outcome{}, fmt.Errorf("unroutable event type %q", event.Type)
}
