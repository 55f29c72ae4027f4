package marketplace

import (
	"encoding/json"
	"fmt"
)

// EventType identifies which document trigger produced an event.
type EventType string

const (
	EventBookingCreated EventType = "booking.created"
	EventBookingUpdated EventType = "booking.updated"
	EventOrderCreated   EventType = "order.created"
	EventOrderUpdated   EventType = "order.updated"
)

// DocumentEvent is the wire envelope for a marketplace document trigger.
// Data holds the affected document (the post-update snapshot for updates);
// OldData holds the pre-update snapshot and is only present on updates.
type DocumentEvent struct {
	Type       EventType       `json:"type"`
	DocumentID string          `json:"documentId"`
	Data       json.RawMessage `json:"data"`
	OldData    json.RawMessage `json:"oldData,omitempty"`
}

// IsUpdate reports whether the event type carries a before/after pair.
func (e EventType) IsUpdate() bool {
	return e == EventBookingUpdated || e == EventOrderUpdated
}

// Validate checks the envelope is structurally complete for its type.
func (e *DocumentEvent) Validate() error {
	switch e.Type {
	case EventBookingCreated, EventBookingUpdated, EventOrderCreated, EventOrderUpdated:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.DocumentID == "" {
		return fmt.Errorf("event %q is missing a document id", e.Type)
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("event %q for document %s has no snapshot", e.Type, e.DocumentID)
	}
	if e.Type.IsUpdate() && len(e.OldData) == 0 {
		return fmt.Errorf("update event %q for document %s has no pre-update snapshot", e.Type, e.DocumentID)
	}
	return nil
}
