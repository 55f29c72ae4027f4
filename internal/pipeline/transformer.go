// Package pipeline contains the core message processing components for the
// service.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

// DocumentEventTransformer safely unmarshals and validates a raw message
// payload into a marketplace.DocumentEvent envelope.
//
// Malformed or structurally incomplete payloads are rejected with skip=true
// so the StreamingService routes them to the dead-letter path instead of
// spinning on them.
func DocumentEventTransformer(
	_ context.Context,
	msg *messagepipeline.Message,
) (*marketplace.DocumentEvent, bool, error) {
	var event marketplace.DocumentEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, true, fmt.Errorf("failed to unmarshal document event from message %s: %w", msg.ID, err)
	}
	if err := event.Validate(); err != nil {
		return nil, true, fmt.Errorf("invalid document event in message %s: %w", msg.ID, err)
	}
	return &event, false, nil
}
