package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-marketplace-notifier/internal/pipeline"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

func TestDocumentEventTransformer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	testCases := []struct {
		name                  string
		payload               string
		expectError           bool
		expectedErrorContains string
		expectedType          marketplace.EventType
	}{
		{
			name:         "Happy Path - Booking Created",
			payload:      `{"type":"booking.created","documentId":"booking-1","data":{"serviceName":"Haircut"}}`,
			expectedType: marketplace.EventBookingCreated,
		},
		{
			name:         "Happy Path - Order Updated With Snapshots",
			payload:      `{"type":"order.updated","documentId":"order-1","data":{"status":"Ready"},"oldData":{"status":"Accepted"}}`,
			expectedType: marketplace.EventOrderUpdated,
		},
		{
			name:                  "Failure - Malformed JSON",
			payload:               `not-json`,
			expectError:           true,
			expectedErrorContains: "failed to unmarshal document event",
		},
		{
			name:                  "Failure - Unknown Event Type",
			payload:               `{"type":"user.created","documentId":"u-1","data":{}}`,
			expectError:           true,
			expectedErrorContains: "unknown event type",
		},
		{
			name:                  "Failure - Missing Document ID",
			payload:               `{"type":"booking.created","data":{"serviceName":"Haircut"}}`,
			expectError:           true,
			expectedErrorContains: "missing a document id",
		},
		{
			name:                  "Failure - Missing Snapshot",
			payload:               `{"type":"order.created","documentId":"order-1"}`,
			expectError:           true,
			expectedErrorContains: "has no snapshot",
		},
		{
			name:                  "Failure - Update Without Pre-Update Snapshot",
			payload:               `{"type":"booking.updated","documentId":"booking-1","data":{"status":"Accepted"}}`,
			expectError:           true,
			expectedErrorContains: "no pre-update snapshot",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := &messagepipeline.Message{
				MessageData: messagepipeline.MessageData{ID: "msg-1", Payload: []byte(tc.payload)},
			}

			event, skip, err := pipeline.DocumentEventTransformer(ctx, msg)

			if tc.expectError {
				require.Error(t, err)
				assert.True(t, skip, "poison messages must be skipped, not retried in place")
				assert.Contains(t, err.Error(), tc.expectedErrorContains)
				return
			}

			require.NoError(t, err)
			assert.False(t, skip)
			require.NotNil(t, event)
			assert.Equal(t, tc.expectedType, event.Type)
		})
	}
}
