package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one event destined for the booking topic.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys shared with downstream consumers (notification side of the
// portal).
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
)

const schemaVersion = "1"

// NewMessage builds a message with a fresh event id, JSON-encoding the
// payload. Key selects the partition, so events for one resource stay
// ordered.
func NewMessage(eventType, key string, payload any, source string) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:       uuid.NewString(),
			HeaderEventType:     eventType,
			HeaderSchemaVersion: schemaVersion,
			HeaderSource:        source,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
