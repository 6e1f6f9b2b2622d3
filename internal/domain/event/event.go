package event

import (
	"time"

	"github.com/google/uuid"
)

// Event records a single state transition for the external audit sink. Every
// create, status change, and finalize emits one.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	EntityType    string                 `json:"entity_type"`
	EntityID      int64                  `json:"entity_id"`
	FromStatus    string                 `json:"from_status,omitempty"`
	ToStatus      string                 `json:"to_status,omitempty"`
	Actor         string                 `json:"actor"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a transition event with a generated id and timestamp.
func New(eventType Type, entityType string, entityID int64, fromStatus, toStatus, actor string) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		EntityType:    entityType,
		EntityID:      entityID,
		FromStatus:    fromStatus,
		ToStatus:      toStatus,
		Actor:         actor,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// WithCorrelation returns a copy of the event linked to an existing
// correlation chain.
func (e *Event) WithCorrelation(correlationID string) *Event {
	clone := *e
	clone.CorrelationID = correlationID
	return &clone
}

// WithPayload returns a copy of the event with an added payload entry. The
// receiver is not mutated.
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	clone := *e
	clone.Payload = newPayload
	return &clone
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
