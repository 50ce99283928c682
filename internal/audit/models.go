package audit

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderSubmitted     EventType = "order_submitted"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventCartCleared        EventType = "cart_cleared"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          uuid.UUID         `json:"id"`
	Type        EventType         `json:"type"`
	AggregateID string            `json:"aggregate_id"`
	Actor       string            `json:"actor,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	ClientIP    string            `json:"client_ip,omitempty"`
	Device      string            `json:"device,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}
