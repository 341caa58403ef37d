package amqp

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"amlyspay/internal/core"
)

// SpendMessage carries one spend event to the sync worker.
type SpendMessage struct {
	ID        string          `json:"id"`
	Event     core.SpendEvent `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSpendMessage wraps event with a fresh message id.
func NewSpendMessage(event core.SpendEvent) *SpendMessage {
	return &SpendMessage{
		ID:        uuid.NewString(),
		Event:     event,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SpendMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SpendMessageFromJSON decodes a message body.
func SpendMessageFromJSON(data []byte) (*SpendMessage, error) {
	var msg SpendMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
