package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chungddong/ChurchFinance/internal/store"
)

// RecordChangeMessage announces one committed store mutation. It
// carries only the coordinates; consumers fetch the current record
// from the store, so stale deliveries converge on the latest state.
type RecordChangeMessage struct {
	Collection string    `json:"collection"`
	Op         store.Op  `json:"op"`
	ID         int64     `json:"id,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewRecordChangeMessage converts a store change into its wire form.
func NewRecordChangeMessage(c store.Change) *RecordChangeMessage {
	return &RecordChangeMessage{
		Collection: c.Collection,
		Op:         c.Op,
		ID:         c.ID,
		OccurredAt: c.OccurredAt,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON decodes a delivery body.
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Collection == "" || msg.Op == "" {
		return nil, fmt.Errorf("incomplete record change message")
	}
	return &msg, nil
}
