package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ChangeOp names the kind of write a change event reports.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

var errUnknownOp = errors.New("unknown change op")

// ExpenseChangeMessage announces that a record was written. It carries only
// identifiers; consumers fetch the current record from the store.
type ExpenseChangeMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Op        ChangeOp  `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseChangeMessage stamps a change event with the current time.
func NewExpenseChangeMessage(id, userID string, op ChangeOp) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		ID:        id,
		UserID:    userID,
		Op:        op,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangeMessageFromJSON decodes and checks a change event.
func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var msg ExpenseChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("change message without id")
	}
	switch msg.Op {
	case OpCreated, OpUpdated, OpDeleted:
	default:
		return nil, errUnknownOp
	}
	return &msg, nil
}
