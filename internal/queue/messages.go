// Package queue carries food budget reconciliation requests over RabbitMQ to
// the reconcile worker, and budget change events back to the API instances.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetmaster/internal/month"
)

// ReconcileMessage asks a worker to reconcile one user's food budget for a month.
// The worker reads the ledger itself, so the message stays small.
type ReconcileMessage struct {
	UserID    string    `json:"user_id"`
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReconcileMessage creates a message stamped with the current time.
func NewReconcileMessage(userID string, m month.Key) *ReconcileMessage {
	return &ReconcileMessage{
		UserID:    userID,
		Month:     m.String(),
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReconcileMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthKey parses the message month.
func (m *ReconcileMessage) MonthKey() (month.Key, error) {
	return month.Parse(m.Month)
}

// ReconcileMessageFromJSON decodes and validates a message.
func ReconcileMessageFromJSON(data []byte) (*ReconcileMessage, error) {
	var msg ReconcileMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, fmt.Errorf("message has no user_id")
	}
	if _, err := msg.MonthKey(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BudgetsChangedMessage tells API instances that a worker changed budgets,
// so they can drop cached months and push websocket events.
type BudgetsChangedMessage struct {
	UserID    string    `json:"user_id"`
	Months    []string  `json:"months"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetsChangedMessage creates a message stamped with the current time.
func NewBudgetsChangedMessage(userID string, months ...month.Key) *BudgetsChangedMessage {
	msg := &BudgetsChangedMessage{
		UserID:    userID,
		Months:    make([]string, 0, len(months)),
		Timestamp: time.Now().UTC(),
	}
	for _, m := range months {
		msg.Months = append(msg.Months, m.String())
	}
	return msg
}

// ToJSON converts the message to JSON bytes.
func (m *BudgetsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthKeys parses the message months.
func (m *BudgetsChangedMessage) MonthKeys() ([]month.Key, error) {
	keys := make([]month.Key, 0, len(m.Months))
	for _, s := range m.Months {
		k, err := month.Parse(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// BudgetsChangedMessageFromJSON decodes and validates a message.
func BudgetsChangedMessageFromJSON(data []byte) (*BudgetsChangedMessage, error) {
	var msg BudgetsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, fmt.Errorf("message has no user_id")
	}
	if len(msg.Months) == 0 {
		return nil, fmt.Errorf("message has no months")
	}
	if _, err := msg.MonthKeys(); err != nil {
		return nil, err
	}
	return &msg, nil
}
