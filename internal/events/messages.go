package events

import (
	"encoding/json"
	"time"
)

// Operations and domains carried on change events.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpClear  = "clear"

	// OpResetRequested is emitted on the users domain so an external
	// consumer can deliver the reset mail.
	OpResetRequested = "reset_requested"

	DomainIncome    = "income"
	DomainBills     = "bills"
	DomainGroceries = "groceries"
	DomainTheme     = "theme"
	DomainUsers     = "users"
)

// ChangeEvent is published after every successful mutation. It carries
// identifiers only; consumers fetch the current document themselves.
type ChangeEvent struct {
	Domain    string    `json:"domain"`
	Op        string    `json:"op"`
	UserID    string    `json:"user_id"`
	DocID     string    `json:"doc_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent stamps a change event with the current time.
func NewChangeEvent(domain, op, userID, docID string) ChangeEvent {
	return ChangeEvent{
		Domain:    domain,
		Op:        op,
		UserID:    userID,
		DocID:     docID,
		Timestamp: time.Now(),
	}
}

func (e ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReminderEvent is published by the reminder worker for bills that are
// past due or due within the configured horizon.
type ReminderEvent struct {
	UserID    string    `json:"user_id"`
	BillID    string    `json:"bill_id"`
	Name      string    `json:"name"`
	DueDate   string    `json:"due_date"`
	Urgency   string    `json:"urgency"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReminderEvent(userID, billID, name, dueDate, urgency string) ReminderEvent {
	return ReminderEvent{
		UserID:    userID,
		BillID:    billID,
		Name:      name,
		DueDate:   dueDate,
		Urgency:   urgency,
		Timestamp: time.Now().UTC(),
	}
}

func (e ReminderEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReminderEventFromJSON decodes a reminder event from its wire form.
func ReminderEventFromJSON(data []byte) (*ReminderEvent, error) {
	var e ReminderEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
