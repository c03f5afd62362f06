package events

import (
	"encoding/json"
	"time"
)

// Operation names carried in mutation events.
const (
	OpAddExpense      = "add_expense"
	OpDeleteExpense   = "delete_expense"
	OpAddIncome       = "add_income"
	OpDeleteIncome    = "delete_income"
	OpReplaceExpenses = "replace_expenses"
	OpReplaceIncome   = "replace_income"
)

// Event is a lightweight record of one applied store mutation. It carries
// just enough for an audit trail; consumers wanting full records read the
// persisted collections instead.
type Event struct {
	Op          string    `json:"op"`
	ID          string    `json:"id,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Count       int       `json:"count,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(op, id string, amountCents int64) Event {
	return Event{
		Op:          op,
		ID:          id,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
