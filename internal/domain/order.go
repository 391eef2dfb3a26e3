package domain

import "time"

// ActionKind says what an order action does to the tracked position
type ActionKind string

const (
	ActionOpen   ActionKind = "OPEN"
	ActionReduce ActionKind = "REDUCE"
	ActionClose  ActionKind = "CLOSE"
)

// OrderAction is a concrete instruction for one account, derived from a routed
// intent by the planner. Quantity is the amount submitted to the exchange for
// this action, which differs from the signal's nominal quantity on partial
// closes.
type OrderAction struct {
	AccountID     string            `json:"account_id"`
	Symbol        string            `json:"symbol"`
	Kind          ActionKind        `json:"kind"`
	Side          Side              `json:"side"`
	Quantity      float64           `json:"quantity"`
	EntryType     EntryType         `json:"entry_type"`
	EntryPrice    *float64          `json:"entry_price,omitempty"`
	StopLoss      *float64          `json:"stop_loss,omitempty"`
	TakeProfits   []TakeProfitLevel `json:"take_profits,omitempty"`
	Leverage      *float64          `json:"leverage,omitempty"`
	ClientOrderID string            `json:"client_order_id"`
}

// OrderResult is the outcome of dispatching one action
type OrderResult struct {
	AccountID     string     `json:"account_id"`
	Symbol        string     `json:"symbol"`
	Kind          ActionKind `json:"kind"`
	Quantity      float64    `json:"quantity"`
	OrderID       string     `json:"order_id,omitempty"` // exchange-assigned, or synthetic in dry mode
	ClientOrderID string     `json:"client_order_id"`
	Mode          Mode       `json:"mode"`
	Accepted      bool       `json:"accepted"`
	NoPosition    bool       `json:"no_position,omitempty"` // exchange had nothing to close; treated as no-op
	Error         string     `json:"error,omitempty"`
	ExecutedAt    time.Time  `json:"executed_at"`
}

// JournalEntry is one dispatched action as recorded in the order journal
type JournalEntry struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	Symbol        string     `json:"symbol"`
	Kind          ActionKind `json:"kind"`
	Side          Side       `json:"side"`
	Quantity      float64    `json:"quantity"`
	Mode          Mode       `json:"mode"`
	ClientOrderID string     `json:"client_order_id"`
	OrderID       string     `json:"order_id,omitempty"`
	Accepted      bool       `json:"accepted"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
