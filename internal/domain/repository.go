package domain

import "context"

// OrderJournal records every dispatched action and its outcome
type OrderJournal interface {
	Record(ctx context.Context, entry *JournalEntry) error
	Recent(ctx context.Context, limit int) ([]*JournalEntry, error)
}

// ExchangeClient is the capability the dispatcher consumes. A client is bound
// to one account's credentials and mode; the mode selects the target host.
type ExchangeClient interface {
	// ValidateOrder calls the exchange's order-validation endpoint. No
	// position is opened on the exchange side.
	ValidateOrder(ctx context.Context, action OrderAction) (string, error)
	// SubmitOrder places the order and returns the exchange-assigned id.
	SubmitOrder(ctx context.Context, action OrderAction) (string, error)
	// OpenPositions reports the account's currently open positions, used to
	// seed the position tracker at startup.
	OpenPositions(ctx context.Context) ([]ExchangePosition, error)
}

// ExchangeClientFactory builds a client for an account. Dry accounts never
// reach the factory.
type ExchangeClientFactory func(account AccountConfig) (ExchangeClient, error)
