package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"signal-gateway/internal/domain"
)

// Dispatcher executes order actions against an account's configured mode.
// Dry mode never touches the network; the other modes go through the
// account's exchange client. Clients are built once per account and cached.
type Dispatcher struct {
	factory domain.ExchangeClientFactory

	mu      sync.Mutex
	clients map[string]domain.ExchangeClient
}

func NewDispatcher(factory domain.ExchangeClientFactory) *Dispatcher {
	return &Dispatcher{
		factory: factory,
		clients: make(map[string]domain.ExchangeClient),
	}
}

// Execute dispatches one action. A non-nil error means the action did not
// take effect on the exchange and the caller must roll back the tentative
// position delta. A nil error with NoPosition set means the exchange had
// nothing to close; the caller commits the flat state.
func (d *Dispatcher) Execute(ctx context.Context, action domain.OrderAction, account domain.AccountConfig) (domain.OrderResult, error) {
	result := domain.OrderResult{
		AccountID:     action.AccountID,
		Symbol:        action.Symbol,
		Kind:          action.Kind,
		Quantity:      action.Quantity,
		ClientOrderID: action.ClientOrderID,
		Mode:          account.Mode,
		ExecutedAt:    time.Now().UTC(),
	}

	if account.Mode == domain.ModeDry {
		result.OrderID = "dryrun-" + strings.ReplaceAll(uuid.NewString(), "-", "")
		result.Accepted = true
		log.Printf("Dry run: account=%s symbol=%s kind=%s quantity=%.8f order_id=%s",
			action.AccountID, action.Symbol, action.Kind, action.Quantity, result.OrderID)
		return result, nil
	}

	client, err := d.clientFor(account)
	if err != nil {
		result.Error = err.Error()
		return result, &domain.ExchangeError{Err: err}
	}

	var orderID string
	switch account.Mode {
	case domain.ModeTest:
		orderID, err = client.ValidateOrder(ctx, action)
	default: // demo and live differ only in the client's target host
		orderID, err = client.SubmitOrder(ctx, action)
	}

	if err != nil {
		var exErr *domain.ExchangeError
		if errors.As(err, &exErr) && exErr.NoPosition {
			// The exchange has no position for this key: the close is a
			// no-op, the flat state stands.
			result.Accepted = true
			result.NoPosition = true
			return result, nil
		}
		result.Error = err.Error()
		return result, err
	}

	result.OrderID = orderID
	result.Accepted = true
	return result, nil
}

func (d *Dispatcher) clientFor(account domain.AccountConfig) (domain.ExchangeClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if client, ok := d.clients[account.AccountID]; ok {
		return client, nil
	}
	client, err := d.factory(account)
	if err != nil {
		return nil, err
	}
	d.clients[account.AccountID] = client
	return client, nil
}
