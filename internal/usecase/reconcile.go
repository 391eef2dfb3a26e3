package usecase

import (
	"context"
	"log"

	"signal-gateway/internal/config"
	"signal-gateway/internal/domain"
	"signal-gateway/internal/repository"
)

// ReconcilePositions replays the exchange's open positions into the tracker
// at startup. The tracker is a cache, not a ledger: after a restart the
// exchange is the source of truth for what is open. Only demo and live
// accounts hold real exchange positions; dry and test accounts start flat.
//
// Reconciliation is best effort per account — a failing account is logged
// and skipped so one bad credential set doesn't keep the gateway down.
func ReconcilePositions(ctx context.Context, cfg *config.Config, tracker *repository.PositionTracker, factory domain.ExchangeClientFactory) {
	for _, account := range cfg.Accounts {
		if account.Mode != domain.ModeDemo && account.Mode != domain.ModeLive {
			continue
		}

		client, err := factory(account)
		if err != nil {
			log.Printf("Position reconciliation skipped: account=%s: %v", account.AccountID, err)
			continue
		}

		positions, err := client.OpenPositions(ctx)
		if err != nil {
			log.Printf("Position reconciliation failed: account=%s: %v", account.AccountID, err)
			continue
		}

		for _, pos := range positions {
			tracker.Seed(account.AccountID, pos.Symbol, pos.Side, pos.Quantity)
			log.Printf("Seeded position from exchange: account=%s symbol=%s side=%s quantity=%.8f",
				account.AccountID, pos.Symbol, pos.Side, pos.Quantity)
		}
		log.Printf("Position reconciliation done: account=%s open_positions=%d", account.AccountID, len(positions))
	}
}
