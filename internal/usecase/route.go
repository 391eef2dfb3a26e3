package usecase

import (
	"signal-gateway/internal/config"
	"signal-gateway/internal/domain"
)

// Router maps a signal's routing profile to the accounts it targets. The
// profile table is loaded once at startup and never mutated, so resolution is
// a pure lookup.
type Router struct {
	cfg *config.Config
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{cfg: cfg}
}

// Resolve produces one RoutedIntent per target account, preserving the
// profile's account order. All intents share the same signal, which must be
// treated as read-only downstream.
func (r *Router) Resolve(signal *domain.NormalizedSignal) ([]domain.RoutedIntent, error) {
	accountIDs, ok := r.cfg.Profile(signal.RoutingProfile)
	if !ok {
		return nil, &domain.UnknownProfileError{Profile: signal.RoutingProfile}
	}

	intents := make([]domain.RoutedIntent, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		intents = append(intents, domain.RoutedIntent{
			AccountID: accountID,
			Signal:    signal,
		})
	}
	return intents, nil
}
