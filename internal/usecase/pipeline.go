package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"signal-gateway/internal/config"
	"signal-gateway/internal/domain"
	"signal-gateway/internal/repository"
)

// Pipeline composes the full alert path: normalize, route, then for every
// routed intent plan, tentatively apply, dispatch, and commit or roll back —
// all under the intent's per-key lock so two concurrent alerts for the same
// (account, symbol) never plan against the same stale quantity.
type Pipeline struct {
	normalizer *Normalizer
	router     *Router
	tracker    *repository.PositionTracker
	dispatcher *Dispatcher
	cfg        *config.Config
	journal    domain.OrderJournal
	notifier   *Notifier
}

func NewPipeline(
	cfg *config.Config,
	tracker *repository.PositionTracker,
	dispatcher *Dispatcher,
	journal domain.OrderJournal,
	notifier *Notifier,
) *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(),
		router:     NewRouter(cfg),
		tracker:    tracker,
		dispatcher: dispatcher,
		cfg:        cfg,
		journal:    journal,
		notifier:   notifier,
	}
}

// ProcessRaw handles one raw alert payload end to end
func (p *Pipeline) ProcessRaw(ctx context.Context, raw []byte, source domain.SignalSource) (*domain.NormalizedSignal, []domain.OrderResult, error) {
	signal, err := p.normalizer.Normalize(raw, source)
	if err != nil {
		return nil, nil, err
	}
	results, err := p.ProcessSignal(ctx, signal)
	return signal, results, err
}

// ProcessSignal routes a normalized signal and executes each routed intent.
// A failure for one account is reported in its result and never blocks the
// other accounts of a fan-out profile.
func (p *Pipeline) ProcessSignal(ctx context.Context, signal *domain.NormalizedSignal) ([]domain.OrderResult, error) {
	intents, err := p.router.Resolve(signal)
	if err != nil {
		return nil, err
	}

	log.Printf("Processing signal: symbol=%s command=%s side=%s profile=%s accounts=%d",
		signal.Symbol, signal.Command, signal.Side, signal.RoutingProfile, len(intents))

	results := make([]domain.OrderResult, 0, len(intents))
	for _, intent := range intents {
		results = append(results, p.processIntent(ctx, intent))
	}
	return results, nil
}

// processIntent runs the transactional plan-dispatch-commit sequence for one
// account under the key's lock. The lock covers the dispatch call so the
// compensation on failure sees no interleaved writers.
func (p *Pipeline) processIntent(ctx context.Context, intent domain.RoutedIntent) domain.OrderResult {
	signal := intent.Signal

	account, err := p.cfg.Account(intent.AccountID)
	if err != nil {
		log.Printf("Routing to unknown account: account=%s symbol=%s: %v", intent.AccountID, signal.Symbol, err)
		return failedResult(intent, "", err)
	}

	var (
		result     domain.OrderResult
		dispatched *domain.OrderAction
	)
	lockErr := p.tracker.Locked(intent.AccountID, signal.Symbol, func(tx *repository.PositionTx) error {
		before := tx.State()
		seq := tx.NextSeq()

		actions, after, err := PlanOrders(intent, before, seq, p.cfg.Precision(signal.Symbol))
		if err != nil {
			return err
		}

		for i := range actions {
			action := actions[i]
			tx.SetState(after)

			res, dispatchErr := p.dispatcher.Execute(ctx, action, account)
			if dispatchErr != nil {
				// Compensate: the exchange never saw the order take effect.
				tx.SetState(before)
				log.Printf("Dispatch failed, position reverted: account=%s symbol=%s kind=%s quantity=%.8f: %v",
					action.AccountID, action.Symbol, action.Kind, action.Quantity, dispatchErr)
			}
			result = res
			dispatched = &action
		}
		return nil
	})
	if lockErr != nil {
		log.Printf("Planning rejected: account=%s symbol=%s command=%s: %v",
			intent.AccountID, signal.Symbol, signal.Command, lockErr)
		return failedResult(intent, account.Mode, lockErr)
	}

	if dispatched != nil {
		p.record(ctx, result, dispatched.Side)
	}
	if p.notifier != nil {
		p.notifier.NotifyResult(result)
	}
	return result
}

// record persists the dispatch outcome in the order journal
func (p *Pipeline) record(ctx context.Context, result domain.OrderResult, side domain.Side) {
	if p.journal == nil {
		return
	}
	entry := &domain.JournalEntry{
		ID:            uuid.NewString(),
		AccountID:     result.AccountID,
		Symbol:        result.Symbol,
		Kind:          result.Kind,
		Side:          side,
		Quantity:      result.Quantity,
		Mode:          result.Mode,
		ClientOrderID: result.ClientOrderID,
		OrderID:       result.OrderID,
		Accepted:      result.Accepted,
		Error:         result.Error,
		CreatedAt:     result.ExecutedAt,
	}
	if err := p.journal.Record(ctx, entry); err != nil {
		log.Printf("Error recording journal entry: account=%s symbol=%s: %v", result.AccountID, result.Symbol, err)
	}
}

func failedResult(intent domain.RoutedIntent, mode domain.Mode, err error) domain.OrderResult {
	return domain.OrderResult{
		AccountID:  intent.AccountID,
		Symbol:     intent.Signal.Symbol,
		Mode:       mode,
		Accepted:   false,
		Error:      err.Error(),
		ExecutedAt: time.Now().UTC(),
	}
}
