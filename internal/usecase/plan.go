package usecase

import (
	"fmt"
	"math"

	"signal-gateway/internal/domain"
)

// PlanOrders turns a routed intent into concrete order actions given the
// current position state for the (account, symbol) key. It is pure: the
// caller applies the returned state under the key's lock, and reverts to the
// old state if dispatch fails.
//
// ENTER on a flat key opens the signal quantity. ENTER on an existing
// same-side position adds to it (pyramiding). ENTER against the opposite side
// fails: a reversal needs an explicit close first.
//
// EXIT closes the tracked quantity in full, or, with close_pct, reduces by
// round(open * pct / 100, precision) clamped to a full close when the rounded
// amount reaches the open quantity.
func PlanOrders(intent domain.RoutedIntent, state domain.PositionState, seq uint64, precision int) ([]domain.OrderAction, domain.PositionState, error) {
	signal := intent.Signal
	side := domain.PositionSideOf(signal.Side)
	clientOrderID := fmt.Sprintf("%s-%s-%s-%d", intent.AccountID, signal.Symbol, signal.Command, seq)

	switch signal.Command {
	case domain.CommandEnter:
		if !state.IsFlat() && state.Side != side {
			return nil, state, &domain.PlanningError{
				AccountID: intent.AccountID,
				Symbol:    signal.Symbol,
				Reason:    fmt.Sprintf("cannot open %s against open %s position without closing first", signal.Side, state.Side),
			}
		}

		action := domain.OrderAction{
			AccountID:     intent.AccountID,
			Symbol:        signal.Symbol,
			Kind:          domain.ActionOpen,
			Side:          signal.Side,
			Quantity:      signal.Quantity,
			EntryType:     signal.EntryType,
			EntryPrice:    signal.EntryPrice,
			StopLoss:      signal.StopLoss,
			TakeProfits:   signal.TakeProfits,
			Leverage:      signal.Leverage,
			ClientOrderID: clientOrderID,
		}
		newState := domain.PositionState{
			Side:         side,
			OpenQuantity: state.OpenQuantity + signal.Quantity,
		}
		return []domain.OrderAction{action}, newState, nil

	case domain.CommandExit:
		if state.IsFlat() {
			return nil, state, &domain.PlanningError{
				AccountID: intent.AccountID,
				Symbol:    signal.Symbol,
				Reason:    "no open position to exit",
			}
		}
		if state.Side != side {
			return nil, state, &domain.PlanningError{
				AccountID: intent.AccountID,
				Symbol:    signal.Symbol,
				Reason:    fmt.Sprintf("exit side %s does not match open %s position", signal.Side, state.Side),
			}
		}

		// Exits always go out at market; a limit entry price belongs to the
		// opening order only.
		action := domain.OrderAction{
			AccountID:     intent.AccountID,
			Symbol:        signal.Symbol,
			Side:          signal.Side,
			EntryType:     domain.EntryMarket,
			ClientOrderID: clientOrderID,
		}

		if signal.ClosePct == nil {
			action.Kind = domain.ActionClose
			action.Quantity = state.OpenQuantity
			return []domain.OrderAction{action}, domain.PositionState{Side: domain.PositionFlat}, nil
		}

		reduceQty := roundTo(state.OpenQuantity*(*signal.ClosePct)/100, precision)
		if reduceQty <= 0 {
			return nil, state, &domain.PlanningError{
				AccountID: intent.AccountID,
				Symbol:    signal.Symbol,
				Reason:    fmt.Sprintf("close_pct %.4f of %.8f rounds to zero quantity", *signal.ClosePct, state.OpenQuantity),
			}
		}
		if reduceQty >= state.OpenQuantity {
			// Clamp: never reduce by more than is open.
			action.Kind = domain.ActionClose
			action.Quantity = state.OpenQuantity
			return []domain.OrderAction{action}, domain.PositionState{Side: domain.PositionFlat}, nil
		}

		action.Kind = domain.ActionReduce
		action.Quantity = reduceQty
		newState := domain.PositionState{
			Side:         state.Side,
			OpenQuantity: state.OpenQuantity - reduceQty,
		}
		return []domain.OrderAction{action}, newState, nil
	}

	return nil, state, &domain.PlanningError{
		AccountID: intent.AccountID,
		Symbol:    signal.Symbol,
		Reason:    fmt.Sprintf("unsupported command: %s", signal.Command),
	}
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
