package domain

import "fmt"

// ValidationError rejects a malformed or inconsistent inbound payload.
// Nothing is mutated before it is raised.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid signal: %s", e.Reason)
	}
	return fmt.Sprintf("invalid signal: %s: %s", e.Field, e.Reason)
}

// UnknownProfileError is a routing misconfiguration: the signal names a
// profile that is not in the static profile table.
type UnknownProfileError struct {
	Profile string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown routing profile: %q", e.Profile)
}

// PlanningError rejects an intent that cannot be turned into an order action
// given the current position state (EXIT on flat, side reversal without an
// explicit close). Raised before dispatch; no state is mutated.
type PlanningError struct {
	AccountID string
	Symbol    string
	Reason    string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("cannot plan order for %s %s: %s", e.AccountID, e.Symbol, e.Reason)
}

// ExchangeError is a dispatch-time failure: network error, auth failure, or a
// rejection from the exchange API. It triggers a compensating rollback of the
// tentative position delta.
type ExchangeError struct {
	HTTPStatus int
	Code       int
	Message    string
	NoPosition bool // exchange reported nothing to close (BingX code 101205)
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exchange error: %v", e.Err)
	}
	if e.Code != 0 || e.Message != "" {
		return fmt.Sprintf("exchange error %d (code=%d): %s", e.HTTPStatus, e.Code, e.Message)
	}
	return fmt.Sprintf("exchange error %d", e.HTTPStatus)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
