package domain

// Side is the logical position side of a signal
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Command tells the planner whether the signal opens or closes a position
type Command string

const (
	CommandEnter Command = "ENTER"
	CommandExit  Command = "EXIT"
)

// EntryType is the order type used for entries
type EntryType string

const (
	EntryMarket EntryType = "MARKET"
	EntryLimit  EntryType = "LIMIT"
)

// SignalSource identifies the channel a signal arrived on
type SignalSource string

const (
	SourceChartWebhook SignalSource = "chart_webhook"
	SourceSignalAPI    SignalSource = "signal_api"
)

// TakeProfitLevel is a take profit price with the percentage of the position to close there
type TakeProfitLevel struct {
	Price   float64 `json:"price" validate:"gt=0"`
	SizePct float64 `json:"size_pct" validate:"gt=0,lte=100"`
}

// RawAlert is the inbound webhook payload before normalization.
// Field constraints that don't depend on other fields are expressed as
// validator tags; cross-field rules live in the normalizer.
type RawAlert struct {
	Command        string            `json:"command"`
	Symbol         string            `json:"symbol" validate:"required"`
	Side           string            `json:"side"`
	OrderType      string            `json:"order_type"`
	EntryType      string            `json:"entry_type"` // legacy alias of order_type
	Code           string            `json:"code"`       // free-text label, not parsed
	EntryPrice     *float64          `json:"entry_price" validate:"omitempty,gt=0"`
	Quantity       *float64          `json:"quantity" validate:"omitempty,gt=0"`
	Leverage       *float64          `json:"leverage" validate:"omitempty,gt=0"`
	ClosePct       *float64          `json:"close_pct" validate:"omitempty,gt=0,lte=100"`
	TpClosePct     *float64          `json:"tp_close_pct" validate:"omitempty,gt=0,lte=100"` // alias of close_pct
	StopLoss       *float64          `json:"stop_loss" validate:"omitempty,gt=0"`
	TakeProfits    []TakeProfitLevel `json:"take_profits" validate:"omitempty,dive"`
	RoutingProfile string            `json:"routing_profile"`
	StrategyName   string            `json:"strategy_name"`
	Timestamp      int64             `json:"timestamp"`
}

// NormalizedSignal is the validated, canonical form of an alert. It is built
// once by the normalizer and treated as read-only by every later stage.
type NormalizedSignal struct {
	Symbol         string            `json:"symbol"`
	Side           Side              `json:"side"`
	Command        Command           `json:"command"`
	EntryType      EntryType         `json:"entry_type"`
	EntryPrice     *float64          `json:"entry_price,omitempty"`
	Quantity       float64           `json:"quantity"`
	StopLoss       *float64          `json:"stop_loss,omitempty"`
	TakeProfits    []TakeProfitLevel `json:"take_profits,omitempty"`
	RoutingProfile string            `json:"routing_profile"`
	Leverage       *float64          `json:"leverage,omitempty"`
	ClosePct       *float64          `json:"close_pct,omitempty"`
	StrategyName   string            `json:"strategy_name,omitempty"`
	Source         SignalSource      `json:"source"`
}

// RoutedIntent targets one account. Many intents from a fan-out profile share
// the same underlying signal, so Signal must not be mutated after routing.
type RoutedIntent struct {
	AccountID string            `json:"account_id"`
	Signal    *NormalizedSignal `json:"signal"`
}
