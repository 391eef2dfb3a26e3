package domain

// PositionSide is the side of a tracked position. FLAT means nothing is open.
type PositionSide string

const (
	PositionFlat  PositionSide = "FLAT"
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

// PositionSideOf maps a signal side to the equivalent position side
func PositionSideOf(side Side) PositionSide {
	if side == SideShort {
		return PositionShort
	}
	return PositionLong
}

// PositionState is the open quantity and side for one (account, symbol) key.
// It is process-resident only; the exchange is the source of truth across
// restarts and is replayed into the tracker at startup.
type PositionState struct {
	Side         PositionSide `json:"side"`
	OpenQuantity float64      `json:"open_quantity"`
}

// IsFlat reports whether nothing is open
func (s PositionState) IsFlat() bool {
	return s.Side == PositionFlat || s.OpenQuantity <= 0
}

// TrackedPosition is a PositionState together with its key, for snapshots
type TrackedPosition struct {
	AccountID    string       `json:"account_id"`
	Symbol       string       `json:"symbol"`
	Side         PositionSide `json:"side"`
	OpenQuantity float64      `json:"open_quantity"`
}

// ExchangePosition is an open position as reported by the exchange,
// used to seed the tracker at startup
type ExchangePosition struct {
	Symbol   string
	Side     PositionSide
	Quantity float64
}
