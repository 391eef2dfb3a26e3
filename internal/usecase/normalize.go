package usecase

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"signal-gateway/internal/domain"
)

// Normalizer converts raw alert payloads into canonical NormalizedSignal
// values. It has no state beyond the validator instance and no side effects:
// identical input bytes always produce an identical signal.
type Normalizer struct {
	validate *validator.Validate
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		validate: validator.New(),
	}
}

// Normalize decodes and validates a raw JSON alert. All failures are
// *domain.ValidationError.
func (n *Normalizer) Normalize(raw []byte, source domain.SignalSource) (*domain.NormalizedSignal, error) {
	var alert domain.RawAlert
	if err := json.Unmarshal(raw, &alert); err != nil {
		return nil, &domain.ValidationError{Reason: "malformed JSON payload: " + err.Error()}
	}
	return n.NormalizeAlert(alert, source)
}

// NormalizeAlert validates an already-decoded alert
func (n *Normalizer) NormalizeAlert(alert domain.RawAlert, source domain.SignalSource) (*domain.NormalizedSignal, error) {
	if err := n.validate.Struct(alert); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, &domain.ValidationError{
				Field:  strings.ToLower(fe.Field()),
				Reason: "failed " + fe.Tag() + " check",
			}
		}
		return nil, &domain.ValidationError{Reason: err.Error()}
	}

	symbol := normalizeSymbol(alert.Symbol)
	if symbol == "" {
		return nil, &domain.ValidationError{Field: "symbol", Reason: "empty after normalization"}
	}

	cmd, err := parseCommand(alert.Command)
	if err != nil {
		return nil, err
	}

	side, err := resolveSide(cmd, alert.Side)
	if err != nil {
		return nil, err
	}

	entryType, err := parseEntryType(alert.OrderType, alert.EntryType)
	if err != nil {
		return nil, err
	}
	if entryType == domain.EntryLimit && alert.EntryPrice == nil {
		return nil, &domain.ValidationError{Field: "entry_price", Reason: "required for LIMIT orders"}
	}

	var quantity float64
	if alert.Quantity != nil {
		quantity = *alert.Quantity
	}
	if cmd.command == domain.CommandEnter && quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "required and must be positive"}
	}

	closePct := alert.ClosePct
	if closePct == nil {
		closePct = alert.TpClosePct
	}
	if closePct != nil && cmd.command != domain.CommandExit {
		return nil, &domain.ValidationError{Field: "close_pct", Reason: "only valid on EXIT commands"}
	}
	if cmd.requirePartial && closePct == nil {
		return nil, &domain.ValidationError{Field: "close_pct", Reason: "required for partial exit commands"}
	}
	if cmd.forceFull {
		closePct = nil
	}

	if err := checkTakeProfits(alert.TakeProfits); err != nil {
		return nil, err
	}

	profile := strings.TrimSpace(alert.RoutingProfile)
	if profile == "" {
		profile = "default"
	}

	return &domain.NormalizedSignal{
		Symbol:         symbol,
		Side:           side,
		Command:        cmd.command,
		EntryType:      entryType,
		EntryPrice:     alert.EntryPrice,
		Quantity:       quantity,
		StopLoss:       alert.StopLoss,
		TakeProfits:    alert.TakeProfits,
		RoutingProfile: profile,
		Leverage:       alert.Leverage,
		ClosePct:       closePct,
		StrategyName:   alert.StrategyName,
		Source:         source,
	}, nil
}

// normalizeSymbol strips the exchange prefix and perpetual suffix from
// chart-ticker symbols ("BINANCE:LIGHTUSDT.P" -> "LIGHTUSDT"). Anything that
// doesn't look like a chart ticker passes through verbatim, so already-clean
// symbols like "BTC-USDT" are never reshaped.
func normalizeSymbol(raw string) string {
	symbol := strings.TrimSpace(raw)
	if !strings.Contains(symbol, ":") {
		return symbol
	}

	parts := strings.SplitN(symbol, ":", 2)
	symbol = parts[1]
	symbol = strings.TrimSuffix(strings.TrimSuffix(symbol, ".P"), ".p")
	return strings.ToUpper(symbol)
}

// parsedCommand is a command token after alias resolution. Compound tokens
// like EXIT_SHORT_PARTIAL also pin the side and the close semantics.
type parsedCommand struct {
	command        domain.Command
	side           domain.Side
	hasSide        bool
	forceFull      bool
	requirePartial bool
}

func parseCommand(raw string) (parsedCommand, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	switch token {
	case "": // legacy single-shot open
		return parsedCommand{command: domain.CommandEnter}, nil
	case "ENTER":
		return parsedCommand{command: domain.CommandEnter}, nil
	case "EXIT":
		return parsedCommand{command: domain.CommandExit}, nil
	case "ENTER_LONG":
		return parsedCommand{command: domain.CommandEnter, side: domain.SideLong, hasSide: true}, nil
	case "ENTER_SHORT":
		return parsedCommand{command: domain.CommandEnter, side: domain.SideShort, hasSide: true}, nil
	case "EXIT_LONG":
		return parsedCommand{command: domain.CommandExit, side: domain.SideLong, hasSide: true}, nil
	case "EXIT_SHORT":
		return parsedCommand{command: domain.CommandExit, side: domain.SideShort, hasSide: true}, nil
	case "EXIT_LONG_ALL":
		return parsedCommand{command: domain.CommandExit, side: domain.SideLong, hasSide: true, forceFull: true}, nil
	case "EXIT_SHORT_ALL":
		return parsedCommand{command: domain.CommandExit, side: domain.SideShort, hasSide: true, forceFull: true}, nil
	case "EXIT_LONG_PARTIAL":
		return parsedCommand{command: domain.CommandExit, side: domain.SideLong, hasSide: true, requirePartial: true}, nil
	case "EXIT_SHORT_PARTIAL":
		return parsedCommand{command: domain.CommandExit, side: domain.SideShort, hasSide: true, requirePartial: true}, nil
	}
	return parsedCommand{}, &domain.ValidationError{Field: "command", Reason: "unknown command token: " + raw}
}

// resolveSide combines the side pinned by a compound command token with the
// payload's side field. A conflict between the two is rejected.
func resolveSide(cmd parsedCommand, rawSide string) (domain.Side, error) {
	fieldSide, fieldOK, err := parseSide(rawSide)
	if err != nil {
		return "", err
	}

	if cmd.hasSide {
		if fieldOK && fieldSide != cmd.side {
			return "", &domain.ValidationError{Field: "side", Reason: "conflicts with command token"}
		}
		return cmd.side, nil
	}
	if !fieldOK {
		return "", &domain.ValidationError{Field: "side", Reason: "required"}
	}
	return fieldSide, nil
}

// parseSide resolves the side aliases: buy/long -> LONG, sell/short -> SHORT
func parseSide(raw string) (domain.Side, bool, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	switch token {
	case "":
		return "", false, nil
	case "buy", "long":
		return domain.SideLong, true, nil
	case "sell", "short":
		return domain.SideShort, true, nil
	}
	return "", false, &domain.ValidationError{Field: "side", Reason: "unknown side token: " + raw}
}

func parseEntryType(orderType, legacyEntryType string) (domain.EntryType, error) {
	token := strings.TrimSpace(orderType)
	if token == "" {
		token = strings.TrimSpace(legacyEntryType)
	}
	switch strings.ToLower(token) {
	case "", "market":
		return domain.EntryMarket, nil
	case "limit":
		return domain.EntryLimit, nil
	}
	return "", &domain.ValidationError{Field: "order_type", Reason: "unknown order type: " + token}
}

func checkTakeProfits(levels []domain.TakeProfitLevel) error {
	var total float64
	for _, level := range levels {
		total += level.SizePct
	}
	if total > 100 {
		return &domain.ValidationError{Field: "take_profits", Reason: "size_pct values sum above 100"}
	}
	return nil
}
