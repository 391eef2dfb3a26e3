package usecase

import (
	"fmt"
	"log"

	"signal-gateway/internal/domain"
	"signal-gateway/internal/infrastructure/fcm"
	"signal-gateway/internal/repository"
)

// Notifier pushes FCM notifications for order results. Dry and test runs are
// silent; demo and live executions and every dispatch failure go out to all
// registered devices.
type Notifier struct {
	fcmClient *fcm.Client
	tokenRepo *repository.TokenRepository
}

func NewNotifier(fcmClient *fcm.Client, tokenRepo *repository.TokenRepository) *Notifier {
	return &Notifier{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
	}
}

func (n *Notifier) NotifyResult(result domain.OrderResult) {
	if n.fcmClient == nil || !n.fcmClient.IsEnabled() {
		return // FCM not configured
	}
	if result.Accepted && result.Mode != domain.ModeDemo && result.Mode != domain.ModeLive {
		return // only real executions and failures are worth a push
	}

	tokens := n.tokenRepo.GetAllTokens()
	if len(tokens) == 0 {
		return // No registered devices
	}

	var title, body string
	switch {
	case !result.Accepted:
		title = fmt.Sprintf("❌ %s order failed", result.Symbol)
		body = fmt.Sprintf("%s %s qty %.4f on %s: %s",
			result.Kind, result.Symbol, result.Quantity, result.AccountID, result.Error)
	case result.NoPosition:
		title = fmt.Sprintf("ℹ️ %s already flat", result.Symbol)
		body = fmt.Sprintf("%s on %s skipped: no open position on the exchange",
			result.Kind, result.AccountID)
	default:
		title = fmt.Sprintf("✅ %s %s executed", result.Symbol, result.Kind)
		body = fmt.Sprintf("qty %.4f on %s (%s mode), order %s",
			result.Quantity, result.AccountID, result.Mode, result.OrderID)
	}

	data := map[string]string{
		"account_id": result.AccountID,
		"symbol":     result.Symbol,
		"kind":       string(result.Kind),
		"quantity":   fmt.Sprintf("%.8f", result.Quantity),
		"mode":       string(result.Mode),
		"accepted":   fmt.Sprintf("%t", result.Accepted),
	}

	if err := n.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
		log.Printf("Error sending notification for %s: %v", result.Symbol, err)
	} else {
		log.Printf("Sent order notification for %s to %d devices", result.Symbol, len(tokens))
	}
}
