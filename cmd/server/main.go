package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	httpdelivery "signal-gateway/internal/delivery/http"
	"signal-gateway/internal/delivery/websocket"

	"signal-gateway/internal/config"
	"signal-gateway/internal/domain"
	"signal-gateway/internal/infrastructure/bingx"
	"signal-gateway/internal/infrastructure/db"
	"signal-gateway/internal/infrastructure/fcm"
	"signal-gateway/internal/repository"
	"signal-gateway/internal/usecase"
)

func main() {
	ctx := context.Background()

	// 1. Load configuration (routing profiles, accounts, symbol precision)
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded: accounts=%d profiles=%d", len(cfg.Accounts), len(cfg.Profiles))

	// 2. Initialize the order journal (Postgres if DATABASE_URL is set,
	// in-memory otherwise)
	var journal domain.OrderJournal
	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" {
		pool, err := db.NewPool(ctx, dbURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		journal = repository.NewPostgresOrderJournal(pool)
		log.Println("Using Postgres order journal")
	} else {
		journal = repository.NewInMemoryOrderJournal()
		log.Println("DATABASE_URL not set, using in-memory order journal")
	}

	// 3. Initialize FCM notifications
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("Warning: FCM initialization failed: %v", err)
		fcmClient = nil
	}
	tokenRepo := repository.NewTokenRepository()
	notifier := usecase.NewNotifier(fcmClient, tokenRepo)

	// 4. Build the pipeline
	factory := func(account domain.AccountConfig) (domain.ExchangeClient, error) {
		if account.Exchange != "" && account.Exchange != "bingx" {
			return nil, fmt.Errorf("unsupported exchange for account %s: %s", account.AccountID, account.Exchange)
		}
		return bingx.NewClient(account)
	}
	tracker := repository.NewPositionTracker()
	dispatcher := usecase.NewDispatcher(factory)
	pipeline := usecase.NewPipeline(cfg, tracker, dispatcher, journal, notifier)

	// 5. Reconcile positions from the exchange before accepting alerts
	usecase.ReconcilePositions(ctx, cfg, tracker, factory)

	// 6. Initialize Delivery
	alertHandler := httpdelivery.NewAlertHandler(pipeline)
	positionsHandler := httpdelivery.NewPositionsHandler(tracker)
	ordersHandler := httpdelivery.NewOrdersHandler(journal)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)
	healthHandler := httpdelivery.NewHealthHandler()
	wsHandler := websocket.NewHandler(journal)

	http.HandleFunc("/webhook/tradingview", alertHandler.HandleTradingViewWebhook)
	http.HandleFunc("/signals", alertHandler.HandleSignal)
	http.HandleFunc("/debug/example-tradingview-payload", alertHandler.HandleExamplePayload)
	http.HandleFunc("/api/positions", positionsHandler.HandlePositions)
	http.HandleFunc("/api/orders/recent", ordersHandler.HandleRecent)
	http.HandleFunc("/api/tokens/register", tokenHandler.HandleRegisterToken)
	http.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregisterToken)
	http.HandleFunc("/api/tokens/count", tokenHandler.HandleGetTokenCount)
	http.HandleFunc("/health", healthHandler.HandleHealth)
	http.HandleFunc("/ws", wsHandler.Handle)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	log.Printf("Server executing on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}
