package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-gateway/internal/domain"
)

func TestRouterResolveDefaultProfile(t *testing.T) {
	router := NewRouter(dryConfig())
	signal := &domain.NormalizedSignal{Symbol: "BTCUSDT", RoutingProfile: "default"}

	intents, err := router.Resolve(signal)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, "acct", intents[0].AccountID)
	assert.Same(t, signal, intents[0].Signal)
}

func TestRouterResolveFanOutPreservesOrder(t *testing.T) {
	cfg := testConfig(
		map[string]domain.AccountConfig{
			"paper": {AccountID: "paper", Mode: domain.ModeDry},
			"real":  {AccountID: "real", Mode: domain.ModeLive},
		},
		map[string][]string{
			"default": {"paper"},
			"both":    {"real", "paper"},
		},
	)
	router := NewRouter(cfg)
	signal := &domain.NormalizedSignal{Symbol: "BTCUSDT", RoutingProfile: "both"}

	intents, err := router.Resolve(signal)
	require.NoError(t, err)
	require.Len(t, intents, 2)
	assert.Equal(t, "real", intents[0].AccountID)
	assert.Equal(t, "paper", intents[1].AccountID)

	// Fan-out intents share one read-only signal.
	assert.Same(t, intents[0].Signal, intents[1].Signal)
}

func TestRouterUnknownProfile(t *testing.T) {
	router := NewRouter(dryConfig())
	signal := &domain.NormalizedSignal{Symbol: "BTCUSDT", RoutingProfile: "missing"}

	_, err := router.Resolve(signal)
	var perr *domain.UnknownProfileError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "missing", perr.Profile)
}
