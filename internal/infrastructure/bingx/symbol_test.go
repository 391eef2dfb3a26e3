package bingx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToExchangeSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"BTCUSDT", "BTC-USDT"},
		{"LIGHTUSDT", "LIGHT-USDT"},
		{"ETHUSDC", "ETH-USDC"},
		{"BTC-USDT", "BTC-USDT"}, // already dashed
		{"USDT", "USDT"},         // quote only, nothing to split
		{"XYZ", "XYZ"},           // unknown quote, passthrough
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToExchangeSymbol(tc.in), "in=%q", tc.in)
	}
}

func TestFromExchangeSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", FromExchangeSymbol("BTC-USDT"))
	assert.Equal(t, "BTCUSDT", FromExchangeSymbol("BTCUSDT"))
}

func TestSymbolRoundTrip(t *testing.T) {
	for _, symbol := range []string{"BTCUSDT", "LIGHTUSDT", "ETHUSDC"} {
		assert.Equal(t, symbol, FromExchangeSymbol(ToExchangeSymbol(symbol)))
	}
}
