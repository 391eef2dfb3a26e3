package bingx

import "strings"

// ToExchangeSymbol converts a normalized symbol like "BTCUSDT" or "LIGHTUSDT"
// into the BingX contract format "BTC-USDT" / "LIGHT-USDT". Symbols that
// already contain a dash pass through unchanged, and so does anything that
// doesn't end in a known quote asset.
func ToExchangeSymbol(symbol string) string {
	if strings.Contains(symbol, "-") {
		return symbol
	}

	for _, quote := range []string{"USDT", "USDC"} {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			base := symbol[:len(symbol)-len(quote)]
			return base + "-" + quote
		}
	}
	return symbol
}

// FromExchangeSymbol maps a BingX contract symbol back to the dashless
// normalized form ("BTC-USDT" -> "BTCUSDT"), used when replaying exchange
// positions into the tracker.
func FromExchangeSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "-", "")
}
