package domain

import (
	"fmt"
	"strings"
)

// Mode is the execution fidelity level for an account
type Mode string

const (
	ModeDry  Mode = "dry"  // no exchange contact, synthetic order id
	ModeTest Mode = "test" // exchange order-validation endpoint only
	ModeDemo Mode = "demo" // paper funds on the exchange's virtual host
	ModeLive Mode = "live" // real funds
)

// ParseMode canonicalizes a mode string. "dry_run" is accepted as a legacy
// spelling of "dry".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dry", "dry_run":
		return ModeDry, nil
	case "test":
		return ModeTest, nil
	case "demo":
		return ModeDemo, nil
	case "live":
		return ModeLive, nil
	}
	return "", fmt.Errorf("unsupported account mode: %q", s)
}

// AccountConfig is the static configuration for one trading account.
// Credentials are env var references, never the secrets themselves.
type AccountConfig struct {
	AccountID    string `json:"account_id"`
	Exchange     string `json:"exchange"`
	Mode         Mode   `json:"mode"`
	APIKeyEnv    string `json:"api_key_env,omitempty"`
	SecretKeyEnv string `json:"secret_key_env,omitempty"`
	SourceKeyEnv string `json:"source_key_env,omitempty"`
}
