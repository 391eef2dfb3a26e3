package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"signal-gateway/internal/domain"
)

const defaultQuantityPrecision = 8

// Config holds the static routing-profile and account tables. It is built
// once at startup and never mutated; every component receives it by reference.
type Config struct {
	Accounts map[string]domain.AccountConfig
	Profiles map[string][]string

	// SymbolPrecision overrides the decimal precision used when rounding
	// partial-close quantities for a symbol.
	SymbolPrecision  map[string]int
	DefaultPrecision int
}

// fileConfig mirrors the JSON config layout
type fileConfig struct {
	Accounts []accountEntry      `json:"accounts"`
	Profiles map[string][]string `json:"routing_profiles"`
	Symbols  []symbolEntry       `json:"symbols"`
}

type accountEntry struct {
	AccountID    string `json:"account_id"`
	Exchange     string `json:"exchange"`
	Mode         string `json:"mode"`
	APIKeyEnv    string `json:"api_key_env"`
	SecretKeyEnv string `json:"secret_key_env"`
	SourceKeyEnv string `json:"source_key_env"`
}

type symbolEntry struct {
	Name      string `json:"name"`
	Precision int    `json:"precision"`
}

// Default returns the reference configuration: one dry-mode BingX account
// behind the "default" profile.
func Default() *Config {
	return &Config{
		Accounts: map[string]domain.AccountConfig{
			"bingx_primary": {
				AccountID:    "bingx_primary",
				Exchange:     "bingx",
				Mode:         domain.ModeDry,
				APIKeyEnv:    "BINGX_PRIMARY_API_KEY",
				SecretKeyEnv: "BINGX_PRIMARY_SECRET_KEY",
				SourceKeyEnv: "BINGX_PRIMARY_SOURCE_KEY",
			},
		},
		Profiles: map[string][]string{
			"default": {"bingx_primary"},
		},
		SymbolPrecision:  map[string]int{},
		DefaultPrecision: defaultQuantityPrecision,
	}
}

// Load reads a JSON config file and resolves it into a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return resolve(fc)
}

// FromEnv loads the file named by GATEWAY_CONFIG_PATH, or falls back to the
// built-in default configuration when the variable is unset.
func FromEnv() (*Config, error) {
	path := strings.TrimSpace(os.Getenv("GATEWAY_CONFIG_PATH"))
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func resolve(fc fileConfig) (*Config, error) {
	cfg := &Config{
		Accounts:         make(map[string]domain.AccountConfig, len(fc.Accounts)),
		Profiles:         make(map[string][]string, len(fc.Profiles)),
		SymbolPrecision:  make(map[string]int, len(fc.Symbols)),
		DefaultPrecision: defaultQuantityPrecision,
	}

	for _, a := range fc.Accounts {
		if a.AccountID == "" {
			return nil, fmt.Errorf("account with empty account_id")
		}
		mode, err := domain.ParseMode(a.Mode)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.AccountID, err)
		}
		cfg.Accounts[a.AccountID] = domain.AccountConfig{
			AccountID:    a.AccountID,
			Exchange:     strings.ToLower(a.Exchange),
			Mode:         mode,
			APIKeyEnv:    a.APIKeyEnv,
			SecretKeyEnv: a.SecretKeyEnv,
			SourceKeyEnv: a.SourceKeyEnv,
		}
	}

	for name, accountIDs := range fc.Profiles {
		if len(accountIDs) == 0 {
			return nil, fmt.Errorf("routing profile %q has no accounts", name)
		}
		for _, id := range accountIDs {
			if _, ok := cfg.Accounts[id]; !ok {
				return nil, fmt.Errorf("routing profile %q references unknown account %q", name, id)
			}
		}
		cfg.Profiles[name] = accountIDs
	}

	if _, ok := cfg.Profiles["default"]; !ok {
		return nil, fmt.Errorf(`routing profile "default" must be configured`)
	}

	for _, s := range fc.Symbols {
		if s.Precision < 0 {
			return nil, fmt.Errorf("symbol %s: precision must be >= 0", s.Name)
		}
		cfg.SymbolPrecision[strings.ToUpper(s.Name)] = s.Precision
	}

	return cfg, nil
}

// Account looks up an account by id
func (c *Config) Account(id string) (domain.AccountConfig, error) {
	account, ok := c.Accounts[id]
	if !ok {
		return domain.AccountConfig{}, fmt.Errorf("unknown account_id: %s", id)
	}
	return account, nil
}

// Profile returns the ordered account ids behind a routing profile
func (c *Config) Profile(name string) ([]string, bool) {
	ids, ok := c.Profiles[name]
	return ids, ok
}

// Precision returns the quantity precision for a symbol
func (c *Config) Precision(symbol string) int {
	if p, ok := c.SymbolPrecision[symbol]; ok {
		return p
	}
	return c.DefaultPrecision
}
