package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fizzdex/crypto"
	"fizzdex/native/market"

	"github.com/BurntSushi/toml"
)

type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	DataDir     string `toml:"DataDir"`
	NetworkName string `toml:"NetworkName"`
	Env         string `toml:"Env"`

	Market MarketConfig `toml:"market"`
}

// MarketConfig seeds the global market state on first boot. It is ignored
// once the market has been initialised in the data directory.
type MarketConfig struct {
	Authority   string `toml:"Authority"`
	RewardAsset string `toml:"RewardAsset"`
	FeeBps      uint32 `toml:"FeeBps"`
}

// Load loads the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "fizzdex-local"
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts of the configuration that cannot be defaulted.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		return fmt.Errorf("config: RPCAddress is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("config: DataDir is required")
	}
	if cfg.Market.Authority != "" {
		if _, err := crypto.DecodeAddress(cfg.Market.Authority); err != nil {
			return fmt.Errorf("config: market.Authority: %w", err)
		}
		if _, err := market.NormalizeAsset(cfg.Market.RewardAsset); err != nil {
			return fmt.Errorf("config: market.RewardAsset: %w", err)
		}
		if cfg.Market.FeeBps > market.MaxFeeBps {
			return fmt.Errorf("config: market.FeeBps %d exceeds maximum %d", cfg.Market.FeeBps, market.MaxFeeBps)
		}
	}
	return nil
}

// BootstrapMarket reports whether the config carries a market seed.
func (cfg *Config) BootstrapMarket() bool {
	return cfg.Market.Authority != ""
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:  ":8080",
		DataDir:     "./fizzdex-data",
		NetworkName: "fizzdex-local",
		Env:         "development",
	}

	if err := persist(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
