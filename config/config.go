package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir     string `toml:"DataDir"`
	NetworkName string `toml:"NetworkName"`

	// Protocol parameters. Defaults match the deployed contracts; changing
	// them forks the accounting, so deployments normally leave them alone.
	LedgersPerDay       uint64 `toml:"LedgersPerDay"`
	MaxAllowanceDays    uint32 `toml:"MaxAllowanceDays"`
	AllowanceTTLLedgers uint64 `toml:"AllowanceTTLLedgers"`
	DecimalsOffset      uint32 `toml:"DecimalsOffset"`

	MaxCommissionFee         uint32 `toml:"MaxCommissionFee"`
	MaxLockSeconds           int64  `toml:"MaxLockSeconds"`
	MaxEventThresholdSeconds int64  `toml:"MaxEventThresholdSeconds"`
	MaxUnlockSeconds         int64  `toml:"MaxUnlockSeconds"`

	// Hosted contracts. The daemon instantiates an engine per declared
	// address at startup; markets resolve their vault pair among the
	// declared vaults.
	Token   TokenConfig      `toml:"Token"`
	Vaults  []ContractConfig `toml:"Vaults"`
	Markets []ContractConfig `toml:"Markets"`
}

// TokenConfig declares the underlying asset ledger the daemon hosts.
type TokenConfig struct {
	Address  string `toml:"Address"`
	Name     string `toml:"Name"`
	Symbol   string `toml:"Symbol"`
	Decimals uint32 `toml:"Decimals"`
}

// ContractConfig declares a vault or market engine by contract address.
type ContractConfig struct {
	Address string `toml:"Address"`
}

// DecodeAddress parses a hex-encoded 20-byte contract address.
func DecodeAddress(encoded string) ([20]byte, error) {
	var addr [20]byte
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return addr, fmt.Errorf("config: decode address %q: %w", encoded, err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("config: address %q: unexpected length %d", encoded, len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

// Default returns the protocol defaults: five second ledgers, one day
// allowance TTLs, no virtual decimals offset.
func Default() *Config {
	return &Config{
		DataDir:                  "./marketvault-data",
		NetworkName:              "marketvault-local",
		LedgersPerDay:            17280,
		MaxAllowanceDays:         30,
		AllowanceTTLLedgers:      17280,
		DecimalsOffset:           0,
		MaxCommissionFee:         100,
		MaxLockSeconds:           604800,
		MaxEventThresholdSeconds: 86400,
		MaxUnlockSeconds:         604800,
		Token: TokenConfig{
			Address:  "00000000000000000000000000000000000000aa",
			Name:     "US Dollar Coin",
			Symbol:   "USDC",
			Decimals: 2,
		},
		Vaults: []ContractConfig{
			{Address: "0000000000000000000000000000000000000001"},
			{Address: "0000000000000000000000000000000000000002"},
		},
		Markets: []ContractConfig{
			{Address: "0000000000000000000000000000000000000003"},
		},
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
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
