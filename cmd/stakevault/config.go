// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/genesis"
	"github.com/vechain/stakevault/staking"
)

// Config is the content of the config file.
type Config struct {
	SlotInterval time.Duration  `yaml:"slot-interval"`
	Staking      staking.Config `yaml:"staking"`
	Genesis      *GenesisConfig `yaml:"genesis"`
}

// GenesisConfig describes a custom genesis.
type GenesisConfig struct {
	Decimals    *uint8        `yaml:"decimals"`
	LaunchTime  uint64        `yaml:"launch-time"`
	RewardUnits uint64        `yaml:"reward-units"`
	Allocs      []AllocConfig `yaml:"allocs"`
}

// AllocConfig funds the wallet of an owner at genesis.
type AllocConfig struct {
	Address custody.Address `yaml:"address"`
	Units   uint64          `yaml:"units"`
}

func defaultConfig() *Config {
	return &Config{
		SlotInterval: slotIntervalFlag.Value,
		Staking:      staking.DefaultConfig(),
	}
}

// loadConfigFile reads the config file at path over the defaults.
func loadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config file")
	}
	if cfg.SlotInterval <= 0 {
		return nil, errors.New("slot-interval must be positive")
	}
	return cfg, nil
}

// Builder returns the genesis builder. Decimals fall back to decimals if not configured.
func (g *GenesisConfig) Builder(decimals uint8) (*genesis.Builder, error) {
	if g.Decimals != nil {
		decimals = *g.Decimals
	}
	if decimals > custody.MaxDecimals {
		return nil, errors.Errorf("decimals %d exceeds %d", decimals, custody.MaxDecimals)
	}
	b := new(genesis.Builder).
		Decimals(decimals).
		Timestamp(g.LaunchTime).
		RewardVault(g.RewardUnits)

	seen := make(map[custody.Address]bool)
	for i, a := range g.Allocs {
		if a.Address.IsZero() {
			return nil, errors.Errorf("allocs[%d]: zero address", i)
		}
		if seen[a.Address] {
			return nil, errors.Errorf("allocs[%d]: duplicated address %v", i, a.Address)
		}
		seen[a.Address] = true
		b.Alloc(a.Address, a.Units)
	}
	return b, nil
}

func parseDecimals(v int) (uint8, error) {
	if v < 0 || v > math.MaxUint8 || v > int(custody.MaxDecimals) {
		return 0, errors.Errorf("decimals %d out of range [0, %d]", v, custody.MaxDecimals)
	}
	return uint8(v), nil
}
