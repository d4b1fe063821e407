// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/genesis"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/state"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := loadConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	cfg, err = loadConfigFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := writeConfig(t, `
slot-interval: 2s
staking:
  allow-top-up: false
  min-hold-period: 30
  withdraw-mode: full
genesis:
  decimals: 9
  launch-time: 1700000000
  reward-units: 500
  allocs:
    - address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
      units: 100
`)
	cfg, err = loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.SlotInterval)
	assert.Equal(t, staking.Config{
		AllowTopUp:        false,
		MinimumHoldPeriod: 30,
		WithdrawMode:      staking.WithdrawFull,
	}, cfg.Staking)
	require.NotNil(t, cfg.Genesis)
	assert.Equal(t, uint8(9), *cfg.Genesis.Decimals)
	assert.Equal(t, uint64(1700000000), cfg.Genesis.LaunchTime)
	require.Len(t, cfg.Genesis.Allocs, 1)
	assert.Equal(t, custody.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), cfg.Genesis.Allocs[0].Address)

	// staking defaults hold for fields left out
	cfg, err = loadConfigFile(writeConfig(t, "staking:\n  min-hold-period: 5\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Staking.AllowTopUp)
	assert.Equal(t, staking.WithdrawRecorded, cfg.Staking.WithdrawMode)
	assert.Nil(t, cfg.Genesis)

	for _, bad := range []string{
		"unknown: 1\n",
		"staking:\n  withdraw-mode: some\n",
		"slot-interval: -1s\n",
		"genesis:\n  allocs:\n    - address: 0x01\n",
	} {
		_, err := loadConfigFile(writeConfig(t, bad))
		assert.Error(t, err, bad)
	}

	_, err = loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGenesisConfigBuilder(t *testing.T) {
	owner := custody.BytesToAddress([]byte("owner"))
	gc := &GenesisConfig{
		LaunchTime:  1700000000,
		RewardUnits: 100,
		Allocs:      []AllocConfig{{Address: owner, Units: 10}},
	}

	b, err := gc.Builder(6)
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	gene, err := b.Build(state.NewCommitter(db))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), gene.Decimals)
	assert.Equal(t, uint64(1700000000), gene.LaunchTime)

	d := uint8(2)
	gc.Decimals = &d
	b2, err := gc.Builder(6)
	require.NoError(t, err)
	id1, err := b.ComputeID()
	require.NoError(t, err)
	id2, err := b2.ComputeID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	d = custody.MaxDecimals + 1
	_, err = gc.Builder(6)
	assert.Error(t, err)

	gc.Decimals = nil
	gc.Allocs = append(gc.Allocs, AllocConfig{Address: owner, Units: 1})
	_, err = gc.Builder(6)
	assert.Error(t, err)

	gc.Allocs = []AllocConfig{{Units: 1}}
	_, err = gc.Builder(6)
	assert.Error(t, err)
}

func TestParseDecimals(t *testing.T) {
	d, err := parseDecimals(18)
	require.NoError(t, err)
	assert.Equal(t, uint8(18), d)

	d, err = parseDecimals(int(custody.MaxDecimals))
	require.NoError(t, err)
	assert.Equal(t, custody.MaxDecimals, d)

	for _, bad := range []int{-1, int(custody.MaxDecimals) + 1, 256} {
		_, err := parseDecimals(bad)
		assert.Error(t, err)
	}
}

func TestDevnetDecimals(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gene, err := genesis.NewDevnet(8).Build(state.NewCommitter(db))
	require.NoError(t, err)
	assert.Equal(t, uint8(8), gene.Decimals)
}
