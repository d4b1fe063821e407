// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/token"
)

const testDecimals = 6

var (
	testMint          = custody.BytesToAddress([]byte("test-mint"))
	testMintAuthority = custody.BytesToAddress([]byte("test-mint-authority"))
	alice             = custody.BytesToAddress([]byte("alice"))
	bob               = custody.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	t       *testing.T
	state   *state.State
	tokens  *token.Service
	clock   *clock.Manual
	staking *Staking
}

// newTestEnv creates a staking program with an initialized reward vault
// holding rewardUnits whole units.
func newTestEnv(t *testing.T, cfg Config, rewardUnits uint64) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(state.NewCommitter(db))
	tokens := token.New(st)
	require.NoError(t, tokens.CreateMint(testMint, testDecimals, testMintAuthority))

	c := clock.NewManual(100)
	env := &testEnv{
		t:       t,
		state:   st,
		tokens:  tokens,
		clock:   c,
		staking: New(st, tokens, c, testMint, cfg),
	}
	_, err = env.staking.Initialize(alice)
	require.NoError(t, err)

	vault, err := pda.RewardVault()
	require.NoError(t, err)
	env.mint(vault.Address, rewardUnits)
	return env
}

func (e *testEnv) wallet(user custody.Address) custody.Address {
	d, err := pda.AssociatedAccount(user, testMint)
	require.NoError(e.t, err)
	return d.Address
}

func (e *testEnv) stakeVault(user custody.Address) custody.Address {
	d, err := pda.StakeVault(user)
	require.NoError(e.t, err)
	return d.Address
}

func (e *testEnv) rewardVault() custody.Address {
	d, err := pda.RewardVault()
	require.NoError(e.t, err)
	return d.Address
}

// fund gives user a wallet holding units whole units.
func (e *testEnv) fund(user custody.Address, units uint64) {
	_, err := e.tokens.InitializeAccount(e.wallet(user), testMint, user)
	require.NoError(e.t, err)
	e.mint(e.wallet(user), units)
}

func (e *testEnv) mint(to custody.Address, units uint64) {
	scaled, err := Scale(units, testDecimals)
	require.NoError(e.t, err)
	require.NoError(e.t, e.tokens.MintTo(testMint, to, token.UserAuthority(testMintAuthority), scaled))
}

// balance returns base units held at addr, 0 if no account.
func (e *testEnv) balance(addr custody.Address) uint64 {
	ok, err := e.tokens.Exists(addr)
	require.NoError(e.t, err)
	if !ok {
		return 0
	}
	acc, err := e.tokens.Account(addr)
	require.NoError(e.t, err)
	return acc.Amount
}

func (e *testEnv) stakeInfo(user custody.Address) *StakeInfo {
	info, err := e.staking.StakeInfo(user)
	require.NoError(e.t, err)
	return info
}

// snapshot captures everything an operation of user can touch.
type snapshot struct {
	wallet, vault, reward uint64
	info                  StakeInfo
}

func (e *testEnv) snapshot(user custody.Address) snapshot {
	return snapshot{
		wallet: e.balance(e.wallet(user)),
		vault:  e.balance(e.stakeVault(user)),
		reward: e.balance(e.rewardVault()),
		info:   *e.stakeInfo(user),
	}
}
