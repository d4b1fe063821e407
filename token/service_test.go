// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/state"
)

var (
	mintAddr  = custody.BytesToAddress([]byte("mint"))
	mintOwner = custody.BytesToAddress([]byte("mint-authority"))
	alice     = custody.BytesToAddress([]byte("alice"))
	bob       = custody.BytesToAddress([]byte("bob"))
)

func newTestService(t *testing.T) (*Service, *state.Committer) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	committer := state.NewCommitter(db)
	svc := New(state.New(committer))
	require.NoError(t, svc.CreateMint(mintAddr, 6, mintOwner))
	return svc, committer
}

func TestCreateMint(t *testing.T) {
	svc, _ := newTestService(t)

	m, err := svc.Mint(mintAddr)
	require.NoError(t, err)
	assert.Equal(t, &Mint{Decimals: 6, Authority: mintOwner}, m)

	assert.ErrorIs(t, svc.CreateMint(mintAddr, 6, mintOwner), ErrMintExists)
	assert.ErrorIs(t, svc.CreateMint(alice, 20, mintOwner), ErrInvalidDecimals)

	_, err = svc.Mint(alice)
	assert.ErrorIs(t, err, ErrMintNotFound)
}

func TestInitializeAccount(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.InitializeAccount(alice, mintAddr, bob)
	require.NoError(t, err)
	assert.False(t, created)

	acc, err := svc.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, alice, acc.Owner)

	_, err = svc.InitializeAccount(bob, alice, bob)
	assert.ErrorIs(t, err, ErrMintNotFound)

	require.NoError(t, svc.CreateMint(bob, 0, mintOwner))
	_, err = svc.InitializeAccount(alice, bob, alice)
	assert.ErrorIs(t, err, ErrMintMismatch)
}

func TestTransfer(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	_, err = svc.InitializeAccount(bob, mintAddr, bob)
	require.NoError(t, err)
	require.NoError(t, svc.MintTo(mintAddr, alice, UserAuthority(mintOwner), 100))

	tests := []struct {
		name      string
		from, to  custody.Address
		authority Authority
		amount    uint64
		wantErr   error
	}{
		{"missing source", custody.Address{1}, bob, UserAuthority(alice), 1, ErrAccountNotFound},
		{"missing destination", alice, custody.Address{1}, UserAuthority(alice), 1, ErrAccountNotFound},
		{"wrong owner", alice, bob, UserAuthority(bob), 1, ErrOwnerMismatch},
		{"zero signer", alice, bob, UserAuthority(custody.Address{}), 1, ErrOwnerMismatch},
		{"too much", alice, bob, UserAuthority(alice), 101, ErrInsufficientBalance},
		{"ok", alice, bob, UserAuthority(alice), 40, nil},
		{"zero amount", alice, bob, UserAuthority(alice), 0, nil},
		{"self", alice, alice, UserAuthority(alice), 60, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Transfer(tt.from, tt.to, tt.authority, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	a, err := svc.Account(alice)
	require.NoError(t, err)
	b, err := svc.Account(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), a.Amount)
	assert.Equal(t, uint64(40), b.Amount)

	m, err := svc.Mint(mintAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), m.Supply)
}

func TestTransferMintMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	other := custody.BytesToAddress([]byte("other-mint"))
	require.NoError(t, svc.CreateMint(other, 0, mintOwner))

	_, err := svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	_, err = svc.InitializeAccount(bob, other, bob)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Transfer(alice, bob, UserAuthority(alice), 0), ErrMintMismatch)
	assert.ErrorIs(t, svc.MintTo(mintAddr, bob, UserAuthority(mintOwner), 1), ErrMintMismatch)
}

func TestProgramAuthority(t *testing.T) {
	svc, _ := newTestService(t)

	vault, err := pda.StakeVault(alice)
	require.NoError(t, err)
	_, err = svc.InitializeAccount(vault.Address, mintAddr, vault.Address)
	require.NoError(t, err)
	_, err = svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	require.NoError(t, svc.MintTo(mintAddr, vault.Address, UserAuthority(mintOwner), 10))

	// the address itself has no key, a user signature never matches
	assert.ErrorIs(t, svc.Transfer(vault.Address, alice, UserAuthority(alice), 1), ErrOwnerMismatch)

	// seeds of another user
	bobVault, err := pda.StakeVault(bob)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Transfer(vault.Address, alice, DerivedAuthority(bobVault), 1), ErrOwnerMismatch)

	// wrong bump
	wrong := ProgramAuthority(vault.Program, vault.Seeds, vault.Bump-1)
	assert.ErrorIs(t, svc.Transfer(vault.Address, alice, wrong, 1), ErrOwnerMismatch)

	// wrong program
	other := ProgramAuthority(custody.TokenProgramID, vault.Seeds, vault.Bump)
	assert.ErrorIs(t, svc.Transfer(vault.Address, alice, other, 1), ErrOwnerMismatch)

	require.NoError(t, svc.Transfer(vault.Address, alice, DerivedAuthority(vault), 5))
	acc, err := svc.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), acc.Amount)
}

func TestOverflow(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	require.NoError(t, svc.MintTo(mintAddr, alice, UserAuthority(mintOwner), math.MaxUint64))
	assert.ErrorIs(t, svc.MintTo(mintAddr, alice, UserAuthority(mintOwner), 1), ErrOverflow)
	assert.ErrorIs(t, svc.MintTo(mintAddr, alice, UserAuthority(alice), 1), ErrOwnerMismatch)
}

func TestForEachAccount(t *testing.T) {
	svc, committer := newTestService(t)
	_, err := svc.InitializeAccount(alice, mintAddr, alice)
	require.NoError(t, err)
	_, err = svc.InitializeAccount(bob, mintAddr, bob)
	require.NoError(t, err)

	stage, err := svc.state.Stage()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())

	found := make(map[custody.Address]custody.Address)
	require.NoError(t, ForEachAccount(committer.Store(), func(addr custody.Address, acc *Account) bool {
		found[addr] = acc.Owner
		return true
	}))
	assert.Equal(t, map[custody.Address]custody.Address{alice: alice, bob: bob}, found)
}

func TestErrorsWrapCause(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Account(alice)
	assert.Equal(t, ErrAccountNotFound, errors.Cause(err))
}
