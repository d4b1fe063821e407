// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial ledger.
package genesis

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/token"
)

// ErrMismatch is returned when the store holds a ledger of another genesis.
var ErrMismatch = errors.New("genesis: mismatch")

var (
	genesisKey = state.NewKey(kv.Bucket("genesis."), []byte("info"))
	logger     = log.WithContext("pkg", "genesis")
)

// Genesis describes the initial ledger.
type Genesis struct {
	ID         custody.Bytes32
	Mint       custody.Address
	Decimals   uint8
	LaunchTime uint64 // unix seconds, slot 0 starts at it
}

// ChainTag returns chain tag, the last byte of genesis id.
func (g *Genesis) ChainTag() byte {
	return g.ID[len(g.ID)-1]
}

type alloc struct {
	Owner custody.Address
	Units uint64
}

// Builder helper to build genesis.
type Builder struct {
	decimals    uint8
	launchTime  uint64
	rewardUnits uint64
	allocs      []alloc
}

// Decimals set decimals of the mint.
func (b *Builder) Decimals(decimals uint8) *Builder {
	b.decimals = decimals
	return b
}

// Timestamp set launch time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.launchTime = t
	return b
}

// Alloc funds the wallet of owner with units whole units.
func (b *Builder) Alloc(owner custody.Address, units uint64) *Builder {
	b.allocs = append(b.allocs, alloc{owner, units})
	return b
}

// RewardVault funds the reward vault with units whole units.
func (b *Builder) RewardVault(units uint64) *Builder {
	b.rewardUnits = units
	return b
}

// ComputeID computes genesis id.
func (b *Builder) ComputeID() (custody.Bytes32, error) {
	data, err := rlp.EncodeToBytes([]any{
		b.decimals,
		b.launchTime,
		b.rewardUnits,
		b.allocs,
	})
	if err != nil {
		return custody.Bytes32{}, err
	}
	return custody.Blake2b(data), nil
}

// Build writes the initial ledger into db.
// A ledger built before by the same builder is loaded instead.
func (b *Builder) Build(db *state.Committer) (*Genesis, error) {
	id, err := b.ComputeID()
	if err != nil {
		return nil, err
	}

	st := state.New(db)
	var existing Genesis
	found, err := st.DecodeRecord(genesisKey, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		if existing.ID != id {
			return nil, errors.WithMessagef(ErrMismatch, "want %v, got %v", id, existing.ID)
		}
		return &existing, nil
	}

	mint, err := pda.Find(custody.TokenProgramID, []byte("mint"), id.Bytes())
	if err != nil {
		return nil, err
	}
	authority, err := pda.Find(custody.TokenProgramID, []byte("mint_authority"), mint.Address.Bytes())
	if err != nil {
		return nil, err
	}
	gen := &Genesis{
		ID:         id,
		Mint:       mint.Address,
		Decimals:   b.decimals,
		LaunchTime: b.launchTime,
	}

	tokens := token.New(st)
	if err := tokens.CreateMint(gen.Mint, gen.Decimals, authority.Address); err != nil {
		return nil, err
	}
	mintUnits := func(to custody.Address, units uint64) error {
		scaled, err := staking.Scale(units, gen.Decimals)
		if err != nil {
			return err
		}
		return tokens.MintTo(gen.Mint, to, token.DerivedAuthority(authority), scaled)
	}

	for _, a := range b.allocs {
		wallet, err := pda.AssociatedAccount(a.Owner, gen.Mint)
		if err != nil {
			return nil, err
		}
		if _, err := tokens.InitializeAccount(wallet.Address, gen.Mint, a.Owner); err != nil {
			return nil, err
		}
		if err := mintUnits(wallet.Address, a.Units); err != nil {
			return nil, errors.WithMessagef(err, "alloc %v", a.Owner)
		}
	}

	stk := staking.New(st, tokens, clock.Fixed(0), gen.Mint, staking.DefaultConfig())
	if _, err := stk.Initialize(custody.Address{}); err != nil {
		return nil, err
	}
	vault, err := pda.RewardVault()
	if err != nil {
		return nil, err
	}
	if err := mintUnits(vault.Address, b.rewardUnits); err != nil {
		return nil, errors.WithMessage(err, "fund reward vault")
	}

	if err := st.EncodeRecord(genesisKey, gen); err != nil {
		return nil, err
	}
	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("genesis built", "id", id, "mint", gen.Mint, "accounts", len(b.allocs), "reward", b.rewardUnits)
	return gen, nil
}

// Load reads the genesis of the ledger in db.
func Load(db *state.Committer) (*Genesis, bool, error) {
	var gen Genesis
	found, err := state.New(db).DecodeRecord(genesisKey, &gen)
	if err != nil {
		return nil, false, err
	}
	return &gen, found, nil
}
