// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the asset registry and token transfer service.
package token

import (
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/state"
)

const (
	mintBucket    = kv.Bucket("token.mint.")
	accountBucket = kv.Bucket("token.account.")
)

var logger = log.WithContext("pkg", "token")

// Service moves tokens between accounts held in state.
type Service struct {
	state *state.State
}

// New creates a token service on state.
func New(st *state.State) *Service {
	return &Service{st}
}

func mintKey(addr custody.Address) state.Key {
	return state.NewKey(mintBucket, addr.Bytes())
}

func accountKey(addr custody.Address) state.Key {
	return state.NewKey(accountBucket, addr.Bytes())
}

// CreateMint registers a new mint.
func (s *Service) CreateMint(addr custody.Address, decimals uint8, authority custody.Address) error {
	if decimals > custody.MaxDecimals {
		return errors.WithMessagef(ErrInvalidDecimals, "%d", decimals)
	}
	exists, err := s.state.Has(mintKey(addr))
	if err != nil {
		return err
	}
	if exists {
		return errors.WithMessage(ErrMintExists, addr.String())
	}
	return s.state.EncodeRecord(mintKey(addr), &Mint{Decimals: decimals, Authority: authority})
}

// Mint returns the mint at addr.
func (s *Service) Mint(addr custody.Address) (*Mint, error) {
	var m Mint
	found, err := s.state.DecodeRecord(mintKey(addr), &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.WithMessage(ErrMintNotFound, addr.String())
	}
	return &m, nil
}

// Account returns the token account at addr.
func (s *Service) Account(addr custody.Address) (*Account, error) {
	var acc Account
	found, err := s.state.DecodeRecord(accountKey(addr), &acc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.WithMessage(ErrAccountNotFound, addr.String())
	}
	return &acc, nil
}

// Exists returns whether a token account is at addr.
func (s *Service) Exists(addr custody.Address) (bool, error) {
	return s.state.Has(accountKey(addr))
}

func (s *Service) setAccount(addr custody.Address, acc *Account) error {
	return s.state.EncodeRecord(accountKey(addr), acc)
}

// InitializeAccount creates an empty account at addr, if absent.
// It returns whether the account is newly created. An existing account must be of mint.
func (s *Service) InitializeAccount(addr, mint, owner custody.Address) (bool, error) {
	if _, err := s.Mint(mint); err != nil {
		return false, err
	}
	acc, err := s.Account(addr)
	if err == nil {
		if acc.Mint != mint {
			return false, errors.WithMessage(ErrMintMismatch, addr.String())
		}
		return false, nil
	}
	if errors.Cause(err) != ErrAccountNotFound {
		return false, err
	}

	if err := s.setAccount(addr, &Account{Mint: mint, Owner: owner}); err != nil {
		return false, err
	}
	logger.Debug("account initialized", "addr", addr, "mint", mint, "owner", owner)
	return true, nil
}

// Transfer moves amount base units from one account to another.
// The authority must be allowed to act as owner of the source account.
func (s *Service) Transfer(from, to custody.Address, authority Authority, amount uint64) error {
	src, err := s.Account(from)
	if err != nil {
		return err
	}
	dst, err := s.Account(to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return errors.WithMessagef(ErrMintMismatch, "%v -> %v", from, to)
	}
	if !authority.Authorizes(src.Owner) {
		return errors.WithMessage(ErrOwnerMismatch, from.String())
	}
	if src.Amount < amount {
		return errors.WithMessagef(ErrInsufficientBalance, "%v has %d, want %d", from, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.WithMessage(ErrOverflow, to.String())
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := s.setAccount(from, src); err != nil {
		return err
	}
	if err := s.setAccount(to, dst); err != nil {
		return err
	}
	logger.Debug("transferred", "from", from, "to", to, "amount", amount, "program", authority.IsProgram())
	return nil
}

// MintTo creates amount base units of new supply into account to.
func (s *Service) MintTo(mint, to custody.Address, authority Authority, amount uint64) error {
	m, err := s.Mint(mint)
	if err != nil {
		return err
	}
	if !authority.Authorizes(m.Authority) {
		return errors.WithMessage(ErrOwnerMismatch, mint.String())
	}
	dst, err := s.Account(to)
	if err != nil {
		return err
	}
	if dst.Mint != mint {
		return errors.WithMessage(ErrMintMismatch, to.String())
	}
	if m.Supply > math.MaxUint64-amount || dst.Amount > math.MaxUint64-amount {
		return errors.WithMessage(ErrOverflow, mint.String())
	}

	m.Supply += amount
	dst.Amount += amount
	if err := s.state.EncodeRecord(mintKey(mint), m); err != nil {
		return err
	}
	return s.setAccount(to, dst)
}

// ForEachAccount iterates committed token accounts in store.
func ForEachAccount(store kv.Store, fn func(addr custody.Address, acc *Account) bool) error {
	var decodeErr error
	err := state.ForEach(store, accountBucket, func(id, data []byte) bool {
		var acc Account
		if decodeErr = rlp.DecodeBytes(data, &acc); decodeErr != nil {
			return false
		}
		return fn(custody.BytesToAddress(id), &acc)
	})
	if err != nil {
		return err
	}
	return decodeErr
}
