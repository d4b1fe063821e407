// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the staking program: users lock tokens into a
// personal vault and get them back together with a flat per slot reward
// paid from the reward vault.
package staking

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/token"
)

var logger = log.WithContext("pkg", "staking")

// Staking runs staking operations on a state.
type Staking struct {
	state   *state.State
	tokens  *token.Service
	clock   clock.Clock
	mint    custody.Address
	cfg     Config
	storage storage
	orch    orchestrator
}

// New create a new instance.
func New(state *state.State, tokens *token.Service, clock clock.Clock, mint custody.Address, cfg Config) *Staking {
	return &Staking{
		state:   state,
		tokens:  tokens,
		clock:   clock,
		mint:    mint,
		cfg:     cfg,
		storage: storage{state},
		orch:    orchestrator{tokens},
	}
}

// atomic runs fn and reverts every change made by it if it fails.
func (s *Staking) atomic(fn func() error) error {
	chk := s.state.NewCheckpoint()
	if err := fn(); err != nil {
		s.state.RevertTo(chk)
		return err
	}
	return nil
}

//
// Getters - no state change
//

// StakeInfo returns the stake entry of user. The entry is empty if never created.
func (s *Staking) StakeInfo(user custody.Address) (*StakeInfo, error) {
	d, err := pda.StakeInfo(user)
	if err != nil {
		return nil, err
	}
	return s.storage.getStakeInfo(d.Address)
}

// RewardVault returns the reward vault and its account.
func (s *Staking) RewardVault() (pda.Derived, *token.Account, error) {
	d, err := pda.RewardVault()
	if err != nil {
		return pda.Derived{}, nil, err
	}
	acc, err := s.tokens.Account(d.Address)
	if err != nil {
		return pda.Derived{}, nil, err
	}
	return d, acc, nil
}

// StakeVault returns the personal stake vault of user and its account.
func (s *Staking) StakeVault(user custody.Address) (pda.Derived, *token.Account, error) {
	d, err := pda.StakeVault(user)
	if err != nil {
		return pda.Derived{}, nil, err
	}
	acc, err := s.tokens.Account(d.Address)
	if err != nil {
		return pda.Derived{}, nil, err
	}
	return d, acc, nil
}

// PendingReward returns the reward user would be paid by a destake now.
func (s *Staking) PendingReward(user custody.Address) (uint64, error) {
	info, err := s.StakeInfo(user)
	if err != nil {
		return 0, err
	}
	if !info.IsStaked {
		return 0, nil
	}
	m, err := s.tokens.Mint(s.mint)
	if err != nil {
		return 0, err
	}
	return Reward(elapsed(info, s.clock.Slot()), m.Decimals)
}

func elapsed(info *StakeInfo, now uint64) uint64 {
	if now < info.StakeAtSlot {
		return 0
	}
	return now - info.StakeAtSlot
}

//
// Operations
//

// Initialize creates the reward vault if absent.
func (s *Staking) Initialize(caller custody.Address) (*Receipt, error) {
	vault, err := pda.RewardVault()
	if err != nil {
		return nil, err
	}

	var created bool
	err = s.atomic(func() (err error) {
		created, err = s.tokens.InitializeAccount(vault.Address, s.mint, vault.Address)
		return
	})
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("reward vault initialized", "vault", vault, "caller", caller)
	}
	return &Receipt{}, nil
}

// Stake moves amount whole units from the caller's wallet to the caller's stake vault.
func (s *Staking) Stake(caller custody.Address, amount uint64) (*Receipt, error) {
	logger.Debug("staking", "caller", caller, "amount", amount)

	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	m, err := s.tokens.Mint(s.mint)
	if err != nil {
		return nil, err
	}
	scaled, err := Scale(amount, m.Decimals)
	if err != nil {
		return nil, err
	}
	wallet, err := pda.AssociatedAccount(caller, s.mint)
	if err != nil {
		return nil, err
	}
	if err := s.checkBalance(wallet.Address, scaled); err != nil {
		return nil, err
	}
	infoAddr, err := pda.StakeInfo(caller)
	if err != nil {
		return nil, err
	}
	vault, err := pda.StakeVault(caller)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{}
	err = s.atomic(func() error {
		info, err := s.storage.getStakeInfo(infoAddr.Address)
		if err != nil {
			return err
		}
		if _, err := s.tokens.InitializeAccount(vault.Address, s.mint, vault.Address); err != nil {
			return err
		}
		if info.IsStaked && !s.cfg.AllowTopUp {
			return ErrAlreadyStaked
		}
		if info.StakeAmount > math.MaxUint64-amount {
			return newError(ArithmeticOverflow, "stake amount %d + %d", info.StakeAmount, amount)
		}

		info.StakeAtSlot = s.clock.Slot()
		info.IsStaked = true
		info.StakeAmount += amount
		if err := s.storage.setStakeInfo(infoAddr.Address, info); err != nil {
			return err
		}

		if err := s.tokens.Transfer(wallet.Address, vault.Address, token.UserAuthority(caller), scaled); err != nil {
			return errors.WithMessage(err, "lock principal")
		}
		receipt.Transfers = append(receipt.Transfers, Transfer{wallet.Address, vault.Address, scaled})
		return nil
	})
	if err != nil {
		logger.Debug("stake failed", "caller", caller, "amount", amount, "error", err)
		return nil, err
	}

	logger.Info("staked", "caller", caller, "amount", amount, "vault", vault.Address)
	return receipt, nil
}

// Destake returns principal and pays the reward accrued since the stake period began.
func (s *Staking) Destake(caller custody.Address, amount uint64) (*Receipt, error) {
	logger.Debug("destaking", "caller", caller, "amount", amount)

	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	infoAddr, err := pda.StakeInfo(caller)
	if err != nil {
		return nil, err
	}
	info, err := s.storage.getStakeInfo(infoAddr.Address)
	if err != nil {
		return nil, err
	}
	if info.IsEmpty() {
		return nil, newError(NotStaked, "no stake entry")
	}
	if !info.IsStaked && !s.cfg.AllowTopUp {
		return nil, ErrNotStaked
	}

	m, err := s.tokens.Mint(s.mint)
	if err != nil {
		return nil, err
	}
	scaled, err := Scale(amount, m.Decimals)
	if err != nil {
		return nil, err
	}
	vault, err := pda.StakeVault(caller)
	if err != nil {
		return nil, err
	}
	if err := s.checkBalance(vault.Address, scaled); err != nil {
		return nil, err
	}
	if amount > info.StakeAmount {
		return nil, newError(InsufficientFunds, "staked %d, want %d", info.StakeAmount, amount)
	}

	now := s.clock.Slot()
	periods := elapsed(info, now)
	if s.cfg.MinimumHoldPeriod > 0 && periods < s.cfg.MinimumHoldPeriod {
		return nil, newError(StakeNotMatured, "held %d of %d slots", periods, s.cfg.MinimumHoldPeriod)
	}

	var principal uint64
	switch s.cfg.WithdrawMode {
	case WithdrawRecorded:
		if principal, err = Scale(info.StakeAmount, m.Decimals); err != nil {
			return nil, err
		}
	case WithdrawFull:
		if amount != info.StakeAmount {
			return nil, newError(PartialWithdrawal, "staked %d, want %d", info.StakeAmount, amount)
		}
		principal = scaled
	default:
		principal = scaled
	}

	reward, err := Reward(periods, m.Decimals)
	if err != nil {
		return nil, err
	}
	rewardVault, err := pda.RewardVault()
	if err != nil {
		return nil, err
	}
	wallet, err := pda.AssociatedAccount(caller, s.mint)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{Reward: reward}
	err = s.atomic(func() error {
		if _, err := s.tokens.InitializeAccount(wallet.Address, s.mint, caller); err != nil {
			return err
		}
		transfers, err := s.orch.payout(rewardVault, vault, wallet.Address, reward, principal)
		if err != nil {
			return err
		}
		receipt.Transfers = transfers

		info.StakeAmount -= amount
		info.StakeAtSlot = now
		info.IsStaked = info.StakeAmount > 0
		return s.storage.setStakeInfo(infoAddr.Address, info)
	})
	if err != nil {
		logger.Info("destake failed", "caller", caller, "amount", amount, "error", err)
		return nil, err
	}

	logger.Info("destaked", "caller", caller, "amount", amount, "reward", reward, "principal", principal)
	return receipt, nil
}

// checkBalance fails with ErrInsufficientFunds if the account at addr holds less than amount.
// A missing account holds nothing.
func (s *Staking) checkBalance(addr custody.Address, amount uint64) error {
	acc, err := s.tokens.Account(addr)
	if err != nil {
		if errors.Is(err, token.ErrAccountNotFound) {
			return newError(InsufficientFunds, "no account %v", addr)
		}
		return err
	}
	if acc.Amount < amount {
		return newError(InsufficientFunds, "%v has %d, want %d", addr, acc.Amount, amount)
	}
	return nil
}
