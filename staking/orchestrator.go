// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/token"
)

// orchestrator moves funds out of program vaults.
// Vaults are always signed for with their derivation proof.
type orchestrator struct {
	tokens *token.Service
}

// payout pays reward from the reward vault, then principal from the stake vault, to dst.
// It stops at the first failed transfer.
func (o orchestrator) payout(rewardVault, stakeVault pda.Derived, dst custody.Address, reward, principal uint64) ([]Transfer, error) {
	transfers := make([]Transfer, 0, 2)

	if err := o.transfer(rewardVault, dst, reward); err != nil {
		return nil, errors.WithMessage(err, "pay reward")
	}
	transfers = append(transfers, Transfer{rewardVault.Address, dst, reward})

	if err := o.transfer(stakeVault, dst, principal); err != nil {
		return nil, errors.WithMessage(err, "return principal")
	}
	transfers = append(transfers, Transfer{stakeVault.Address, dst, principal})

	return transfers, nil
}

func (o orchestrator) transfer(src pda.Derived, dst custody.Address, amount uint64) error {
	err := o.tokens.Transfer(src.Address, dst, token.DerivedAuthority(src), amount)
	if errors.Is(err, token.ErrInsufficientBalance) {
		return newError(InsufficientFunds, "%v", err)
	}
	return err
}
