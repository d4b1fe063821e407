// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/stakevault/custody"
)

// StakeInfo is the stake ledger entry of a user.
type StakeInfo struct {
	StakeAtSlot uint64 // slot the open stake period began
	IsStaked    bool
	StakeAmount uint64 // whole units

	created bool
}

// IsEmpty returns whether the entry was never created.
func (s *StakeInfo) IsEmpty() bool {
	return !s.created
}

// Transfer is a token movement performed by an operation.
type Transfer struct {
	From   custody.Address
	To     custody.Address
	Amount uint64 // base units
}

// Receipt describes the outcome of an operation.
type Receipt struct {
	Transfers []Transfer
	Reward    uint64 // base units paid from the reward vault
}
