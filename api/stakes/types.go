// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/vechain/stakevault/custody"
)

// Stake is the stake entry of a user along with its vault.
type Stake struct {
	User          custody.Address `json:"user"`
	Entry         custody.Address `json:"entry"`
	Created       bool            `json:"created"`
	IsStaked      bool            `json:"isStaked"`
	StakeAtSlot   uint64          `json:"stakeAtSlot"`
	StakeAmount   uint64          `json:"stakeAmount"`
	Vault         custody.Address `json:"vault"`
	VaultBalance  uint64          `json:"vaultBalance"`
	PendingReward uint64          `json:"pendingReward"`
}

// Vault is the program reward vault.
type Vault struct {
	Address custody.Address `json:"address"`
	Bump    uint8           `json:"bump"`
	Balance uint64          `json:"balance"`
}
