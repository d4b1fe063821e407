// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pda

import (
	"fmt"

	"github.com/vechain/stakevault/custody"
)

// Derived is a found program address together with the proof needed to sign for it.
type Derived struct {
	Program custody.Address
	Seeds   [][]byte
	Bump    byte
	Address custody.Address
}

func (d Derived) String() string {
	return fmt.Sprintf("%v(bump %d)", d.Address, d.Bump)
}

// Find derives the address for seeds under program.
func Find(program custody.Address, seeds ...[]byte) (Derived, error) {
	addr, bump, err := FindProgramAddress(program, seeds...)
	if err != nil {
		return Derived{}, err
	}
	return Derived{
		Program: program,
		Seeds:   seeds,
		Bump:    bump,
		Address: addr,
	}, nil
}

// RewardVault derives the global reward vault of the staking program.
func RewardVault() (Derived, error) {
	return Find(custody.StakingProgramID, custody.VaultSeed)
}

// StakeInfo derives the stake ledger entry address of user.
func StakeInfo(user custody.Address) (Derived, error) {
	return Find(custody.StakingProgramID, custody.StakeInfoSeed, user.Bytes())
}

// StakeVault derives the personal stake vault of user.
func StakeVault(user custody.Address) (Derived, error) {
	return Find(custody.StakingProgramID, custody.TokenSeed, user.Bytes())
}

// AssociatedAccount derives the token account holding owner's balance of mint.
func AssociatedAccount(owner, mint custody.Address) (Derived, error) {
	return Find(custody.TokenProgramID, custody.AssociatedSeed, owner.Bytes(), mint.Bytes())
}
