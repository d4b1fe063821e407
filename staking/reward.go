// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakevault/custody"
)

var ten = uint256.NewInt(10)

// Scale converts whole units into base units of a mint with decimals.
func Scale(amount uint64, decimals uint8) (uint64, error) {
	unit := new(uint256.Int).Exp(ten, uint256.NewInt(uint64(decimals)))
	return mul(uint256.NewInt(amount), unit)
}

// Reward returns the base units earned over elapsed slots.
// It is flat per slot and independent of the staked principal.
func Reward(elapsed uint64, decimals uint8) (uint64, error) {
	units, err := mul(uint256.NewInt(elapsed), uint256.NewInt(custody.RewardRate))
	if err != nil {
		return 0, err
	}
	return Scale(units, decimals)
}

func mul(x, y *uint256.Int) (uint64, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow || !z.IsUint64() {
		return 0, newError(ArithmeticOverflow, "%v * %v", x.Dec(), y.Dec())
	}
	return z.Uint64(), nil
}
