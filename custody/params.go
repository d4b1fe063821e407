// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

// Seed tags of program-derived addresses.
var (
	VaultSeed      = []byte("vault")
	StakeInfoSeed  = []byte("stake_info")
	TokenSeed      = []byte("token")
	AssociatedSeed = []byte("associated")
)

// Program ids. A program id is the namespace every derived address is computed under,
// so two programs never derive the same address from the same seeds.
var (
	StakingProgramID = BytesToAddress(Blake2b([]byte("staking-program")).Bytes())
	TokenProgramID   = BytesToAddress(Blake2b([]byte("token-program")).Bytes())
)

// RewardRate is the number of whole units paid per elapsed slot, regardless of
// the staked principal.
const RewardRate uint64 = 1

// MaxDecimals bounds the fractional scale of a mint. 10^20 overflows uint64.
const MaxDecimals uint8 = 19
