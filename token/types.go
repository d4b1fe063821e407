// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/pda"
)

// Mint describes a fungible asset.
type Mint struct {
	Decimals  uint8
	Supply    uint64
	Authority custody.Address // allowed to mint new supply
}

// Account holds a balance of one mint.
type Account struct {
	Mint   custody.Address
	Owner  custody.Address // allowed to move funds out
	Amount uint64          // in base units
}

// Authority is the proof presented to move funds out of an account.
type Authority struct {
	signer  custody.Address
	program custody.Address
	seeds   [][]byte
	bump    byte
	derived bool
}

// UserAuthority is the authority of a verified transaction signer.
func UserAuthority(signer custody.Address) Authority {
	return Authority{signer: signer}
}

// ProgramAuthority is the authority of program over the address derived from seeds and bump.
func ProgramAuthority(program custody.Address, seeds [][]byte, bump byte) Authority {
	return Authority{
		program: program,
		seeds:   seeds,
		bump:    bump,
		derived: true,
	}
}

// DerivedAuthority is the program authority of a derived address.
func DerivedAuthority(d pda.Derived) Authority {
	return ProgramAuthority(d.Program, d.Seeds, d.Bump)
}

// Authorizes returns whether the authority can act as owner.
func (a Authority) Authorizes(owner custody.Address) bool {
	if a.derived {
		return pda.Verify(a.program, a.seeds, a.bump, owner)
	}
	return !a.signer.IsZero() && a.signer == owner
}

// IsProgram returns whether it is a program authority.
func (a Authority) IsProgram() bool {
	return a.derived
}
