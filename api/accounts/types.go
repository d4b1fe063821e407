// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/token"
)

// Account for json marshal.
type Account struct {
	Address custody.Address `json:"address"`
	Mint    custody.Address `json:"mint"`
	Owner   custody.Address `json:"owner"`
	Amount  uint64          `json:"amount"`
}

func convertAccount(addr custody.Address, acc *token.Account) *Account {
	return &Account{
		Address: addr,
		Mint:    acc.Mint,
		Owner:   acc.Owner,
		Amount:  acc.Amount,
	}
}
