// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/tx"
)

// RawTx represents a raw transaction.
type RawTx struct {
	Raw string `json:"raw"`
}

// Transfer is a token movement made by a tx.
type Transfer struct {
	From   custody.Address `json:"from"`
	To     custody.Address `json:"to"`
	Amount uint64          `json:"amount"`
}

// Receipt for json marshal.
type Receipt struct {
	TxID      custody.Bytes32 `json:"txID"`
	Signer    custody.Address `json:"signer"`
	Op        tx.Op           `json:"op"`
	Slot      uint64          `json:"slot"`
	Reward    uint64          `json:"reward"`
	Transfers []*Transfer     `json:"transfers"`
}

// TxStatus tells whether a tx is executed.
type TxStatus struct {
	ID    custody.Bytes32 `json:"id"`
	Known bool            `json:"known"`
}

// ConvertReceipt converts a processor receipt for json marshal.
func ConvertReceipt(r *processor.Receipt) *Receipt {
	receipt := &Receipt{
		TxID:      r.TxID,
		Signer:    r.Signer,
		Op:        r.Op,
		Slot:      r.Slot,
		Reward:    r.Reward,
		Transfers: make([]*Transfer, 0, len(r.Transfers)),
	}
	for _, t := range r.Transfers {
		receipt.Transfers = append(receipt.Transfers, &Transfer{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount,
		})
	}
	return receipt
}
