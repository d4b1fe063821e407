// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/transferlog"
)

type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// TransferFilter is the request body of transfer log queries.
type TransferFilter struct {
	Address *custody.Address  `json:"address"`
	Signer  *custody.Address  `json:"signer"`
	TxID    *custody.Bytes32  `json:"txID"`
	Range   *Range            `json:"range"`
	Options *Options          `json:"options"`
	Order   transferlog.Order `json:"order"`
}

// FilteredTransfer for json marshal.
type FilteredTransfer struct {
	TxID   custody.Bytes32 `json:"txID"`
	Index  uint32          `json:"index"`
	Slot   uint64          `json:"slot"`
	Op     string          `json:"op"`
	Signer custody.Address `json:"signer"`
	From   custody.Address `json:"from"`
	To     custody.Address `json:"to"`
	Amount uint64          `json:"amount"`
}

func convertTransfer(t *transferlog.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		TxID:   t.TxID,
		Index:  t.Index,
		Slot:   t.Slot,
		Op:     t.Op,
		Signer: t.Signer,
		From:   t.From,
		To:     t.To,
		Amount: t.Amount,
	}
}
