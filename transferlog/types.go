// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

import (
	"fmt"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
)

// Transfer is a token movement made by an executed tx.
type Transfer struct {
	TxID   custody.Bytes32
	Index  uint32
	Slot   uint64
	Op     string
	Signer custody.Address
	From   custody.Address
	To     custody.Address
	Amount uint64
}

// FromReceipt returns the transfers carried by receipt.
func FromReceipt(receipt *processor.Receipt) []*Transfer {
	transfers := make([]*Transfer, 0, len(receipt.Transfers))
	for i, t := range receipt.Transfers {
		transfers = append(transfers, &Transfer{
			TxID:   receipt.TxID,
			Index:  uint32(i),
			Slot:   receipt.Slot,
			Op:     receipt.Op.String(),
			Signer: receipt.Signer,
			From:   t.From,
			To:     t.To,
			Amount: t.Amount,
		})
	}
	return transfers
}

func (t *Transfer) String() string {
	return fmt.Sprintf(`Transfer(
	txID:   %v,
	index:  %v,
	slot:   %v,
	op:     %v,
	signer: %v,
	from:   %v,
	to:     %v,
	amount: %v)`,
		t.TxID,
		t.Index,
		t.Slot,
		t.Op,
		t.Signer,
		t.From,
		t.To,
		t.Amount)
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive slot range. A nil bound is open.
type Range struct {
	From *uint64
	To   *uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects transfers. Empty conditions match all.
type Filter struct {
	// Address matches either side of a transfer.
	Address *custody.Address
	Signer  *custody.Address
	TxID    *custody.Bytes32
	Range   *Range
	Options *Options
	Order   Order
}
