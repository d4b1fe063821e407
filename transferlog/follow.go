// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/stakevault/processor"
)

// ReceiptSource publishes receipts of executed txs.
type ReceiptSource interface {
	SubscribeReceipts(ch chan *processor.Receipt) event.Subscription
}

// Follow logs transfers of receipts published by src until ctx is done
// or the subscription ends.
func (db *TransferLog) Follow(ctx context.Context, src ReceiptSource) error {
	ch := make(chan *processor.Receipt, 64)
	sub := src.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case receipt := <-ch:
			if err := db.Insert(ctx, FromReceipt(receipt)); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("failed to log transfers", "txid", receipt.TxID, "err", err)
			}
		}
	}
}
