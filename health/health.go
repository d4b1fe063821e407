// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
)

type TxIngestion struct {
	ID        custody.Bytes32 `json:"id"`
	Slot      uint64          `json:"slot"`
	Timestamp time.Time       `json:"timestamp"`
}

type Status struct {
	Healthy     bool         `json:"healthy"`
	TxIngestion *TxIngestion `json:"txIngestion"`
	ClockSynced bool         `json:"clockSynced"`
}

// ReceiptSource publishes receipts of executed txs.
type ReceiptSource interface {
	SubscribeReceipts(ch chan *processor.Receipt) event.Subscription
}

// Health tracks liveness of the ledger node.
type Health struct {
	lock        sync.RWMutex
	lastTx      *TxIngestion
	clockSynced bool
}

// New returns a Health that reports the clock as synced until told otherwise.
func New() *Health {
	return &Health{clockSynced: true}
}

// NewTx records an executed tx. A tx of an older slot than the last one is ignored.
func (h *Health) NewTx(id custody.Bytes32, slot uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.lastTx != nil && slot < h.lastTx.Slot {
		return
	}
	h.lastTx = &TxIngestion{
		ID:        id,
		Slot:      slot,
		Timestamp: time.Now(),
	}
}

func (h *Health) ClockSyncStatus(synced bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockSynced = synced
}

// Status reports the node healthy while its wall clock agrees with ntp.
// Slots are derived from wall time, so a drifting clock stakes at wrong slots.
func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var last *TxIngestion
	if h.lastTx != nil {
		cpy := *h.lastTx
		last = &cpy
	}
	return &Status{
		Healthy:     h.clockSynced,
		TxIngestion: last,
		ClockSynced: h.clockSynced,
	}
}

// Follow records receipts published by src until ctx is done or the
// subscription ends.
func (h *Health) Follow(ctx context.Context, src ReceiptSource) error {
	ch := make(chan *processor.Receipt, 16)
	sub := src.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case receipt := <-ch:
			h.NewTx(receipt.TxID, receipt.Slot)
		}
	}
}
