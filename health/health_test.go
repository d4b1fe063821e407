// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
)

func TestHealth_NewTx(t *testing.T) {
	h := New()
	id := custody.Bytes32{0x01, 0x02, 0x03}

	assert.Nil(t, h.Status().TxIngestion)

	h.NewTx(id, 7)

	status := h.Status()
	require.NotNil(t, status.TxIngestion)
	assert.Equal(t, id, status.TxIngestion.ID)
	assert.Equal(t, uint64(7), status.TxIngestion.Slot)
	assert.WithinDuration(t, time.Now(), status.TxIngestion.Timestamp, time.Second)
	assert.True(t, status.Healthy)
}

func TestHealth_NewTxKeepsLatestSlot(t *testing.T) {
	h := New()
	id1 := custody.Bytes32{0x01}
	id2 := custody.Bytes32{0x02}
	id3 := custody.Bytes32{0x03}

	h.NewTx(id1, 7)
	h.NewTx(id2, 5)
	assert.Equal(t, id1, h.Status().TxIngestion.ID)

	// same slot still advances
	h.NewTx(id3, 7)
	assert.Equal(t, id3, h.Status().TxIngestion.ID)
}

func TestHealth_ClockSyncStatus(t *testing.T) {
	h := New()
	assert.True(t, h.Status().ClockSynced)

	h.ClockSyncStatus(false)
	status := h.Status()
	assert.False(t, status.ClockSynced)
	assert.False(t, status.Healthy)

	h.ClockSyncStatus(true)
	assert.True(t, h.Status().Healthy)
}

type feedSource struct {
	feed event.Feed
}

func (f *feedSource) SubscribeReceipts(ch chan *processor.Receipt) event.Subscription {
	return f.feed.Subscribe(ch)
}

func TestHealth_Follow(t *testing.T) {
	h := New()
	src := &feedSource{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Follow(ctx, src) }()

	id := custody.Bytes32{0xaa}
	require.Eventually(t, func() bool {
		return src.feed.Send(&processor.Receipt{TxID: id, Slot: 3}) > 0
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		last := h.Status().TxIngestion
		return last != nil && last.ID == id
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
