// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferlog

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/tx"
)

var (
	alice = custody.BytesToAddress([]byte("alice"))
	bob   = custody.BytesToAddress([]byte("bob"))
	vault = custody.BytesToAddress([]byte("vault"))
)

func newTestLog(t *testing.T) *TransferLog {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func receipt(n byte, signer custody.Address, slot uint64, op tx.Op, transfers ...staking.Transfer) *processor.Receipt {
	return &processor.Receipt{
		TxID:      custody.BytesToBytes32([]byte{n}),
		Signer:    signer,
		Op:        op,
		Slot:      slot,
		Transfers: transfers,
	}
}

func seed(t *testing.T, db *TransferLog) {
	for _, r := range []*processor.Receipt{
		receipt(1, alice, 10, tx.OpStake, staking.Transfer{From: alice, To: vault, Amount: 5}),
		receipt(2, bob, 11, tx.OpStake, staking.Transfer{From: bob, To: vault, Amount: 7}),
		receipt(3, alice, 20, tx.OpDestake,
			staking.Transfer{From: vault, To: alice, Amount: 10},
			staking.Transfer{From: vault, To: alice, Amount: math.MaxUint64}),
	} {
		require.NoError(t, db.Insert(context.Background(), FromReceipt(r)))
	}
}

func u64(v uint64) *uint64 { return &v }

func TestFilter(t *testing.T) {
	db := newTestLog(t)
	seed(t, db)

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, uint64(10), all[0].Slot)
	assert.Equal(t, "stake", all[0].Op)
	assert.Equal(t, uint64(math.MaxUint64), all[3].Amount)
	assert.Equal(t, uint32(1), all[3].Index)

	txID := custody.BytesToBytes32([]byte{3})
	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"address", &Filter{Address: &alice}, 3},
		{"address on either side", &Filter{Address: &vault}, 4},
		{"signer", &Filter{Signer: &bob}, 1},
		{"tx id", &Filter{TxID: &txID}, 2},
		{"range", &Filter{Range: &Range{From: u64(11), To: u64(19)}}, 1},
		{"open range", &Filter{Range: &Range{From: u64(12)}}, 2},
		{"huge bound", &Filter{Range: &Range{To: u64(math.MaxUint64)}}, 4},
		{"limit", &Filter{Options: &Options{Limit: 2}}, 2},
		{"offset", &Filter{Options: &Options{Offset: 3}}, 1},
		{"no match", &Filter{Address: &bob, Range: &Range{From: u64(12)}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Filter(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	desc, err := db.Filter(context.Background(), &Filter{Order: DESC})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), desc[0].Slot)
	assert.Equal(t, uint64(10), desc[3].Slot)
}

func TestInsertIdempotent(t *testing.T) {
	db := newTestLog(t)
	seed(t, db)
	seed(t, db)

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, db.Insert(context.Background(), nil))
}

func TestPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transfers.db")
	db, err := New(path)
	require.NoError(t, err)
	seed(t, db)
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

type feedSource struct {
	feed event.Feed
}

func (s *feedSource) SubscribeReceipts(ch chan *processor.Receipt) event.Subscription {
	return s.feed.Subscribe(ch)
}

func TestFollow(t *testing.T) {
	db := newTestLog(t)
	src := &feedSource{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- db.Follow(ctx, src) }()

	r := receipt(1, alice, 10, tx.OpStake, staking.Transfer{From: alice, To: vault, Amount: 5})
	// sent to nobody until the follower subscribed
	require.Eventually(t, func() bool { return src.feed.Send(r) == 1 }, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		all, err := db.Filter(context.Background(), nil)
		return err == nil && len(all) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("follow not stopped")
	}
}
