// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package processor executes signed staking transactions against the ledger.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/token"
	"github.com/vechain/stakevault/tx"
)

const (
	txBucket = kv.Bucket("processor.tx.")

	// DefaultMaxRetries is the default count of replays after commit conflicts.
	DefaultMaxRetries = 8

	knownCacheSize = 4096
)

var (
	ErrKnownTx          = errors.New("processor: known tx")
	ErrChainTagMismatch = errors.New("processor: chain tag mismatch")
	ErrUnknownOp        = errors.New("processor: unknown op")

	logger = log.WithContext("pkg", "processor")
)

// Options configures a processor.
type Options struct {
	ChainTag   byte
	Mint       custody.Address
	Staking    staking.Config
	MaxRetries int
}

// Receipt is the outcome of an executed tx.
type Receipt struct {
	TxID      custody.Bytes32
	Signer    custody.Address
	Op        tx.Op
	Slot      uint64
	Reward    uint64
	Transfers []staking.Transfer
}

// Processor executes txs. It's safe for concurrent use.
type Processor struct {
	db    *state.Committer
	clock clock.Clock
	opts  Options
	known *lru.Cache

	receiptFeed event.Feed
	scope       event.SubscriptionScope

	// receipts queued in commit order, sent by publishLoop
	pubLock   sync.Mutex
	pending   []*Receipt
	notify    chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a processor.
func New(db *state.Committer, c clock.Clock, opts Options) *Processor {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	known, _ := lru.New(knownCacheSize)
	p := &Processor{
		db:     db,
		clock:  c,
		opts:   opts,
		known:  known,
		notify: make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.publishLoop()
	return p
}

// SubscribeReceipts receivers will receive receipts of executed txs.
func (p *Processor) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return p.scope.Track(p.receiptFeed.Subscribe(ch))
}

// Close ends all subscriptions and stops publishing receipts.
// Receipts still queued are dropped.
func (p *Processor) Close() {
	p.closeOnce.Do(func() {
		p.scope.Close()
		close(p.quit)
		<-p.done
		logger.Debug("closed")
	})
}

// enqueue queues r for publishing. It never blocks.
func (p *Processor) enqueue(r *Receipt) {
	p.pubLock.Lock()
	p.pending = append(p.pending, r)
	p.pubLock.Unlock()

	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// publishLoop sends queued receipts one by one, so subscribers see them in
// commit order.
func (p *Processor) publishLoop() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		case <-p.notify:
		}
		for {
			p.pubLock.Lock()
			batch := p.pending
			p.pending = nil
			p.pubLock.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, r := range batch {
				select {
				case <-p.quit:
					return
				default:
				}
				p.receiptFeed.Send(r)
			}
		}
	}
}

// Execute runs trx atomically. Nothing is written if it fails.
func (p *Processor) Execute(ctx context.Context, trx *tx.Transaction) (receipt *Receipt, err error) {
	startTime := time.Now()
	defer func() {
		result := "ok"
		switch {
		case err == nil:
		case staking.IsStakingErr(err):
			result = "rejected"
		default:
			result = "failed"
		}
		metricTxCount().AddWithLabel(1, map[string]string{"op": trx.Op().String(), "result": result})
		metricTxDuration().ObserveWithLabels(time.Since(startTime).Microseconds(), map[string]string{"op": trx.Op().String()})
	}()

	if trx.ChainTag() != p.opts.ChainTag {
		return nil, errors.WithMessagef(ErrChainTagMismatch, "want %d, got %d", p.opts.ChainTag, trx.ChainTag())
	}
	if !trx.Op().IsValid() {
		return nil, errors.WithMessage(ErrUnknownOp, trx.Op().String())
	}
	signer, err := trx.Signer()
	if err != nil {
		return nil, err
	}
	id, err := trx.ID()
	if err != nil {
		return nil, err
	}
	if p.known.Contains(id) {
		return nil, errors.WithMessage(ErrKnownTx, id.String())
	}

	defer func() {
		if err == nil {
			p.known.Add(id, struct{}{})
		}
	}()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		receipt, err = p.execute(trx, id, signer)
		if !errors.Is(err, state.ErrConflict) {
			return receipt, err
		}
		metricConflicts().Add(1)
		if attempt >= p.opts.MaxRetries {
			logger.Warn("too many conflicts", "txid", id, "attempts", attempt+1)
			return nil, errors.WithMessagef(err, "after %d attempts", attempt+1)
		}
		logger.Debug("commit conflict, retrying", "txid", id, "attempt", attempt)
	}
}

// execute runs trx on a new state and commits it.
func (p *Processor) execute(trx *tx.Transaction, id custody.Bytes32, signer custody.Address) (*Receipt, error) {
	var (
		st     = state.New(p.db)
		slot   = p.clock.Slot()
		txKey  = state.NewKey(txBucket, id.Bytes())
		tokens = token.New(st)
		stk    = staking.New(st, tokens, clock.Fixed(slot), p.opts.Mint, p.opts.Staking)
	)

	known, err := st.Has(txKey)
	if err != nil {
		return nil, err
	}
	if known {
		return nil, errors.WithMessage(ErrKnownTx, id.String())
	}

	var r *staking.Receipt
	switch trx.Op() {
	case tx.OpInitialize:
		r, err = stk.Initialize(signer)
	case tx.OpStake:
		r, err = stk.Stake(signer, trx.Amount())
	case tx.OpDestake:
		r, err = stk.Destake(signer, trx.Amount())
	}
	if err != nil {
		return nil, err
	}
	st.Set(txKey, []byte{byte(trx.Op())})

	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{
		TxID:      id,
		Signer:    signer,
		Op:        trx.Op(),
		Slot:      slot,
		Reward:    r.Reward,
		Transfers: r.Transfers,
	}
	// queued under the commit lock, so in commit order
	if err := stage.Commit(func() { p.enqueue(receipt) }); err != nil {
		return nil, err
	}

	logger.Debug("tx executed", "txid", id, "signer", signer, "op", trx.Op(), "amount", trx.Amount(), "slot", slot)
	return receipt, nil
}

// IsKnown returns whether the tx with id was executed.
func (p *Processor) IsKnown(id custody.Bytes32) (bool, error) {
	if p.known.Contains(id) {
		return true, nil
	}
	return state.New(p.db).Has(state.NewKey(txBucket, id.Bytes()))
}

// View calls fn with a staking program on a consistent read only view of the ledger.
func (p *Processor) View(fn func(s *staking.Staking, tokens *token.Service) error) error {
	snap, err := p.db.Store().Snapshot()
	if err != nil {
		return err
	}
	defer snap.Release()

	st := state.NewView(snap)
	tokens := token.New(st)
	return fn(staking.New(st, tokens, p.clock, p.opts.Mint, p.opts.Staking), tokens)
}

// Slot returns the current ledger slot.
func (p *Processor) Slot() uint64 {
	return p.clock.Slot()
}

// Mint returns the staked mint.
func (p *Processor) Mint() custody.Address {
	return p.opts.Mint
}
