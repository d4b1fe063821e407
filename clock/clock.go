// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the ledger slot counter.
package clock

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Clock returns the current ledger slot. The slot never decreases.
type Clock interface {
	Slot() uint64
}

// Fixed is a clock stopped at a slot.
type Fixed uint64

// Slot implements Clock.
func (f Fixed) Slot() uint64 {
	return uint64(f)
}

// Manual is a clock advanced by hand. The zero value is at slot 0.
type Manual struct {
	lock sync.Mutex
	slot uint64
}

// NewManual creates a manual clock at slot.
func NewManual(slot uint64) *Manual {
	return &Manual{slot: slot}
}

// Slot implements Clock.
func (m *Manual) Slot() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.slot
}

// Advance moves the clock n slots forward.
func (m *Manual) Advance(n uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.slot += n
}

// Set moves the clock to slot. Going backwards is rejected.
func (m *Manual) Set(slot uint64) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if slot < m.slot {
		return errors.Errorf("clock: slot %d is behind %d", slot, m.slot)
	}
	m.slot = slot
	return nil
}

// Ticker derives slots from wall time elapsed since genesis.
type Ticker struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time

	lock sync.Mutex
	last uint64
}

// NewTicker creates a ticker clock. It panics if interval is not positive.
func NewTicker(genesis time.Time, interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("clock: non-positive slot interval")
	}
	return &Ticker{
		genesis:  genesis,
		interval: interval,
		now:      time.Now,
	}
}

// Slot implements Clock.
// A wall clock stepping back holds the last returned slot.
func (t *Ticker) Slot() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if elapsed := t.now().Sub(t.genesis); elapsed > 0 {
		if slot := uint64(elapsed / t.interval); slot > t.last {
			t.last = slot
		}
	}
	return t.last
}

// Interval returns the slot length.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}
