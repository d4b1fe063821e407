// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, uint64(100), c.Slot())

	c.Advance(30)
	assert.Equal(t, uint64(130), c.Slot())

	assert.NoError(t, c.Set(130))
	assert.NoError(t, c.Set(200))
	assert.Error(t, c.Set(199))
	assert.Equal(t, uint64(200), c.Slot())

	var zero Manual
	assert.Equal(t, uint64(0), zero.Slot())
}

func TestTicker(t *testing.T) {
	genesis := time.Unix(1_000_000, 0)
	now := genesis
	c := NewTicker(genesis, 10*time.Second)
	c.now = func() time.Time { return now }

	assert.Equal(t, uint64(0), c.Slot())

	now = genesis.Add(35 * time.Second)
	assert.Equal(t, uint64(3), c.Slot())

	// wall clock stepping back
	now = genesis.Add(5 * time.Second)
	assert.Equal(t, uint64(3), c.Slot())

	now = genesis.Add(-time.Hour)
	assert.Equal(t, uint64(3), c.Slot())

	now = genesis.Add(100 * time.Second)
	assert.Equal(t, uint64(10), c.Slot())
	assert.Equal(t, 10*time.Second, c.Interval())
}

func TestFixed(t *testing.T) {
	var c Clock = Fixed(42)
	assert.Equal(t, uint64(42), c.Slot())
}

func TestTickerInvalidInterval(t *testing.T) {
	assert.Panics(t, func() { NewTicker(time.Now(), 0) })
}
