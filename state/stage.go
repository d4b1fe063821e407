// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"errors"
	"sync"

	"github.com/vechain/stakevault/kv"
)

var (
	// ErrConflict is returned by Commit when a record was committed by others
	// since it was loaded. The changes must be replayed on a new state.
	ErrConflict = errors.New("state: commit conflict")

	errReadOnly = errors.New("read only")
)

// Committer serializes commits to the store.
type Committer struct {
	store kv.Store
	lock  sync.Mutex
}

// NewCommitter creates a committer on store.
func NewCommitter(store kv.Store) *Committer {
	return &Committer{store: store}
}

// Store returns the underlying store.
func (c *Committer) Store() kv.Store {
	return c.store
}

// Stage is the set of changes collected from a State.
type Stage struct {
	db      *Committer
	reads   map[Key]uint64
	changes map[Key][]byte
	order   []Key
}

// Len returns count of changed records.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes changes in one batch.
// It fails with ErrConflict, writing nothing, if any record read by the state
// has a different version in the store.
// onCommitted run after a successful write, still under the commit lock, so
// they observe commits in the order they hit the store.
func (s *Stage) Commit(onCommitted ...func()) error {
	s.db.lock.Lock()
	defer s.db.lock.Unlock()

	for key, ver := range s.reads {
		e, err := loadEntry(s.db.store, key)
		if err != nil {
			return &Error{err}
		}
		if e.version != ver {
			metricCommitConflicts().Add(1)
			return ErrConflict
		}
	}

	batch := s.db.store.NewBatch()
	for _, key := range s.order {
		data := s.changes[key]
		prev, err := loadEntry(s.db.store, key)
		if err != nil {
			return &Error{err}
		}
		if bytes.Equal(prev.data, data) {
			continue
		}
		enc, err := encodeEntry(prev.version+1, data)
		if err != nil {
			return &Error{err}
		}
		if err := batch.Put(key.storeKey(), enc); err != nil {
			return &Error{err}
		}
	}
	if n := batch.Len(); n > 0 {
		if err := batch.Write(); err != nil {
			return &Error{err}
		}
		metricRecordWrites().Add(int64(n))
	}
	for _, fn := range onCommitted {
		fn()
	}
	return nil
}
