// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages ledger records.
type State struct {
	src    kv.Getter
	db     *Committer // nil for views
	loaded map[Key]uint64
	sm     *stackedmap.StackedMap
}

// New create a state object on committer.
func New(db *Committer) *State {
	return newState(db.store, db)
}

// NewView creates a read only state on src, usually a snapshot.
// A view can't be staged.
func NewView(src kv.Getter) *State {
	return newState(src, nil)
}

func newState(src kv.Getter, db *Committer) *State {
	s := &State{
		src:    src,
		db:     db,
		loaded: make(map[Key]uint64),
	}
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.loadRecord(key.(Key))
	})
	return s
}

// loadRecord implements stackedmap.MapGetter.
func (s *State) loadRecord(key Key) (any, bool, error) {
	e, err := loadEntry(s.src, key)
	if err != nil {
		return nil, false, err
	}
	if _, ok := s.loaded[key]; !ok {
		s.loaded[key] = e.version
	}
	return e.data, true, nil
}

// Get returns raw data of the record, nil if absent.
func (s *State) Get(key Key) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// Has returns whether the record exists.
func (s *State) Has(key Key) (bool, error) {
	data, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

// Set sets raw data of the record.
func (s *State) Set(key Key, data []byte) {
	s.sm.Put(key, data)
}

// DecodeRecord decodes the record into val.
// It returns false and leaves val untouched if the record is absent.
func (s *State) DecodeRecord(key Key, val any) (bool, error) {
	data, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, val); err != nil {
		return false, &Error{err}
	}
	return true, nil
}

// EncodeRecord encodes val and sets it as the record.
func (s *State) EncodeRecord(key Key, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{err}
	}
	s.Set(key, data)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects changes made on the state.
func (s *State) Stage() (*Stage, error) {
	if s.db == nil {
		return nil, &Error{errReadOnly}
	}

	var (
		changes = make(map[Key][]byte)
		order   []Key
	)
	s.sm.Journal(func(k, v any) bool {
		key := k.(Key)
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = v.([]byte)
		return true
	})

	// every written key takes part in the version check, blind writes included.
	// The journal shadows them, so their versions are read from the source.
	for _, key := range order {
		if _, ok := s.loaded[key]; !ok {
			e, err := loadEntry(s.src, key)
			if err != nil {
				return nil, &Error{err}
			}
			s.loaded[key] = e.version
		}
	}

	reads := make(map[Key]uint64, len(s.loaded))
	for k, v := range s.loaded {
		reads[k] = v
	}
	return &Stage{
		db:      s.db,
		reads:   reads,
		changes: changes,
		order:   order,
	}, nil
}
