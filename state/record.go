// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakevault/kv"
)

// Key identifies a record.
type Key struct {
	Bucket kv.Bucket
	ID     string
}

// NewKey creates a record key.
func NewKey(bucket kv.Bucket, id []byte) Key {
	return Key{bucket, string(id)}
}

func (k Key) storeKey() []byte {
	return k.Bucket.Key([]byte(k.ID))
}

// versioned is the stored form of a record.
// Version 0 is reserved for absent records.
type versioned struct {
	Version uint64
	Data    []byte
}

// entry is a record as seen by a State.
type entry struct {
	version uint64 // version when loaded, 0 if absent
	data    []byte // nil if absent
}

func loadEntry(src kv.Getter, key Key) (entry, error) {
	raw, err := src.Get(key.storeKey())
	if err != nil {
		if src.IsNotFound(err) {
			return entry{}, nil
		}
		return entry{}, err
	}
	var v versioned
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return entry{}, err
	}
	return entry{v.Version, v.Data}, nil
}

func encodeEntry(version uint64, data []byte) ([]byte, error) {
	return rlp.EncodeToBytes(&versioned{version, data})
}

// ForEach iterates committed records in bucket and calls fn with the record id and data.
// The iteration stops when fn returns false.
func ForEach(store kv.Store, bucket kv.Bucket, fn func(id, data []byte) bool) error {
	it := store.Iterate(bucket.Range())
	defer it.Release()

	for it.Next() {
		var v versioned
		if err := rlp.DecodeBytes(it.Value(), &v); err != nil {
			return &Error{err}
		}
		if !fn(it.Key()[len(bucket):], v.Data) {
			break
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	return nil
}
