// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb is the goleveldb backed kv store of the ledger.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/stakevault/kv"
)

var _ kv.Store = (*LevelDB)(nil)

// minimum sizes applied to Options, in MiB and file handles.
const (
	minCacheSize      = 16
	minOpenFilesCache = 16
)

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
)

// Options tunes the db. Values below the minimums are raised to them.
type Options struct {
	CacheSize              int // MiB shared by block cache and write buffers
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheSize := max(o.CacheSize, minCacheSize)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minOpenFilesCache),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB, // two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv store on a leveldb instance. It owns the underlying storage,
// which holds the file lock of a persistent db until Close.
type LevelDB struct {
	db   *leveldb.DB
	stg  storage.Storage
	path string // empty for in-memory dbs
}

// New opens the persistent db at path, creating it if absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage [%v]", path)
	}
	ldb, err := open(stg, opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "new persistent level db [%v]", path)
	}
	ldb.path = path
	return ldb, nil
}

// NewMem creates a db in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

// open takes over stg, which is closed if the db can't be opened on it.
func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		if cerr := stg.Close(); cerr != nil {
			return nil, errors.Wrapf(err, "open level db (close storage: %v)", cerr)
		}
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db, stg: stg}, nil
}

// Path returns the dir of a persistent db, or empty for an in-memory one.
func (ldb *LevelDB) Path() string {
	return ldb.path
}

// Close closes the db, then releases its storage. Later operations all fail.
func (ldb *LevelDB) Close() error {
	dbErr := ldb.db.Close()
	stgErr := ldb.stg.Close()
	if dbErr != nil {
		return errors.Wrap(dbErr, "close level db")
	}
	if stgErr != nil && stgErr != storage.ErrClosed {
		return errors.Wrap(stgErr, "close storage")
	}
	return nil
}

// IsNotFound reports whether err returned by Get means the key is absent.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) { return ldb.db.Get(key, &readOpt) }
func (ldb *LevelDB) Has(key []byte) (bool, error)   { return ldb.db.Has(key, &readOpt) }
func (ldb *LevelDB) Put(key, val []byte) error      { return ldb.db.Put(key, val, &writeOpt) }
func (ldb *LevelDB) Delete(key []byte) error        { return ldb.db.Delete(key, &writeOpt) }

// Snapshot returns a consistent read view of the db. It must be released.
func (ldb *LevelDB) Snapshot() (kv.Snapshot, error) {
	snap, err := ldb.db.GetSnapshot()
	if err != nil {
		return nil, errors.Wrap(err, "snapshot level db")
	}
	return &snapshot{snap}, nil
}

// NewBatch creates a batch written atomically by Write.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{ldb.db, new(leveldb.Batch)}
}

// Iterate iterates keys in r, in ascending order.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

type snapshot struct {
	snap *leveldb.Snapshot
}

func (s *snapshot) Get(key []byte) ([]byte, error) { return s.snap.Get(key, &readOpt) }
func (s *snapshot) Has(key []byte) (bool, error)   { return s.snap.Has(key, &readOpt) }
func (s *snapshot) IsNotFound(err error) bool      { return err == leveldb.ErrNotFound }
func (s *snapshot) Release()                       { s.snap.Release() }

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, val []byte) error {
	b.b.Put(key, val)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int     { return b.b.Len() }
func (b *batch) Write() error { return b.db.Write(b.b, &writeOpt) }
