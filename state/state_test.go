// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/lvldb"
)

type testRecord struct {
	Name  string
	Value uint64
}

const testBucket = kv.Bucket("t.")

func newTestCommitter(t *testing.T) *Committer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCommitter(db)
}

func TestStateRecords(t *testing.T) {
	st := New(newTestCommitter(t))
	key := NewKey(testBucket, []byte("a"))

	var rec testRecord
	found, err := st.DecodeRecord(key, &rec)
	require.NoError(t, err)
	assert.False(t, found)

	has, err := st.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, st.EncodeRecord(key, &testRecord{"x", 1}))
	found, err = st.DecodeRecord(key, &rec)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testRecord{"x", 1}, rec)
}

func TestStateRevert(t *testing.T) {
	st := New(newTestCommitter(t))
	key := NewKey(testBucket, []byte("a"))

	require.NoError(t, st.EncodeRecord(key, &testRecord{"v", 1}))
	chk := st.NewCheckpoint()
	require.NoError(t, st.EncodeRecord(key, &testRecord{"v", 2}))
	require.NoError(t, st.EncodeRecord(NewKey(testBucket, []byte("b")), &testRecord{"w", 3}))

	st.RevertTo(chk)

	var rec testRecord
	_, err := st.DecodeRecord(key, &rec)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.Value)

	has, err := st.Has(NewKey(testBucket, []byte("b")))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStageCommit(t *testing.T) {
	db := newTestCommitter(t)
	key := NewKey(testBucket, []byte("a"))

	st := New(db)
	require.NoError(t, st.EncodeRecord(key, &testRecord{"v", 1}))
	require.NoError(t, st.EncodeRecord(key, &testRecord{"v", 2}))

	stage, err := st.Stage()
	require.NoError(t, err)
	assert.Equal(t, 1, stage.Len())
	require.NoError(t, stage.Commit())

	var rec testRecord
	found, err := New(db).DecodeRecord(key, &rec)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(2), rec.Value)

	e, err := loadEntry(db.Store(), key)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.version)
}

func TestStageConflict(t *testing.T) {
	db := newTestCommitter(t)
	key := NewKey(testBucket, []byte("a"))
	other := NewKey(testBucket, []byte("b"))

	s1 := New(db)
	s2 := New(db)

	// both read the same record
	_, err := s1.Get(key)
	require.NoError(t, err)
	_, err = s2.Get(key)
	require.NoError(t, err)

	require.NoError(t, s1.EncodeRecord(key, &testRecord{"s1", 1}))
	require.NoError(t, s2.EncodeRecord(key, &testRecord{"s2", 2}))
	require.NoError(t, s2.EncodeRecord(other, &testRecord{"s2", 3}))

	stage1, err := s1.Stage()
	require.NoError(t, err)
	stage2, err := s2.Stage()
	require.NoError(t, err)

	require.NoError(t, stage1.Commit())
	assert.ErrorIs(t, stage2.Commit(), ErrConflict)

	// nothing of the rejected stage is written
	has, err := New(db).Has(other)
	require.NoError(t, err)
	assert.False(t, has)

	// replayed on a fresh state it goes through
	s3 := New(db)
	require.NoError(t, s3.EncodeRecord(key, &testRecord{"s3", 4}))
	stage3, err := s3.Stage()
	require.NoError(t, err)
	require.NoError(t, stage3.Commit())
}

func TestStageBlindWriteConflict(t *testing.T) {
	db := newTestCommitter(t)
	key := NewKey(testBucket, []byte("a"))

	s1 := New(db)
	require.NoError(t, s1.EncodeRecord(key, &testRecord{"s1", 1}))
	stage1, err := s1.Stage()
	require.NoError(t, err)

	s2 := New(db)
	require.NoError(t, s2.EncodeRecord(key, &testRecord{"s2", 2}))
	stage2, err := s2.Stage()
	require.NoError(t, err)

	require.NoError(t, stage1.Commit())
	assert.ErrorIs(t, stage2.Commit(), ErrConflict)

	// the first writer's record survives
	var got testRecord
	found, err := New(db).DecodeRecord(key, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testRecord{"s1", 1}, got)

	// a blind write staged after the commit sees the new version
	s3 := New(db)
	require.NoError(t, s3.EncodeRecord(key, &testRecord{"s3", 3}))
	stage3, err := s3.Stage()
	require.NoError(t, err)
	require.NoError(t, stage3.Commit())
}

func TestStageBlindWriteOfExistingRecord(t *testing.T) {
	db := newTestCommitter(t)
	key := NewKey(testBucket, []byte("a"))

	s0 := New(db)
	require.NoError(t, s0.EncodeRecord(key, &testRecord{"s0", 0}))
	stage0, err := s0.Stage()
	require.NoError(t, err)
	require.NoError(t, stage0.Commit())

	s1, s2 := New(db), New(db)
	require.NoError(t, s1.EncodeRecord(key, &testRecord{"s1", 1}))
	require.NoError(t, s2.EncodeRecord(key, &testRecord{"s2", 2}))
	stage1, err := s1.Stage()
	require.NoError(t, err)
	stage2, err := s2.Stage()
	require.NoError(t, err)

	require.NoError(t, stage1.Commit())
	assert.ErrorIs(t, stage2.Commit(), ErrConflict)
}

func TestCommitHooks(t *testing.T) {
	db := newTestCommitter(t)
	key := NewKey(testBucket, []byte("a"))

	var calls []string
	s1, s2 := New(db), New(db)
	require.NoError(t, s1.EncodeRecord(key, &testRecord{"s1", 1}))
	require.NoError(t, s2.EncodeRecord(key, &testRecord{"s2", 2}))
	stage1, err := s1.Stage()
	require.NoError(t, err)
	stage2, err := s2.Stage()
	require.NoError(t, err)

	require.NoError(t, stage1.Commit(func() { calls = append(calls, "s1") }))
	assert.ErrorIs(t, stage2.Commit(func() { calls = append(calls, "s2") }), ErrConflict)

	// unchanged records still count as committed
	s3 := New(db)
	require.NoError(t, s3.EncodeRecord(key, &testRecord{"s1", 1}))
	stage3, err := s3.Stage()
	require.NoError(t, err)
	require.NoError(t, stage3.Commit(func() { calls = append(calls, "s3") }))

	assert.Equal(t, []string{"s1", "s3"}, calls)
}

func TestDisjointStagesCommit(t *testing.T) {
	db := newTestCommitter(t)

	s1 := New(db)
	require.NoError(t, s1.EncodeRecord(NewKey(testBucket, []byte("a")), &testRecord{"a", 1}))
	s2 := New(db)
	require.NoError(t, s2.EncodeRecord(NewKey(testBucket, []byte("b")), &testRecord{"b", 1}))

	stage1, err := s1.Stage()
	require.NoError(t, err)
	stage2, err := s2.Stage()
	require.NoError(t, err)
	require.NoError(t, stage2.Commit())
	require.NoError(t, stage1.Commit())
}

func TestViewAndForEach(t *testing.T) {
	db := newTestCommitter(t)
	st := New(db)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.EncodeRecord(NewKey(testBucket, []byte(id)), &testRecord{id, 1}))
	}
	require.NoError(t, st.EncodeRecord(NewKey("other.", []byte("d")), &testRecord{"d", 1}))
	stage, err := st.Stage()
	require.NoError(t, err)
	require.NoError(t, stage.Commit())

	var ids []string
	require.NoError(t, ForEach(db.Store(), testBucket, func(id, data []byte) bool {
		ids = append(ids, string(id))
		return true
	}))
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	snap, err := db.Store().Snapshot()
	require.NoError(t, err)
	defer snap.Release()

	view := NewView(snap)
	has, err := view.Has(NewKey(testBucket, []byte("b")))
	require.NoError(t, err)
	assert.True(t, has)

	_, err = view.Stage()
	assert.Error(t, err)
}
