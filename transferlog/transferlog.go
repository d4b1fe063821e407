// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transferlog keeps a queryable log of token transfers made by executed txs.
package transferlog

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/log"
)

var logger = log.WithContext("pkg", "transferlog")

// MaxLimit caps the count of transfers returned by one query.
const MaxLimit = 1000

type TransferLog struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open a transfer log at given path.
func New(path string) (tlog *TransferLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if tlog == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &TransferLog{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a transfer log in ram.
func NewMem() (*TransferLog, error) {
	return New(":memory:")
}

// Insert saves transfers. Saving a transfer twice keeps one copy.
func (db *TransferLog) Insert(ctx context.Context, transfers []*Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO transfer(txID, transferIndex, slot, op, signer, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			t.TxID.Bytes(),
			t.Index,
			int64(t.Slot),
			t.Op,
			t.Signer.Bytes(),
			t.From.Bytes(),
			t.To.Bytes(),
			encodeAmount(t.Amount),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInserted().Add(int64(len(transfers)))
	return nil
}

// Filter returns transfers matching filter.
func (db *TransferLog) Filter(ctx context.Context, filter *Filter) ([]*Transfer, error) {
	if filter == nil {
		filter = &Filter{}
	}
	var args []any
	stmt := "SELECT txID, transferIndex, slot, op, signer, sender, recipient, amount FROM transfer WHERE 1"

	if filter.Address != nil {
		stmt += " AND (sender = ? OR recipient = ?)"
		args = append(args, filter.Address.Bytes(), filter.Address.Bytes())
	}
	if filter.Signer != nil {
		stmt += " AND signer = ?"
		args = append(args, filter.Signer.Bytes())
	}
	if filter.TxID != nil {
		stmt += " AND txID = ?"
		args = append(args, filter.TxID.Bytes())
	}
	if r := filter.Range; r != nil {
		if r.From != nil {
			stmt += " AND slot >= ?"
			args = append(args, clampSlot(*r.From))
		}
		if r.To != nil {
			stmt += " AND slot <= ?"
			args = append(args, clampSlot(*r.To))
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY slot DESC, rowid DESC"
	} else {
		stmt += " ORDER BY slot ASC, rowid ASC"
	}

	offset, limit := uint64(0), uint64(MaxLimit)
	if o := filter.Options; o != nil {
		offset = o.Offset
		if o.Limit > 0 && o.Limit < limit {
			limit = o.Limit
		}
	}
	stmt += " LIMIT ? OFFSET ?"
	args = append(args, limit, clampSlot(offset))

	return db.query(ctx, stmt, args...)
}

func (db *TransferLog) query(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*Transfer, 0)
	for rows.Next() {
		var (
			txID   []byte
			index  uint32
			slot   int64
			op     string
			signer []byte
			from   []byte
			to     []byte
			amount []byte
		)
		if err := rows.Scan(&txID, &index, &slot, &op, &signer, &from, &to, &amount); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			TxID:   custody.BytesToBytes32(txID),
			Index:  index,
			Slot:   uint64(slot),
			Op:     op,
			Signer: custody.BytesToAddress(signer),
			From:   custody.BytesToAddress(from),
			To:     custody.BytesToAddress(to),
			Amount: decodeAmount(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// Path return the db path.
func (db *TransferLog) Path() string {
	return db.path
}

// Close close the transfer log.
func (db *TransferLog) Close() error {
	logger.Debug("closing", "path", db.path, "driver", db.driverVersion)
	return db.db.Close()
}

// sqlite integers are signed 64 bits.
func clampSlot(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func encodeAmount(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func decodeAmount(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
