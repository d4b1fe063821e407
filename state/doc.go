// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state holds the ledger records.
//
// A State reads records from the store on demand and journals every write in a
// stacked map, so any sequence of writes can be reverted to a checkpoint. Changes
// reach the store only through Stage and Commit, which checks that no record read
// or written by this State was committed by others in between.
package state
