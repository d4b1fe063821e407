// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pda derives program addresses: deterministic, key-less addresses computed from
// seed tags and a program id. The program proves control over such an address by presenting
// the seeds and the bump that reproduce it.
package pda

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
)

const (
	// MaxSeeds is the maximum number of seeds, the bump excluded.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var (
	ErrMaxSeedLength = errors.New("pda: max seed length exceeded")
	ErrOnCurve       = errors.New("pda: derived hash is a valid curve point")
	ErrNoViableBump  = errors.New("pda: unable to find a viable bump")

	marker = []byte("ProgramDerivedAddress")
)

// CreateProgramAddress computes the address for the given seeds and bump.
// It fails with ErrOnCurve if the underlying hash could be the x-coordinate of a
// secp256k1 public key, because a private key might then exist for it.
func CreateProgramAddress(program custody.Address, seeds [][]byte, bump byte) (custody.Address, error) {
	if len(seeds) > MaxSeeds {
		return custody.Address{}, ErrMaxSeedLength
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return custody.Address{}, ErrMaxSeedLength
		}
	}

	parts := make([][]byte, 0, len(seeds)+3)
	parts = append(parts, seeds...)
	parts = append(parts, []byte{bump}, program.Bytes(), marker)
	h := custody.Blake2b(parts...)

	if isOnCurve(h) {
		return custody.Address{}, ErrOnCurve
	}
	return custody.BytesToAddress(h[12:]), nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the first one
// producing a valid program address.
func FindProgramAddress(program custody.Address, seeds ...[]byte) (custody.Address, byte, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(program, seeds, byte(bump))
		if err == nil {
			return addr, byte(bump), nil
		}
		if err != ErrOnCurve {
			return custody.Address{}, 0, err
		}
	}
	return custody.Address{}, 0, ErrNoViableBump
}

// Verify reports whether seeds and bump reproduce addr under program.
func Verify(program custody.Address, seeds [][]byte, bump byte, addr custody.Address) bool {
	derived, err := CreateProgramAddress(program, seeds, bump)
	if err != nil {
		return false
	}
	return derived == addr
}

func isOnCurve(h custody.Bytes32) bool {
	var compressed [33]byte
	compressed[0] = 0x02 // compressed, even y
	copy(compressed[1:], h[:])
	_, err := secp256k1.ParsePubKey(compressed[:])
	return err == nil
}
