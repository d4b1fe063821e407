// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/pkg/errors"

var (
	ErrMintNotFound        = errors.New("token: mint not found")
	ErrMintExists          = errors.New("token: mint already exists")
	ErrInvalidDecimals     = errors.New("token: invalid decimals")
	ErrAccountNotFound     = errors.New("token: account not found")
	ErrMintMismatch        = errors.New("token: mint mismatch")
	ErrOwnerMismatch       = errors.New("token: owner mismatch")
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrOverflow            = errors.New("token: amount overflow")
)
