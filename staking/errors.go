// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"fmt"
)

// Kind classifies rejections of staking operations.
type Kind uint8

const (
	InsufficientFunds Kind = iota + 1
	AlreadyStaked
	NotStaked
	StakeNotMatured
	ArithmeticOverflow
	InvalidAmount
	PartialWithdrawal
)

func (k Kind) String() string {
	switch k {
	case InsufficientFunds:
		return "insufficient funds"
	case AlreadyStaked:
		return "already staked"
	case NotStaked:
		return "not staked"
	case StakeNotMatured:
		return "stake not matured"
	case ArithmeticOverflow:
		return "arithmetic overflow"
	case InvalidAmount:
		return "invalid amount"
	case PartialWithdrawal:
		return "partial withdrawal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is a rejection of a staking operation.
// Errors of the same kind match with errors.Is.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	if e.msg == "" {
		return "staking: " + e.Kind.String()
	}
	return "staking: " + e.Kind.String() + ": " + e.msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInsufficientFunds  = &Error{Kind: InsufficientFunds}
	ErrAlreadyStaked      = &Error{Kind: AlreadyStaked}
	ErrNotStaked          = &Error{Kind: NotStaked}
	ErrStakeNotMatured    = &Error{Kind: StakeNotMatured}
	ErrArithmeticOverflow = &Error{Kind: ArithmeticOverflow}
	ErrInvalidAmount      = &Error{Kind: InvalidAmount}
	ErrPartialWithdrawal  = &Error{Kind: PartialWithdrawal}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// IsStakingErr returns whether err is a rejection of a staking operation,
// rather than a failure of the ledger.
func IsStakingErr(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
