// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/token"
	"github.com/vechain/stakevault/tx"
)

func TestIsBadTx(t *testing.T) {
	for _, err := range []error{
		staking.ErrNotStaked,
		errors.WithMessage(staking.ErrInsufficientFunds, "stake"),
		processor.ErrChainTagMismatch,
		processor.ErrUnknownOp,
		tx.ErrInvalidSignature,
		errors.WithMessage(token.ErrOwnerMismatch, "vault"),
	} {
		assert.True(t, isBadTx(err), err.Error())
	}
	for _, err := range []error{
		state.ErrConflict,
		context.Canceled,
		errors.New("disk failure"),
	} {
		assert.False(t, isBadTx(err), err.Error())
	}
}

func TestConvertReceipt(t *testing.T) {
	r := ConvertReceipt(&processor.Receipt{
		Op:        tx.OpDestake,
		Reward:    3,
		Transfers: []staking.Transfer{{Amount: 3}, {Amount: 5}},
	})
	assert.Equal(t, tx.OpDestake, r.Op)
	assert.Equal(t, uint64(3), r.Reward)
	assert.Len(t, r.Transfers, 2)
	assert.Equal(t, uint64(5), r.Transfers[1].Amount)

	assert.NotNil(t, ConvertReceipt(&processor.Receipt{}).Transfers)
}
