// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/token"
	"github.com/vechain/stakevault/tx"
)

// Executor executes txs and tracks executed ones.
type Executor interface {
	Execute(ctx context.Context, trx *tx.Transaction) (*processor.Receipt, error)
	IsKnown(id custody.Bytes32) (bool, error)
}

type Transactions struct {
	exec Executor
}

func New(exec Executor) *Transactions {
	return &Transactions{exec}
}

// isBadTx returns whether err is caused by the tx itself rather than the node.
func isBadTx(err error) bool {
	if staking.IsStakingErr(err) {
		return true
	}
	for _, target := range []error{
		processor.ErrChainTagMismatch,
		processor.ErrUnknownOp,
		tx.ErrInvalidSignature,
		token.ErrAccountNotFound,
		token.ErrMintMismatch,
		token.ErrOwnerMismatch,
		token.ErrInsufficientBalance,
		token.ErrOverflow,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var rawTx *RawTx
	if err := utils.ParseJSON(req.Body, &rawTx); err != nil {
		return utils.BadRequest(err, "body")
	}
	if rawTx == nil {
		return utils.BadRequest(errors.New("empty body"), "body")
	}
	data, err := hexutil.Decode(rawTx.Raw)
	if err != nil {
		return utils.BadRequest(err, "raw")
	}
	trx, err := tx.Decode(data)
	if err != nil {
		return utils.BadRequest(err, "raw")
	}

	receipt, err := t.exec.Execute(req.Context(), trx)
	if err != nil {
		if errors.Is(err, processor.ErrKnownTx) {
			return utils.Forbidden(err, "tx rejected")
		}
		if isBadTx(err) {
			return utils.BadRequest(err, "tx")
		}
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt))
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := custody.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(err, "id")
	}
	known, err := t.exec.IsKnown(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &TxStatus{ID: id, Known: known})
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
}
