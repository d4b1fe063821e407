// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/transferlog"
)

type Transfers struct {
	db *transferlog.TransferLog
}

func New(db *transferlog.TransferLog) *Transfers {
	return &Transfers{db}
}

func (t *Transfers) handleFilterTransferLogs(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(err, "body")
	}
	if filter.Options != nil && filter.Options.Limit > transferlog.MaxLimit {
		return utils.Forbidden(fmt.Errorf("the maximum allowed value is %d", transferlog.MaxLimit), "options.limit")
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("the maximum allowed value is %d", int64(math.MaxInt64)), "options.offset")
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(fmt.Errorf("to must be greater than or equal to from"), "range")
	}
	switch filter.Order {
	case "", transferlog.ASC, transferlog.DESC:
	default:
		return utils.BadRequest(fmt.Errorf("unknown order %q", filter.Order), "order")
	}

	f := &transferlog.Filter{
		Address: filter.Address,
		Signer:  filter.Signer,
		TxID:    filter.TxID,
		Order:   filter.Order,
	}
	if filter.Range != nil {
		f.Range = &transferlog.Range{From: filter.Range.From, To: filter.Range.To}
	}
	if filter.Options != nil {
		f.Options = &transferlog.Options{Offset: filter.Options.Offset, Limit: filter.Options.Limit}
	}

	transfers, err := t.db.Filter(req.Context(), f)
	if err != nil {
		return err
	}
	list := make([]*FilteredTransfer, len(transfers))
	for i, trans := range transfers {
		list[i] = convertTransfer(trans)
	}
	return utils.WriteJSON(w, list)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterTransferLogs))
}
