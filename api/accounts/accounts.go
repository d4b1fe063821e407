// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/token"
)

// Viewer gives read only access to the ledger.
type Viewer interface {
	View(fn func(s *staking.Staking, tokens *token.Service) error) error
}

type Accounts struct {
	viewer Viewer
	store  kv.Store
}

func New(viewer Viewer, store kv.Store) *Accounts {
	return &Accounts{
		viewer,
		store,
	}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := custody.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(err, "address")
	}

	var acc *token.Account
	err = a.viewer.View(func(_ *staking.Staking, tokens *token.Service) (err error) {
		acc, err = tokens.Account(addr)
		return
	})
	if err != nil {
		if errors.Is(err, token.ErrAccountNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc))
}

func (a *Accounts) handleListAccounts(w http.ResponseWriter, req *http.Request) error {
	var owner *custody.Address
	if s := req.URL.Query().Get("owner"); s != "" {
		addr, err := custody.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(err, "owner")
		}
		owner = &addr
	}

	list := make([]*Account, 0)
	err := token.ForEachAccount(a.store, func(addr custody.Address, acc *token.Account) bool {
		if owner == nil || acc.Owner == *owner {
			list = append(list, convertAccount(addr, acc))
		}
		return true
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /accounts").
		HandlerFunc(utils.WrapHandlerFunc(a.handleListAccounts))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
