// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/pda"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/token"
)

// Viewer gives read only access to the ledger.
type Viewer interface {
	View(fn func(s *staking.Staking, tokens *token.Service) error) error
}

type Stakes struct {
	viewer Viewer
}

func New(viewer Viewer) *Stakes {
	return &Stakes{viewer}
}

// balance returns the balance of addr, zero if no account is there.
func balance(tokens *token.Service, addr custody.Address) (uint64, error) {
	exists, err := tokens.Exists(addr)
	if err != nil || !exists {
		return 0, err
	}
	acc, err := tokens.Account(addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := custody.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(err, "address")
	}
	entry, err := pda.StakeInfo(user)
	if err != nil {
		return err
	}
	vault, err := pda.StakeVault(user)
	if err != nil {
		return err
	}

	stake := &Stake{
		User:  user,
		Entry: entry.Address,
		Vault: vault.Address,
	}
	err = s.viewer.View(func(stk *staking.Staking, tokens *token.Service) error {
		info, err := stk.StakeInfo(user)
		if err != nil {
			return err
		}
		stake.Created = !info.IsEmpty()
		stake.IsStaked = info.IsStaked
		stake.StakeAtSlot = info.StakeAtSlot
		stake.StakeAmount = info.StakeAmount

		if stake.VaultBalance, err = balance(tokens, vault.Address); err != nil {
			return err
		}
		stake.PendingReward, err = stk.PendingReward(user)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, stake)
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /stakes/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
}

type RewardVault struct {
	viewer Viewer
}

func NewVault(viewer Viewer) *RewardVault {
	return &RewardVault{viewer}
}

func (v *RewardVault) handleGetVault(w http.ResponseWriter, _ *http.Request) error {
	d, err := pda.RewardVault()
	if err != nil {
		return err
	}
	vault := &Vault{
		Address: d.Address,
		Bump:    d.Bump,
	}
	err = v.viewer.View(func(_ *staking.Staking, tokens *token.Service) (err error) {
		vault.Balance, err = balance(tokens, d.Address)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, vault)
}

func (v *RewardVault) Mount(root *mux.Router, path string) {
	root.Path(path).
		Methods(http.MethodGet).
		Name("GET /vault").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVault))
}
