// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/custody"
)

// Ledger exposes the ledger clock.
type Ledger interface {
	Slot() uint64
	Mint() custody.Address
}

// Clock for json marshal.
type Clock struct {
	Slot      uint64          `json:"slot"`
	Mint      custody.Address `json:"mint"`
	GenesisID custody.Bytes32 `json:"genesisID"`
}

type Node struct {
	ledger    Ledger
	genesisID custody.Bytes32
}

func New(ledger Ledger, genesisID custody.Bytes32) *Node {
	return &Node{
		ledger,
		genesisID,
	}
}

func (n *Node) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Clock{
		Slot:      n.ledger.Slot(),
		Mint:      n.ledger.Mint(),
		GenesisID: n.genesisID,
	})
}

func (n *Node) Mount(root *mux.Router, path string) {
	root.Path(path).
		Methods(http.MethodGet).
		Name("GET /clock").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetClock))
}
