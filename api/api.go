// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakevault/api/accounts"
	healthAPI "github.com/vechain/stakevault/api/health"
	"github.com/vechain/stakevault/api/node"
	"github.com/vechain/stakevault/api/stakes"
	"github.com/vechain/stakevault/api/subscriptions"
	"github.com/vechain/stakevault/api/transactions"
	"github.com/vechain/stakevault/api/transfers"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/health"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/transferlog"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	GenesisID       custody.Bytes32
	EnableReqLogger bool
	EnableMetrics   bool
	Health          *health.Health // GET /health is served if not nil
}

// New return api router. Transfer log queries are served if tlog is not nil.
func New(
	proc *processor.Processor,
	store kv.Store,
	tlog *transferlog.TransferLog,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(proc, store).
		Mount(router, "/accounts")
	stakes.New(proc).
		Mount(router, "/stakes")
	stakes.NewVault(proc).
		Mount(router, "/vault")
	transactions.New(proc).
		Mount(router, "/transactions")
	node.New(proc, opts.GenesisID).
		Mount(router, "/clock")
	if tlog != nil {
		transfers.New(tlog).
			Mount(router, "/logs/transfers")
	}
	if opts.Health != nil {
		healthAPI.New(opts.Health).
			Mount(router, "/health")
	}
	subs := subscriptions.New(proc, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(genesisIDMiddleware(opts.GenesisID))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// genesisIDMiddleware tags responses with the genesis id, and rejects requests
// that carry a different one.
func genesisIDMiddleware(id custody.Bytes32) mux.MiddlewareFunc {
	expected := id.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", expected)
			if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, expected) {
				http.Error(w, "genesis id mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
