// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/stakevault/api/transactions"
	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/metrics"
	"github.com/vechain/stakevault/processor"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_subscriptions")
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
)

// ReceiptSource publishes receipts of executed txs.
type ReceiptSource interface {
	SubscribeReceipts(ch chan *processor.Receipt) event.Subscription
}

type Subscriptions struct {
	src      ReceiptSource
	upgrader *websocket.Upgrader
	done     chan struct{}
}

func New(src ReceiptSource, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		src: src,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// Close ends all open subscriptions.
func (s *Subscriptions) Close() {
	close(s.done)
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	var signer *custody.Address
	if str := req.URL.Query().Get("signer"); str != "" {
		addr, err := custody.ParseAddress(str)
		if err != nil {
			return utils.BadRequest(err, "signer")
		}
		signer = &addr
	}

	// subscribed before the handshake so no receipt is missed after it
	ch := make(chan *processor.Receipt, 16)
	sub := s.src.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	metricActiveSubscriptions().Add(1)
	defer metricActiveSubscriptions().Add(-1)

	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, ch, sub, closed, signer); err != nil {
		logger.Debug("websocket closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, ch chan *processor.Receipt, sub event.Subscription, closed chan struct{}, signer *custody.Address) error {
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return writeClose(conn, websocket.CloseGoingAway, "")
		case <-closed:
			return nil
		case err := <-sub.Err():
			return writeClose(conn, websocket.CloseGoingAway, errString(err))
		case receipt := <-ch:
			if signer != nil && receipt.Signer != *signer {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(transactions.ConvertReceipt(receipt)); err != nil {
				return err
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) error {
	return conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipts").
		Methods(http.MethodGet).
		Name("WS /subscriptions/receipts").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
