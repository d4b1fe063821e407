// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vechain/stakevault/log"
)

// maxLoggedBody caps the request body put into a log record.
const maxLoggedBody = 1024

// RequestLoggerHandler returns a http handler which logs every request once it's served.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			// the body can only be read once, so it's put back for the next handler
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		start := time.Now()
		sw := newStatusWriter(w)
		handler.ServeHTTP(sw, r)

		logged := string(body)
		if len(body) > maxLoggedBody {
			logged = string(body[:maxLoggedBody]) + "..."
		}
		logger.Info("API Request",
			"URI", r.URL.String(),
			"Method", r.Method,
			"Status", sw.statusCode,
			"Elapsed", time.Since(start),
			"Body", logged,
		)
	})
}
