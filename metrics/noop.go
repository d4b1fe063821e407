// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

var (
	_ Metrics           = noop{}
	_ CountMeter        = noop{}
	_ CountVecMeter     = noop{}
	_ GaugeMeter        = noop{}
	_ HistogramVecMeter = noop{}
)

// noop is both the metrics service and every meter it hands out, while
// prometheus is not initialized.
type noop struct{}

func defaultNoopMetrics() Metrics { return noop{} }

func (noop) GetOrCreateCountMeter(string) CountMeter                 { return noop{} }
func (noop) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return noop{} }
func (noop) GetOrCreateGaugeMeter(string) GaugeMeter                 { return noop{} }
func (noop) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return noop{}
}

// GetOrCreateHandler returns nil, the metrics server isn't started without prometheus.
func (noop) GetOrCreateHandler() http.Handler { return nil }

func (noop) Add(int64)                                  {}
func (noop) Set(int64)                                  {}
func (noop) AddWithLabel(int64, map[string]string)      {}
func (noop) ObserveWithLabels(int64, map[string]string) {}
