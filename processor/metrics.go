// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import "github.com/vechain/stakevault/metrics"

var (
	metricTxCount    = metrics.LazyLoadCounterVec("processor_tx_count", []string{"op", "result"})
	metricTxDuration = metrics.LazyLoadHistogramVec("processor_tx_duration_us", []string{"op"}, metrics.BucketExecution)
	metricConflicts  = metrics.LazyLoadCounter("processor_commit_conflicts_count")
)
