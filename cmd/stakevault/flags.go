// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file with staking policies and genesis",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 1024,
		Usage: "megabytes of ram allocated to the ledger database",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip writing the transfer log and disable the /logs API",
	}
	slotIntervalFlag = cli.DurationFlag{
		Name:  "slot-interval",
		Value: 10 * time.Second,
		Usage: "length of a ledger slot",
	}
	decimalsFlag = cli.IntFlag{
		Name:  "decimals",
		Value: 6,
		Usage: "decimals of the staked mint created at genesis",
	}
	allowTopUpFlag = cli.BoolTFlag{
		Name:  "allow-top-up",
		Usage: "let a staked user stake more, otherwise a user stakes once per period",
	}
	minHoldPeriodFlag = cli.Uint64Flag{
		Name:  "min-hold-period",
		Value: 0,
		Usage: "slots a stake must be held before destake, 0 for none",
	}
	withdrawModeFlag = cli.StringFlag{
		Name:  "withdraw-mode",
		Value: "recorded",
		Usage: "principal returned by destake (recorded|exact|full)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: int(log.LegacyLevelInfo),
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	// solo mode only flags
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save the ledger to disk instead of memory",
	}
)
