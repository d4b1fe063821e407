// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/api"
	"github.com/vechain/stakevault/genesis"
	"github.com/vechain/stakevault/health"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/processor"
	"github.com/vechain/stakevault/transferlog"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakevault",
		Usage:     "Staking custody ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			slotIntervalFlag,
			decimalsFlag,
			allowTopUpFlag,
			minHoldPeriodFlag,
			withdrawModeFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "ledger with funded dev accounts for test & dev",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					cacheFlag,
					persistFlag,
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					skipLogsFlag,
					slotIntervalFlag,
					decimalsFlag,
					allowTopUpFlag,
					minHoldPeriodFlag,
					withdrawModeFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	initMetrics(ctx)

	cfg := loadConfig(ctx)
	builder := selectGenesis(ctx, cfg)
	instanceDir := makeInstanceDir(ctx, builder)

	mainDB := openMainDB(ctx, instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	tlog := openTransferLog(ctx, instanceDir)
	if tlog != nil {
		defer func() { logger.Info("closing transfer log..."); tlog.Close() }()
	}

	return run(exitSignal, ctx, &node{
		cfg:         cfg,
		builder:     builder,
		db:          mainDB,
		tlog:        tlog,
		instanceDir: instanceDir,
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	initMetrics(ctx)

	cfg := loadConfig(ctx)
	builder := genesis.NewDevnet(decimals(ctx))

	var (
		mainDB      *lvldb.LevelDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, builder)
		mainDB = openMainDB(ctx, instanceDir)
	} else {
		mainDB = openMemMainDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	tlog := openTransferLog(ctx, instanceDir)
	if tlog != nil {
		defer func() { logger.Info("closing transfer log..."); tlog.Close() }()
	}

	return run(exitSignal, ctx, &node{
		cfg:         cfg,
		builder:     builder,
		db:          mainDB,
		tlog:        tlog,
		instanceDir: instanceDir,
		solo:        true,
	})
}

type node struct {
	cfg         *Config
	builder     *genesis.Builder
	db          *lvldb.LevelDB
	tlog        *transferlog.TransferLog
	instanceDir string
	solo        bool
}

// run serves the ledger until exitSignal is done.
func run(exitSignal context.Context, ctx *cli.Context, n *node) error {
	committer, gene := initLedger(n.builder, n.db)

	proc := processor.New(committer, newClock(gene, n.cfg.SlotInterval), processor.Options{
		ChainTag: gene.ChainTag(),
		Mint:     gene.Mint,
		Staking:  n.cfg.Staking,
	})
	defer func() { logger.Info("closing processor..."); proc.Close() }()

	hl := health.New()

	handler, closeSubs := api.New(proc, n.db, n.tlog, api.Options{
		AllowedOrigins:  allowedOrigins(ctx),
		GenesisID:       gene.ID,
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		Health:          hl,
	})
	defer closeSubs()

	apiURL, stopAPI := startAPIServer(ctx, handler)
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	metricsURL, stopMetrics := startMetricsServer(ctx)
	defer stopMetrics()

	dataDir := n.instanceDir
	if dataDir == "" {
		dataDir = "Memory"
	}
	if n.solo {
		printSoloStartupMessage(gene, n.cfg, dataDir, apiURL, metricsURL)
	} else {
		printStartupMessage("stakevault", gene, n.cfg, dataDir, apiURL, metricsURL)
	}

	g, gctx := errgroup.WithContext(exitSignal)
	if n.tlog != nil {
		g.Go(func() error { return n.tlog.Follow(gctx, proc) })
	}
	g.Go(func() error { return hl.Follow(gctx, proc) })
	g.Go(func() error { return clockSyncLoop(gctx, n.cfg.SlotInterval, hl) })
	return g.Wait()
}
