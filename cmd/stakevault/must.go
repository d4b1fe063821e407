// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/genesis"
	"github.com/vechain/stakevault/health"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/metrics"
	"github.com/vechain/stakevault/staking"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/transferlog"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	verbosity := ctx.Int(verbosityFlag.Name)
	if verbosity < int(log.LegacyLevelCrit) || verbosity > int(log.LegacyLevelTrace) {
		fatal(fmt.Sprintf("verbosity %d out of range [0, 5]", verbosity))
	}
	log.Init(verbosity, ctx.Bool(jsonLogsFlag.Name))
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

// loadConfig reads the config file and applies the flags set over it.
func loadConfig(ctx *cli.Context) *Config {
	cfg, err := loadConfigFile(ctx.String(configFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("load config [%v]: %v", ctx.String(configFlag.Name), err))
	}
	if ctx.IsSet(slotIntervalFlag.Name) {
		cfg.SlotInterval = ctx.Duration(slotIntervalFlag.Name)
		if cfg.SlotInterval <= 0 {
			fatal("slot interval must be positive")
		}
	}
	if ctx.IsSet(allowTopUpFlag.Name) {
		cfg.Staking.AllowTopUp = ctx.BoolT(allowTopUpFlag.Name)
	}
	if ctx.IsSet(minHoldPeriodFlag.Name) {
		cfg.Staking.MinimumHoldPeriod = ctx.Uint64(minHoldPeriodFlag.Name)
	}
	if ctx.IsSet(withdrawModeFlag.Name) {
		mode, err := staking.ParseWithdrawMode(ctx.String(withdrawModeFlag.Name))
		if err != nil {
			fatal(fmt.Sprintf("parse withdraw mode: %v", err))
		}
		cfg.Staking.WithdrawMode = mode
	}
	return cfg
}

func decimals(ctx *cli.Context) uint8 {
	d, err := parseDecimals(ctx.Int(decimalsFlag.Name))
	if err != nil {
		fatal(err)
	}
	return d
}

// selectGenesis returns the configured genesis, or the devnet one if none.
func selectGenesis(ctx *cli.Context, cfg *Config) *genesis.Builder {
	if cfg.Genesis == nil {
		return genesis.NewDevnet(decimals(ctx))
	}
	gc := *cfg.Genesis
	if ctx.IsSet(decimalsFlag.Name) {
		d := decimals(ctx)
		gc.Decimals = &d
	}
	b, err := gc.Builder(decimals(ctx))
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return b
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, b *genesis.Builder) string {
	dataDir := makeDataDir(ctx)

	id, err := b.ComputeID()
	if err != nil {
		fatal(fmt.Sprintf("compute genesis id: %v", err))
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id.Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, instanceDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open ledger database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open ledger database: %v", err))
	}
	return db
}

func openTransferLog(ctx *cli.Context, instanceDir string) *transferlog.TransferLog {
	if ctx.Bool(skipLogsFlag.Name) {
		return nil
	}
	var (
		tlog *transferlog.TransferLog
		err  error
	)
	if instanceDir == "" {
		tlog, err = transferlog.NewMem()
	} else {
		tlog, err = transferlog.New(filepath.Join(instanceDir, "transfers.db"))
	}
	if err != nil {
		fatal(fmt.Sprintf("open transfer log: %v", err))
	}
	return tlog
}

func initLedger(b *genesis.Builder, db *lvldb.LevelDB) (*state.Committer, *genesis.Genesis) {
	committer := state.NewCommitter(db)
	gene, err := b.Build(committer)
	if err != nil {
		if errors.Is(err, genesis.ErrMismatch) {
			fatal("the database holds a ledger of another genesis")
		}
		fatal(fmt.Sprintf("initialize ledger: %v", err))
	}
	return committer, gene
}

func newClock(gene *genesis.Genesis, interval time.Duration) *clock.Ticker {
	return clock.NewTicker(time.Unix(int64(gene.LaunchTime), 0), interval)
}

// requestBodyLimit limits the body size of requests.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 200*1024)
		h.ServeHTTP(w, r)
	})
}

func serve(listener net.Listener, handler http.Handler) (string, func()) {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		if err := g.Wait(); err != nil {
			logger.Warn("server stopped", "err", err)
		}
	}
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	return serve(listener, requestBodyLimit(handler))
}

func startMetricsServer(ctx *cli.Context) (string, func()) {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return "", func() {}
	}
	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr [%v]: %v", addr, err))
	}
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	url, stop := serve(listener, handlers.CompressHandler(router))
	return url + "metrics", stop
}

// checkClockOffset reports whether the local clock is within interval/2 of ntp.
// An unreachable ntp server is not treated as drift.
func checkClockOffset(interval time.Duration) bool {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return true
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > interval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
		return false
	}
	return true
}

func clockSyncLoop(ctx context.Context, interval time.Duration, h *health.Health) error {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	h.ClockSyncStatus(checkClockOffset(interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.ClockSyncStatus(checkClockOffset(interval))
		}
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func allowedOrigins(ctx *cli.Context) string {
	return strings.TrimSpace(ctx.String(apiCorsFlag.Name))
}

func printStartupMessage(
	name string,
	gene *genesis.Genesis,
	cfg *Config,
	dataDir string,
	apiURL string,
	metricsURL string,
) {
	if metricsURL == "" {
		metricsURL = "disabled"
	}
	fmt.Printf(`Starting %v
    Genesis      [ %v ]
    Mint         [ %v decimals %v ]
    Slot         [ %v every %v since %v ]
    Staking      [ top-up %v, min hold %v slots, withdraw %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		fmt.Sprintf("%s/v%s/%s/%s", name, fullVersion(), runtime.GOOS, runtime.Version()),
		gene.ID,
		gene.Mint, gene.Decimals,
		newClock(gene, cfg.SlotInterval).Slot(), cfg.SlotInterval, time.Unix(int64(gene.LaunchTime), 0),
		cfg.Staking.AllowTopUp, cfg.Staking.MinimumHoldPeriod, cfg.Staking.WithdrawMode,
		dataDir,
		apiURL,
		metricsURL)
}

func printSoloStartupMessage(gene *genesis.Genesis, cfg *Config, dataDir, apiURL, metricsURL string) {
	printStartupMessage("stakevault solo", gene, cfg, dataDir, apiURL, metricsURL)

	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	info := tableHead
	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			custody.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.stakevault")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.stakevault")
		default:
			return filepath.Join(home, ".org.vechain.stakevault")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
