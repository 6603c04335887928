package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"marketvault/config"
	"marketvault/observability/logging"
	"marketvault/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	memory := flag.Bool("memory", false, "DEV ONLY: run against an in-memory store instead of LevelDB")
	flag.Parse()

	logger := logging.Setup("marketd", os.Getenv("MARKETVAULT_NETWORK"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	var db storage.Database
	if *memory {
		db = storage.NewMemDB()
		logger.Warn("using in-memory storage, state will not survive a restart")
	} else {
		path := filepath.Join(cfg.DataDir, "state")
		ldb, err := storage.NewLevelDB(path)
		if err != nil {
			logger.Error("failed to open database", "path", path, "err", err)
			os.Exit(1)
		}
		db = ldb
	}
	defer db.Close()

	n := newNode(cfg, db, logger)
	if err := n.bootstrap(); err != nil {
		logger.Error("failed to bootstrap engines", "err", err)
		os.Exit(1)
	}

	// Five second ledger closes, matching the allowance TTL arithmetic.
	ledgerStop := make(chan struct{})
	go n.advanceLedger(5*time.Second, ledgerStop)

	logger.Info("marketd started",
		"network", cfg.NetworkName,
		"dataDir", cfg.DataDir,
		"vaults", len(n.vaults),
		"markets", len(n.markets))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	close(ledgerStop)
	logger.Info("shutting down", "signal", fmt.Sprintf("%v", sig), "uptime", time.Since(n.started).String())
}
