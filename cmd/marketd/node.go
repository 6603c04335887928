package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"marketvault/config"
	"marketvault/core/events"
	"marketvault/native/market"
	"marketvault/native/token"
	"marketvault/native/vault"
	"marketvault/storage"
)

// node is the composition root: one shared state backend, a token ledger, and
// the vault and market engines wired on top of it. Oracle and keeper traffic
// reaches the engines through whatever transport the deployment puts in
// front; the node only owns the wiring.
type node struct {
	cfg     *config.Config
	logger  *slog.Logger
	state   *storage.State
	ledger  *token.Engine
	vaults  map[[20]byte]*vault.Engine
	markets map[[20]byte]*market.Engine
	started time.Time

	// Ledger clock. A chain deployment derives these from consensus; the
	// daemon advances them locally.
	sequence atomic.Uint64
}

func newNode(cfg *config.Config, db storage.Database, logger *slog.Logger) *node {
	return &node{
		cfg:     cfg,
		logger:  logger,
		state:   storage.NewState(db),
		vaults:  make(map[[20]byte]*vault.Engine),
		markets: make(map[[20]byte]*market.Engine),
		started: time.Now(),
	}
}

func (n *node) now() int64      { return time.Now().Unix() }
func (n *node) seq() uint64     { return n.sequence.Load() }
func (n *node) nextSeq() uint64 { return n.sequence.Add(1) }

// logEmitter publishes engine events to the structured log. A deployment
// that indexes events swaps in a real sink here.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	l.logger.Info("engine event", "type", evt.EventType())
}

// bootstrap instantiates the engines declared in the configuration: the
// asset ledger first, then the vaults, then the markets that resolve their
// vault pairs among them.
func (n *node) bootstrap() error {
	if n.cfg == nil || n.state == nil {
		return fmt.Errorf("marketd: node not fully configured")
	}
	tokenAddr, err := config.DecodeAddress(n.cfg.Token.Address)
	if err != nil {
		return fmt.Errorf("marketd: token: %w", err)
	}
	n.RegisterToken(tokenAddr, n.cfg.Token.Name, n.cfg.Token.Symbol, n.cfg.Token.Decimals)
	for _, v := range n.cfg.Vaults {
		addr, err := config.DecodeAddress(v.Address)
		if err != nil {
			return fmt.Errorf("marketd: vault: %w", err)
		}
		n.RegisterVault(addr)
	}
	for _, m := range n.cfg.Markets {
		addr, err := config.DecodeAddress(m.Address)
		if err != nil {
			return fmt.Errorf("marketd: market: %w", err)
		}
		n.RegisterMarket(addr)
	}
	return nil
}

// advanceLedger ticks the local ledger sequence at the configured close
// interval, standing in for consensus ledger closes. Allowance expiries are
// denominated in these ticks.
func (n *node) advanceLedger(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n.nextSeq()
		case <-stop:
			return
		}
	}
}

// RegisterToken wires the asset ledger engine for the given token address.
func (n *node) RegisterToken(addr [20]byte, name, symbol string, decimals uint32) *token.Engine {
	ledger := token.NewEngine(addr, name, symbol, decimals)
	ledger.SetState(n.state)
	ledger.SetSequenceFunc(n.seq)
	n.ledger = ledger
	return ledger
}

// RegisterVault wires a vault engine at the given contract address.
func (n *node) RegisterVault(addr [20]byte) *vault.Engine {
	v := vault.NewEngine(addr)
	v.SetState(n.state)
	v.SetLedger(n.ledger)
	v.SetEmitter(logEmitter{logger: n.logger})
	v.SetNowFunc(n.now)
	v.SetSequenceFunc(n.seq)
	v.SetDecimalsOffset(n.cfg.DecimalsOffset)
	n.vaults[addr] = v
	return v
}

// RegisterMarket wires a market engine at the given contract address over the
// previously registered vaults.
func (n *node) RegisterMarket(addr [20]byte) *market.Engine {
	m := market.NewEngine(addr)
	m.SetState(n.state)
	m.SetLedger(n.ledger)
	m.SetEmitter(logEmitter{logger: n.logger})
	m.SetNowFunc(n.now)
	m.SetSequenceFunc(n.seq)
	m.SetVaultResolver(func(a [20]byte) (market.VaultClient, error) {
		v, ok := n.vaults[a]
		if !ok {
			return nil, fmt.Errorf("marketd: no vault registered at %x", a)
		}
		return v, nil
	})
	n.markets[addr] = m
	return m
}
