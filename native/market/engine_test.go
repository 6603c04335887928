package market

import (
	"errors"
	"math/big"
	"testing"

	"marketvault/core/events"
	"marketvault/core/types"
	"marketvault/native/token"
	"marketvault/native/vault"
	"marketvault/storage"
)

type capturingEmitter struct {
	events []*types.Event
}

func (c *capturingEmitter) Emit(evt events.Event) {
	payload, ok := evt.(interface{ Event() *types.Event })
	if !ok {
		return
	}
	c.events = append(c.events, payload.Event())
}

func (c *capturingEmitter) lastOfType(eventType string) *types.Event {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i]
		}
	}
	return nil
}

func addr(b byte) [20]byte {
	var a [20]byte
	a[19] = b
	return a
}

func i64(v int64) *int64 { return &v }

type marketEnv struct {
	market  *Engine
	hedge   *vault.Engine
	risk    *vault.Engine
	ledger  *token.Engine
	emitter *capturingEmitter
	now     int64
	seq     uint64
}

// newMarketEnv wires a market over two real vault engines and a shared token
// ledger at two decimals. The default market expects its event at t=1000 with
// a 100s threshold.
func newMarketEnv(t *testing.T) *marketEnv {
	t.Helper()
	st := storage.NewState(storage.NewMemDB())
	env := &marketEnv{emitter: &capturingEmitter{}, now: 500, seq: 10}
	nowFn := func() int64 { return env.now }
	seqFn := func() uint64 { return env.seq }

	env.ledger = token.NewEngine(addr(0xAA), "US Dollar Coin", "USDC", 2)
	env.ledger.SetState(st)
	env.ledger.SetSequenceFunc(seqFn)

	env.hedge = vault.NewEngine(addr(0x03))
	env.hedge.SetState(st)
	env.hedge.SetLedger(env.ledger)
	env.hedge.SetNowFunc(nowFn)
	env.hedge.SetSequenceFunc(seqFn)

	env.risk = vault.NewEngine(addr(0x04))
	env.risk.SetState(st)
	env.risk.SetLedger(env.ledger)
	env.risk.SetNowFunc(nowFn)
	env.risk.SetSequenceFunc(seqFn)

	vaults := map[[20]byte]VaultClient{
		addr(0x03): env.hedge,
		addr(0x04): env.risk,
	}
	env.market = NewEngine(addr(0x02))
	env.market.SetState(st)
	env.market.SetLedger(env.ledger)
	env.market.SetEmitter(env.emitter)
	env.market.SetNowFunc(nowFn)
	env.market.SetSequenceFunc(seqFn)
	env.market.SetVaultResolver(func(a [20]byte) (VaultClient, error) {
		client, ok := vaults[a]
		if !ok {
			return nil, errors.New("unknown vault")
		}
		return client, nil
	})
	return env
}

func defaultData() Data {
	return Data{
		Name:                  "rainfall-90d",
		Description:           "Hedge against heavy rainfall within 90 days",
		AdminAddress:          addr(0x10),
		AssetAddress:          addr(0xAA),
		OracleName:            "acme weather",
		OracleAddress:         addr(0x50),
		HedgeVaultAddress:     addr(0x03),
		RiskVaultAddress:      addr(0x04),
		CommissionFee:         10,
		RiskScore:             RiskMedium,
		IsAutomatic:           true,
		EventTimestamp:        1000,
		LockPeriodSeconds:     100,
		EventThresholdSeconds: 100,
		UnlockPeriodSeconds:   200,
	}
}

func (env *marketEnv) initMarket(t *testing.T) {
	t.Helper()
	if err := env.market.Init(defaultData()); err != nil {
		t.Fatalf("init market: %v", err)
	}
}

func (env *marketEnv) deposit(t *testing.T, v *vault.Engine, holder [20]byte, assets int64) {
	t.Helper()
	if err := env.ledger.Mint(holder, big.NewInt(assets*100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := v.Deposit(big.NewInt(assets), holder, holder); err != nil {
		t.Fatalf("deposit: %v", err)
	}
}

func (env *marketEnv) ledgerBalance(t *testing.T, holder [20]byte) int64 {
	t.Helper()
	balance, err := env.ledger.BalanceOf(holder)
	if err != nil {
		t.Fatalf("balance of: %v", err)
	}
	return balance.Int64()
}

func (env *marketEnv) status(t *testing.T) Status {
	t.Helper()
	status, err := env.market.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	return status
}

func TestInitOpensMarketAndVaults(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)

	if got := env.status(t); got != StatusLive {
		t.Fatalf("status = %v, want live", got)
	}
	name, err := env.market.Name()
	if err != nil || name != "rainfall-90d" {
		t.Fatalf("name = %q, %v", name, err)
	}
	id, err := env.market.MarketID()
	if err != nil || len(id) != 64 {
		t.Fatalf("market id = %q, %v", id, err)
	}

	// Both vaults are initialized with the derived lock window [900, 1300].
	lock, err := env.hedge.LockTimestamp()
	if err != nil || lock != 900 {
		t.Fatalf("hedge lock = %d, %v", lock, err)
	}
	unlock, err := env.risk.UnlockTimestamp()
	if err != nil || unlock != 1300 {
		t.Fatalf("risk unlock = %d, %v", unlock, err)
	}

	// Cross-vault settlement allowances are in place.
	allowance, err := env.ledger.Allowance(addr(0x03), addr(0x04))
	if err != nil {
		t.Fatalf("allowance: %v", err)
	}
	if allowance.Cmp(vault.MaxI128()) != 0 {
		t.Fatalf("hedge->risk allowance = %s", allowance)
	}
	allowance, err = env.ledger.Allowance(addr(0x04), addr(0x03))
	if err != nil {
		t.Fatalf("allowance: %v", err)
	}
	if allowance.Cmp(vault.MaxI128()) != 0 {
		t.Fatalf("risk->hedge allowance = %s", allowance)
	}

	if env.emitter.lastOfType(EventTypeInitialized) == nil {
		t.Fatalf("expected initialized event")
	}

	if err := env.market.Init(defaultData()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second init: expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Data)
		want   error
	}{
		{"event in past", func(d *Data) { d.EventTimestamp = 499 }, ErrInvalidEventTimestamp},
		{"lock too long", func(d *Data) { d.LockPeriodSeconds = MaxLockSeconds + 1 }, ErrInvalidLockPeriod},
		{"negative lock", func(d *Data) { d.LockPeriodSeconds = -1 }, ErrInvalidLockPeriod},
		{"threshold too long", func(d *Data) { d.EventThresholdSeconds = MaxEventThresholdSeconds + 1 }, ErrInvalidEventThreshold},
		{"unlock too long", func(d *Data) { d.UnlockPeriodSeconds = MaxUnlockSeconds + 1 }, ErrInvalidUnlockPeriod},
		{"same vaults", func(d *Data) { d.RiskVaultAddress = d.HedgeVaultAddress }, ErrSameVaultAddresses},
		{"fee over 100", func(d *Data) { d.CommissionFee = 101 }, ErrInvalidCommissionFee},
	}
	for _, tc := range cases {
		env := newMarketEnv(t)
		data := defaultData()
		tc.mutate(&data)
		if err := env.market.Init(data); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBumpDecisionTable(t *testing.T) {
	// Expected event at 1000, threshold 100, so the deadline is 1100.
	cases := []struct {
		name       string
		occurred   bool
		eventTime  *int64
		wantErr    error
		wantStatus Status
	}{
		{"occurred past deadline", true, i64(1101), nil, StatusLiquidate},
		{"occurred at deadline", true, i64(1100), nil, StatusMature},
		{"occurred before event", true, i64(999), nil, StatusMature},
		{"occurred without time", true, nil, ErrEventTimeRequired, StatusLive},
		{"no event without time", false, nil, nil, StatusLive},
		{"no event at deadline", false, i64(1100), nil, StatusMature},
		{"no event past deadline", false, i64(1500), nil, StatusMature},
		{"no event before deadline", false, i64(1099), nil, StatusLive},
	}
	for _, tc := range cases {
		env := newMarketEnv(t)
		env.initMarket(t)
		err := env.market.Bump(tc.occurred, tc.eventTime)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
		} else if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := env.status(t); got != tc.wantStatus {
			t.Fatalf("%s: status = %v, want %v", tc.name, got, tc.wantStatus)
		}
	}
}

func TestBumpRecordsTimesAndEvents(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	env.now = 600

	if err := env.market.Bump(true, i64(1101)); err != nil {
		t.Fatalf("bump: %v", err)
	}
	oracleTime, err := env.market.LastOracleTime()
	if err != nil || oracleTime != 600 {
		t.Fatalf("last oracle time = %d, %v", oracleTime, err)
	}
	liquidatedTime, err := env.market.LiquidatedTime()
	if err != nil || liquidatedTime != 600 {
		t.Fatalf("liquidated time = %d, %v", liquidatedTime, err)
	}
	actual, err := env.market.ActualTimeOfEvent()
	if err != nil || actual != 1101 {
		t.Fatalf("actual event time = %d, %v", actual, err)
	}
	if env.emitter.lastOfType(EventTypeCanLiquidate) == nil {
		t.Fatalf("expected can_liquidate event")
	}

	// A flagged market rejects further bumps.
	if err := env.market.Bump(true, i64(1101)); !errors.Is(err, ErrAlreadyLiquidated) {
		t.Fatalf("repeat bump: expected ErrAlreadyLiquidated, got %v", err)
	}
}

func TestBumpOnMatureFlagged(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	if err := env.market.Bump(true, i64(1000)); err != nil {
		t.Fatalf("bump: %v", err)
	}
	maturedTime, err := env.market.MaturedTime()
	if err != nil || maturedTime != 500 {
		t.Fatalf("matured time = %d, %v", maturedTime, err)
	}
	if env.emitter.lastOfType(EventTypeCanMature) == nil {
		t.Fatalf("expected can_mature event")
	}
	if err := env.market.Bump(false, i64(1500)); !errors.Is(err, ErrAlreadyMatured) {
		t.Fatalf("repeat bump: expected ErrAlreadyMatured, got %v", err)
	}
}

func TestMatureRequiresFlag(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	if err := env.market.Mature(); !errors.Is(err, ErrNotMature) {
		t.Fatalf("mature from live: expected ErrNotMature, got %v", err)
	}
	if err := env.market.Liquidate(); !errors.Is(err, ErrNotLiquidate) {
		t.Fatalf("liquidate from live: expected ErrNotLiquidate, got %v", err)
	}
	// Rejected keeper calls leave no trace, including the keeper timestamp.
	if _, err := env.market.LastKeeperTime(); !errors.Is(err, ErrLastKeeperTimeNotSet) {
		t.Fatalf("expected ErrLastKeeperTimeNotSet, got %v", err)
	}
}

func TestRejectedBumpLeavesNoTrace(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	env.now = 600

	if err := env.market.Bump(true, nil); !errors.Is(err, ErrEventTimeRequired) {
		t.Fatalf("expected ErrEventTimeRequired, got %v", err)
	}
	if _, err := env.market.LastOracleTime(); !errors.Is(err, ErrLastOracleTimeNotSet) {
		t.Fatalf("expected ErrLastOracleTimeNotSet, got %v", err)
	}
	if got := env.status(t); got != StatusLive {
		t.Fatalf("status = %v, want live", got)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	env.deposit(t, env.hedge, addr(0x20), 10)
	env.deposit(t, env.risk, addr(0x21), 5)

	if err := env.market.Bump(true, i64(1000)); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if err := env.market.Mature(); err != nil {
		t.Fatalf("mature: %v", err)
	}
	if got := env.status(t); got != StatusMatured {
		t.Fatalf("status = %v, want matured", got)
	}
	if env.emitter.lastOfType(EventTypeMatured) == nil {
		t.Fatalf("expected matured event")
	}

	if err := env.market.Mature(); !errors.Is(err, ErrNotMature) {
		t.Fatalf("second mature: expected ErrNotMature, got %v", err)
	}
	if err := env.market.Liquidate(); !errors.Is(err, ErrNotLiquidate) {
		t.Fatalf("liquidate after mature: expected ErrNotLiquidate, got %v", err)
	}
	if err := env.market.Bump(true, i64(1000)); !errors.Is(err, ErrAlreadyMatured) {
		t.Fatalf("bump after mature: expected ErrAlreadyMatured, got %v", err)
	}
}

func TestDispute(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	if err := env.market.Dispute(); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestChangeOracleAndRiskScore(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)

	if err := env.market.ChangeOracle(addr(0x51), "backup oracle"); err != nil {
		t.Fatalf("change oracle: %v", err)
	}
	oracle, err := env.market.OracleAddress()
	if err != nil || oracle != addr(0x51) {
		t.Fatalf("oracle = %x, %v", oracle, err)
	}
	name, err := env.market.OracleName()
	if err != nil || name != "backup oracle" {
		t.Fatalf("oracle name = %q, %v", name, err)
	}

	if err := env.market.ChangeRiskScore(RiskHigh); err != nil {
		t.Fatalf("change risk score: %v", err)
	}
	risk, err := env.market.RiskScore()
	if err != nil || risk != RiskHigh {
		t.Fatalf("risk score = %v, %v", risk, err)
	}

	if err := env.market.PauseMarket(); err != nil {
		t.Fatalf("pause market: %v", err)
	}
	if err := env.market.ChangeOracle(addr(0x52), "x"); !errors.Is(err, ErrPaused) {
		t.Fatalf("change oracle while paused: expected ErrPaused, got %v", err)
	}
	if err := env.market.ChangeRiskScore(RiskLow); !errors.Is(err, ErrPaused) {
		t.Fatalf("change risk while paused: expected ErrPaused, got %v", err)
	}
}

func TestPausePropagatesToVaults(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)

	if err := env.market.PauseMarket(); err != nil {
		t.Fatalf("pause market: %v", err)
	}
	if !env.market.IsPaused() || !env.hedge.IsPaused() || !env.risk.IsPaused() {
		t.Fatalf("expected market and both vaults paused")
	}
	if err := env.market.PauseMarket(); !errors.Is(err, ErrAlreadyPaused) {
		t.Fatalf("double pause: expected ErrAlreadyPaused, got %v", err)
	}
	if err := env.market.Bump(true, i64(1101)); !errors.Is(err, ErrPaused) {
		t.Fatalf("bump while paused: expected ErrPaused, got %v", err)
	}

	if err := env.market.UnpauseMarket(); err != nil {
		t.Fatalf("unpause market: %v", err)
	}
	if env.market.IsPaused() || env.hedge.IsPaused() || env.risk.IsPaused() {
		t.Fatalf("expected market and both vaults unpaused")
	}
	if err := env.market.UnpauseMarket(); !errors.Is(err, ErrAlreadyUnpaused) {
		t.Fatalf("double unpause: expected ErrAlreadyUnpaused, got %v", err)
	}
}

type stubVault struct {
	addr       [20]byte
	pauseErr   error
	unpauseErr error
	paused     bool
}

func (s *stubVault) Initialize([20]byte, int64, int64) (string, string, uint32, error) {
	return "stub", "STB", 0, nil
}
func (s *stubVault) ContractAddress() [20]byte               { return s.addr }
func (s *stubVault) AdministratorAddress() ([20]byte, error) { return [20]byte{}, nil }
func (s *stubVault) AssetAddress() ([20]byte, error)         { return [20]byte{}, nil }
func (s *stubVault) AssetSymbol() (string, error)            { return "STB", nil }
func (s *stubVault) TotalAssets() (*big.Int, error)          { return big.NewInt(0), nil }
func (s *stubVault) TotalShares() (*big.Int, error)          { return big.NewInt(0), nil }
func (s *stubVault) BalanceOfShares([20]byte) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (s *stubVault) ConvertToAssetsSimulate(_, _, _ *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}
func (s *stubVault) ApproveAssetAllowance([20]byte, *big.Int, uint64) error { return nil }
func (s *stubVault) Pause() error {
	if s.pauseErr != nil {
		return s.pauseErr
	}
	s.paused = true
	return nil
}
func (s *stubVault) Unpause() error {
	if s.unpauseErr != nil {
		return s.unpauseErr
	}
	s.paused = false
	return nil
}
func (s *stubVault) UnpauseWithdrawal() error { return nil }
func (s *stubVault) IsPaused() bool           { return s.paused }

func TestPauseFailureLeavesMarketUnpaused(t *testing.T) {
	env := newMarketEnv(t)
	hedge := &stubVault{addr: addr(0x03)}
	risk := &stubVault{addr: addr(0x04), pauseErr: errors.New("vault unavailable")}
	vaults := map[[20]byte]VaultClient{addr(0x03): hedge, addr(0x04): risk}
	env.market.SetVaultResolver(func(a [20]byte) (VaultClient, error) {
		client, ok := vaults[a]
		if !ok {
			return nil, errors.New("unknown vault")
		}
		return client, nil
	})
	env.initMarket(t)

	if err := env.market.PauseMarket(); !errors.Is(err, ErrVaultPause) {
		t.Fatalf("expected ErrVaultPause, got %v", err)
	}
	if env.market.IsPaused() {
		t.Fatalf("market must stay unpaused when vault pause fails")
	}
}

func TestUnpauseFailureKeepsMarketPaused(t *testing.T) {
	env := newMarketEnv(t)
	hedge := &stubVault{addr: addr(0x03)}
	risk := &stubVault{addr: addr(0x04), unpauseErr: errors.New("vault unavailable")}
	vaults := map[[20]byte]VaultClient{addr(0x03): hedge, addr(0x04): risk}
	env.market.SetVaultResolver(func(a [20]byte) (VaultClient, error) {
		client, ok := vaults[a]
		if !ok {
			return nil, errors.New("unknown vault")
		}
		return client, nil
	})
	env.initMarket(t)

	if err := env.market.PauseMarket(); err != nil {
		t.Fatalf("pause market: %v", err)
	}
	if err := env.market.UnpauseMarket(); !errors.Is(err, ErrVaultUnpause) {
		t.Fatalf("expected ErrVaultUnpause, got %v", err)
	}
	// The flag is restored: the market never reads unpaused while a vault
	// is still locked down.
	if !env.market.IsPaused() {
		t.Fatalf("market must stay paused when a vault unpause fails")
	}
}

func TestTimingViews(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)

	until, err := env.market.TimeUntilEvent()
	if err != nil || until != 500 {
		t.Fatalf("time until event = %d, %v", until, err)
	}
	lockAt, err := env.market.TimeOfLock()
	if err != nil || lockAt != 900 {
		t.Fatalf("time of lock = %d, %v", lockAt, err)
	}
	untilLock, err := env.market.TimeUntilLock()
	if err != nil || untilLock != 400 {
		t.Fatalf("time until lock = %d, %v", untilLock, err)
	}
	unlockAt, err := env.market.TimeOfUnlock()
	if err != nil || unlockAt != 1300 {
		t.Fatalf("time of unlock = %d, %v", unlockAt, err)
	}
	untilUnlock, err := env.market.TimeUntilUnlock()
	if err != nil || untilUnlock != 800 {
		t.Fatalf("time until unlock = %d, %v", untilUnlock, err)
	}

	// Past timestamps clamp to zero.
	env.now = 2000
	until, err = env.market.TimeUntilEvent()
	if err != nil || until != 0 {
		t.Fatalf("time until event after = %d, %v", until, err)
	}
	untilUnlock, err = env.market.TimeUntilUnlock()
	if err != nil || untilUnlock != 0 {
		t.Fatalf("time until unlock after = %d, %v", untilUnlock, err)
	}

	if _, err := env.market.ActualTimeOfEvent(); !errors.Is(err, ErrActualEventTimeNotSet) {
		t.Fatalf("expected ErrActualEventTimeNotSet, got %v", err)
	}
	if _, err := env.market.LastOracleTime(); !errors.Is(err, ErrLastOracleTimeNotSet) {
		t.Fatalf("expected ErrLastOracleTimeNotSet, got %v", err)
	}
	if _, err := env.market.LastKeeperTime(); !errors.Is(err, ErrLastKeeperTimeNotSet) {
		t.Fatalf("expected ErrLastKeeperTimeNotSet, got %v", err)
	}
	if _, err := env.market.MaturedTime(); !errors.Is(err, ErrMaturedTimeNotSet) {
		t.Fatalf("expected ErrMaturedTimeNotSet, got %v", err)
	}
	if _, err := env.market.LiquidatedTime(); !errors.Is(err, ErrLiquidatedTimeNotSet) {
		t.Fatalf("expected ErrLiquidatedTimeNotSet, got %v", err)
	}
}

func TestRatiosAndDetails(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	env.deposit(t, env.hedge, addr(0x20), 40)
	env.deposit(t, env.risk, addr(0x21), 5)

	assetsRatio, err := env.market.VaultAssetsRatio()
	if err != nil || assetsRatio.Int64() != 8 {
		t.Fatalf("assets ratio = %s, %v", assetsRatio, err)
	}
	sharesRatio, err := env.market.VaultSharesRatio()
	if err != nil || sharesRatio.Int64() != 8 {
		t.Fatalf("shares ratio = %s, %v", sharesRatio, err)
	}

	details, err := env.market.MarketDetails(addr(0x20))
	if err != nil {
		t.Fatalf("market details: %v", err)
	}
	if details.Name != "rainfall-90d" || details.Status != StatusLive {
		t.Fatalf("details header mismatch: %+v", details)
	}
	if details.HedgeAssetSymbol != "USDC" || details.RiskAssetSymbol != "USDC" {
		t.Fatalf("details symbols mismatch: %+v", details)
	}
	if details.HedgeTotalAssets.Int64() != 40 || details.RiskTotalAssets.Int64() != 5 {
		t.Fatalf("details totals mismatch: %+v", details)
	}
	if details.HedgeCallerShares.Int64() != 40 || details.RiskCallerShares.Int64() != 0 {
		t.Fatalf("details caller shares mismatch: %+v", details)
	}
}

func TestRatiosZeroWhenEmpty(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	env.deposit(t, env.hedge, addr(0x20), 40)

	assetsRatio, err := env.market.VaultAssetsRatio()
	if err != nil || assetsRatio.Sign() != 0 {
		t.Fatalf("assets ratio = %s, %v", assetsRatio, err)
	}
	sharesRatio, err := env.market.VaultSharesRatio()
	if err != nil || sharesRatio.Sign() != 0 {
		t.Fatalf("shares ratio = %s, %v", sharesRatio, err)
	}
}

func TestPotentialReturns(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	// Two hedge depositors so the caller's stake is a strict subset of the
	// share supply; the simulated conversion returns zero otherwise.
	env.deposit(t, env.hedge, addr(0x20), 10)
	env.deposit(t, env.hedge, addr(0x22), 30)
	env.deposit(t, env.risk, addr(0x21), 5)

	// Ledger balances: hedge 4000, risk 500. Fee 10% on each side leaves
	// 4050 distributable; 10 of 40 shares projects floor(10*4051/41).
	ret, err := env.market.HedgePotentialReturn(addr(0x20))
	if err != nil {
		t.Fatalf("hedge potential return: %v", err)
	}
	if ret.Int64() != 988 {
		t.Fatalf("hedge potential return = %s, want 988", ret)
	}

	// The sole risk depositor holds the whole supply, so the projection
	// short-circuits to zero.
	ret, err = env.market.RiskPotentialReturn(addr(0x21))
	if err != nil {
		t.Fatalf("risk potential return: %v", err)
	}
	if ret.Sign() != 0 {
		t.Fatalf("risk potential return = %s, want 0", ret)
	}
}

func TestExercising(t *testing.T) {
	env := newMarketEnv(t)
	env.initMarket(t)
	mode, err := env.market.Exercising()
	if err != nil || mode != "Automatic" {
		t.Fatalf("exercising = %q, %v", mode, err)
	}
}

func TestViewsRequireInit(t *testing.T) {
	env := newMarketEnv(t)
	if _, err := env.market.Status(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("status: expected ErrNotInitialized, got %v", err)
	}
	if err := env.market.Bump(true, i64(1000)); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("bump: expected ErrNotInitialized, got %v", err)
	}
	if err := env.market.Mature(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("mature: expected ErrNotInitialized, got %v", err)
	}
	if _, err := env.market.MarketDetails(addr(1)); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("details: expected ErrNotInitialized, got %v", err)
	}
}
