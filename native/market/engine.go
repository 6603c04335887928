package market

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"marketvault/core/auth"
	"marketvault/core/events"
	"marketvault/core/types"
	"marketvault/native/token"
	"marketvault/native/vault"
)

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

// VaultResolver maps a vault contract address to a live client. The
// composition root registers the deployed vault engines here.
type VaultResolver func(addr [20]byte) (VaultClient, error)

// Engine orchestrates one hedge/risk market: it opens the paired vaults,
// consumes oracle bumps, and settles collateral between the vaults when a
// keeper matures or liquidates the market.
type Engine struct {
	addr    [20]byte
	st      *state
	ledger  token.Ledger
	vaultFn VaultResolver
	emitter events.Emitter
	authz   auth.Authorizer
	nowFn   func() int64
	seqFn   func() uint64
}

// NewEngine creates a market engine for the given contract address with a
// no-op emitter and permissive authorizer.
func NewEngine(addr [20]byte) *Engine {
	return &Engine{
		addr:    addr,
		emitter: events.NoopEmitter{},
		authz:   auth.AllowAll{},
		nowFn:   func() int64 { return time.Now().Unix() },
		seqFn:   func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(kv KVStore) {
	if kv == nil {
		e.st = nil
		return
	}
	e.st = &state{kv: kv, addr: e.addr}
}

// SetLedger configures the underlying asset ledger.
func (e *Engine) SetLedger(ledger token.Ledger) { e.ledger = ledger }

// SetVaultResolver configures the lookup from vault address to client.
func (e *Engine) SetVaultResolver(resolver VaultResolver) { e.vaultFn = resolver }

// SetEmitter configures the event emitter. Passing nil resets the emitter to
// a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetAuthorizer configures the capability used to prove caller authorization.
func (e *Engine) SetAuthorizer(authz auth.Authorizer) {
	if authz == nil {
		e.authz = auth.AllowAll{}
		return
	}
	e.authz = authz
}

// SetNowFunc overrides the ledger timestamp source.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetSequenceFunc overrides the ledger sequence source.
func (e *Engine) SetSequenceFunc(seq func() uint64) {
	if seq == nil {
		e.seqFn = func() uint64 { return 0 }
		return
	}
	e.seqFn = seq
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(marketEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) sequence() uint64 {
	if e == nil || e.seqFn == nil {
		return 0
	}
	return e.seqFn()
}

func (e *Engine) vault(addr [20]byte) (VaultClient, error) {
	if e.vaultFn == nil {
		return nil, ErrNilVaultResolver
	}
	return e.vaultFn(addr)
}

func (e *Engine) requireState() (*state, error) {
	if e == nil || e.st == nil {
		return nil, ErrNilState
	}
	return e.st, nil
}

func (e *Engine) requireInitialized() (*state, error) {
	st, err := e.requireState()
	if err != nil {
		return nil, err
	}
	ok, err := st.hasAdministrator()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return st, nil
}

func (e *Engine) ensureNotPaused(st *state) error {
	paused, err := st.isPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (e *Engine) ensureNotSettled(st *state) error {
	status, err := st.readStatus()
	if err != nil {
		return err
	}
	if status == StatusLiquidate || status == StatusLiquidated {
		return ErrAlreadyLiquidated
	}
	if status == StatusMature || status == StatusMatured {
		return ErrAlreadyMatured
	}
	return nil
}

// ContractAddress returns the market's own address.
func (e *Engine) ContractAddress() [20]byte { return e.addr }

// marketID derives a stable identifier for off-chain indexing.
func marketID(data Data) string {
	var preimage []byte
	preimage = append(preimage, data.AdminAddress[:]...)
	preimage = append(preimage, data.HedgeVaultAddress[:]...)
	preimage = append(preimage, data.RiskVaultAddress[:]...)
	preimage = append(preimage, []byte(data.Name)...)
	return hex.EncodeToString(crypto.Keccak256(preimage))
}

// Init opens the market: validates the parameters, initializes both vaults
// over the shared asset and lock window, grants the cross-vault settlement
// allowances, and persists the market as LIVE.
func (e *Engine) Init(data Data) error {
	st, err := e.requireState()
	if err != nil {
		return err
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	if err := e.authz.RequireAuth(data.AdminAddress); err != nil {
		return err
	}
	initialized, err := st.hasAdministrator()
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	now := e.now()
	if data.EventTimestamp < now {
		return ErrInvalidEventTimestamp
	}
	if data.LockPeriodSeconds < MinLockSeconds || data.LockPeriodSeconds > MaxLockSeconds {
		return ErrInvalidLockPeriod
	}
	if data.EventThresholdSeconds < MinEventThresholdSeconds || data.EventThresholdSeconds > MaxEventThresholdSeconds {
		return ErrInvalidEventThreshold
	}
	if data.UnlockPeriodSeconds < MinUnlockSeconds || data.UnlockPeriodSeconds > MaxUnlockSeconds {
		return ErrInvalidUnlockPeriod
	}
	if data.HedgeVaultAddress == data.RiskVaultAddress {
		return ErrSameVaultAddresses
	}
	if data.CommissionFee > MaxCommissionFee {
		return ErrInvalidCommissionFee
	}

	lockTimestamp := data.EventTimestamp - data.LockPeriodSeconds
	unlockTimestamp := data.EventTimestamp + data.EventThresholdSeconds + data.UnlockPeriodSeconds

	id := marketID(data)
	// A failed open must not leave a half-initialized vault pair behind, so
	// vault initialization, the allowance grants and the market fields all
	// commit together.
	err = st.kv.WithRollback(func() error {
		hedgeVault, err := e.vault(data.HedgeVaultAddress)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHedgeVaultInit, err)
		}
		riskVault, err := e.vault(data.RiskVaultAddress)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRiskVaultInit, err)
		}
		if _, _, _, err := hedgeVault.Initialize(data.AdminAddress, lockTimestamp, unlockTimestamp); err != nil {
			return fmt.Errorf("%w: %v", ErrHedgeVaultInit, err)
		}
		if _, _, _, err := riskVault.Initialize(data.AdminAddress, lockTimestamp, unlockTimestamp); err != nil {
			return fmt.Errorf("%w: %v", ErrRiskVaultInit, err)
		}

		// Settlement drains whole vault balances, so each vault grants the
		// other the maximum allowance up front.
		allowanceExpiry := e.sequence() + AllowanceTTLLedgers
		if err := hedgeVault.ApproveAssetAllowance(data.RiskVaultAddress, vault.MaxI128(), allowanceExpiry); err != nil {
			return fmt.Errorf("%w: %v", ErrHedgeVaultAllowance, err)
		}
		if err := riskVault.ApproveAssetAllowance(data.HedgeVaultAddress, vault.MaxI128(), allowanceExpiry); err != nil {
			return fmt.Errorf("%w: %v", ErrRiskVaultAllowance, err)
		}

		if err := st.writeAdministrator(data.AdminAddress); err != nil {
			return err
		}
		if err := st.writeAsset(data.AssetAddress); err != nil {
			return err
		}
		if err := st.writeHedgeVault(data.HedgeVaultAddress); err != nil {
			return err
		}
		if err := st.writeRiskVault(data.RiskVaultAddress); err != nil {
			return err
		}
		if err := st.writeOracleAddress(data.OracleAddress); err != nil {
			return err
		}
		if err := st.writeOracleName(data.OracleName); err != nil {
			return err
		}
		if err := st.writeStatus(StatusLive); err != nil {
			return err
		}
		if err := st.writeName(data.Name); err != nil {
			return err
		}
		if err := st.writeDescription(data.Description); err != nil {
			return err
		}
		if err := st.writeInitializedTime(now); err != nil {
			return err
		}
		if err := st.writeCommissionFee(data.CommissionFee); err != nil {
			return err
		}
		if err := st.writeRiskScore(data.RiskScore); err != nil {
			return err
		}
		if err := st.writeIsAutomatic(data.IsAutomatic); err != nil {
			return err
		}
		if err := st.writeEventTimestamp(data.EventTimestamp); err != nil {
			return err
		}
		if err := st.writeLockSeconds(data.LockPeriodSeconds); err != nil {
			return err
		}
		if err := st.writeEventThresholdSeconds(data.EventThresholdSeconds); err != nil {
			return err
		}
		if err := st.writeUnlockSeconds(data.UnlockPeriodSeconds); err != nil {
			return err
		}
		return st.writeMarketID(id)
	})
	if err != nil {
		return err
	}

	e.emit(NewInitializedEvent(data.AdminAddress, data.Name, id, now))
	return nil
}

// Status returns the current lifecycle status.
func (e *Engine) Status() (Status, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readStatus()
}

// Name returns the market name.
func (e *Engine) Name() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readName()
}

// Description returns the market description.
func (e *Engine) Description() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readDescription()
}

// MarketID returns the derived market identifier.
func (e *Engine) MarketID() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readMarketID()
}

// AdminAddress returns the administrator set at initialization.
func (e *Engine) AdminAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readAdministrator()
}

// UnderlyingAssetAddress returns the shared asset of both vaults.
func (e *Engine) UnderlyingAssetAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readAsset()
}

// HedgeAddress returns the hedge vault address.
func (e *Engine) HedgeAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readHedgeVault()
}

// RiskAddress returns the risk vault address.
func (e *Engine) RiskAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readRiskVault()
}

// OracleAddress returns the trusted oracle address.
func (e *Engine) OracleAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readOracleAddress()
}

// OracleName returns the trusted oracle display name.
func (e *Engine) OracleName() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readOracleName()
}

// ChangeOracle swaps the trusted oracle. Admin only, rejected while paused.
func (e *Engine) ChangeOracle(oracleAddress [20]byte, oracleName string) error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if err := e.ensureNotPaused(st); err != nil {
		return err
	}
	if err := e.requireAdmin(st); err != nil {
		return err
	}
	return st.kv.WithRollback(func() error {
		if err := st.writeOracleAddress(oracleAddress); err != nil {
			return err
		}
		return st.writeOracleName(oracleName)
	})
}

// InitializedTime returns when the market was opened.
func (e *Engine) InitializedTime() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readInitializedTime()
}

// ExpectedTimeOfEvent returns the scheduled event timestamp.
func (e *Engine) ExpectedTimeOfEvent() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readEventTimestamp()
}

// ActualTimeOfEvent returns the oracle-reported event timestamp, once a bump
// has recorded one.
func (e *Engine) ActualTimeOfEvent() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	actual, ok, err := st.readActualEventTimestamp()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrActualEventTimeNotSet
	}
	return actual, nil
}

// TimeUntilEvent returns the seconds remaining until the expected event,
// clamped at zero.
func (e *Engine) TimeUntilEvent() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	event, err := st.readEventTimestamp()
	if err != nil {
		return 0, err
	}
	now := e.now()
	if event <= now {
		return 0, nil
	}
	return event - now, nil
}

// LockPeriodInSeconds returns the configured lock period.
func (e *Engine) LockPeriodInSeconds() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readLockSeconds()
}

// TimeOfLock returns the timestamp at which the vaults freeze.
func (e *Engine) TimeOfLock() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	event, err := st.readEventTimestamp()
	if err != nil {
		return 0, err
	}
	lock, err := st.readLockSeconds()
	if err != nil {
		return 0, err
	}
	return event - lock, nil
}

// TimeUntilLock returns the seconds remaining before the vaults freeze,
// clamped at zero.
func (e *Engine) TimeUntilLock() (int64, error) {
	lockAt, err := e.TimeOfLock()
	if err != nil {
		return 0, err
	}
	now := e.now()
	if now >= lockAt {
		return 0, nil
	}
	return lockAt - now, nil
}

// EventThresholdInSeconds returns the configured event threshold.
func (e *Engine) EventThresholdInSeconds() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readEventThresholdSeconds()
}

// UnlockPeriodInSeconds returns the configured unlock period.
func (e *Engine) UnlockPeriodInSeconds() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readUnlockSeconds()
}

// TimeOfUnlock returns the timestamp at which the vaults reopen.
func (e *Engine) TimeOfUnlock() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	event, err := st.readEventTimestamp()
	if err != nil {
		return 0, err
	}
	threshold, err := st.readEventThresholdSeconds()
	if err != nil {
		return 0, err
	}
	unlock, err := st.readUnlockSeconds()
	if err != nil {
		return 0, err
	}
	return event + threshold + unlock, nil
}

// TimeUntilUnlock returns the seconds remaining until the vaults reopen,
// clamped at zero.
func (e *Engine) TimeUntilUnlock() (int64, error) {
	unlockAt, err := e.TimeOfUnlock()
	if err != nil {
		return 0, err
	}
	now := e.now()
	if now >= unlockAt {
		return 0, nil
	}
	return unlockAt - now, nil
}

// RiskScore returns the display risk grade.
func (e *Engine) RiskScore() (Risk, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readRiskScore()
}

// ChangeRiskScore updates the display risk grade. Admin only, rejected while
// paused.
func (e *Engine) ChangeRiskScore(risk Risk) error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if err := e.ensureNotPaused(st); err != nil {
		return err
	}
	if err := e.requireAdmin(st); err != nil {
		return err
	}
	return st.writeRiskScore(risk)
}

// Exercising reports whether settlement is expected to be automatic.
func (e *Engine) Exercising() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	automatic, err := st.readIsAutomatic()
	if err != nil {
		return "", err
	}
	if automatic {
		return "Automatic", nil
	}
	return "Manual", nil
}

// Commission returns the commission fee percentage.
func (e *Engine) Commission() (uint32, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readCommissionFee()
}

// LiquidatedTime returns when a bump flagged the market for liquidation.
func (e *Engine) LiquidatedTime() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	ts, ok, err := st.readLiquidatedTime()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrLiquidatedTimeNotSet
	}
	return ts, nil
}

// MaturedTime returns when a bump flagged the market for maturity.
func (e *Engine) MaturedTime() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	ts, ok, err := st.readMaturedTime()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrMaturedTimeNotSet
	}
	return ts, nil
}

// LastOracleTime returns the timestamp of the most recent bump.
func (e *Engine) LastOracleTime() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	ts, ok, err := st.readLastOracleTime()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrLastOracleTimeNotSet
	}
	return ts, nil
}

// LastKeeperTime returns the timestamp of the most recent keeper call.
func (e *Engine) LastKeeperTime() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	ts, ok, err := st.readLastKeeperTime()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrLastKeeperTimeNotSet
	}
	return ts, nil
}

// Bump consumes an oracle status update. The reported event time decides the
// transition: an event past the threshold window flags liquidation, an event
// inside it flags maturity, and a non-event past the window also flags
// maturity. Earlier non-events are ignored. The keeper performs the actual
// settlement afterwards.
func (e *Engine) Bump(eventOccurred bool, eventTime *int64) error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	now := e.now()
	// The oracle timestamp commits with the rest of the call: a rejected
	// bump leaves no trace.
	return st.kv.WithRollback(func() error {
		if err := st.writeLastOracleTime(now); err != nil {
			return err
		}
		if err := e.ensureNotPaused(st); err != nil {
			return err
		}
		if err := e.ensureNotSettled(st); err != nil {
			return err
		}

		expected, err := st.readEventTimestamp()
		if err != nil {
			return err
		}
		threshold, err := st.readEventThresholdSeconds()
		if err != nil {
			return err
		}
		deadline := expected + threshold

		if eventOccurred {
			if eventTime == nil {
				return ErrEventTimeRequired
			}
			if *eventTime > deadline {
				return e.flagLiquidate(st, *eventTime, now)
			}
			return e.flagMature(st, *eventTime, now)
		}
		if eventTime == nil {
			return nil
		}
		if *eventTime >= deadline {
			return e.flagMature(st, *eventTime, now)
		}
		return nil
	})
}

func (e *Engine) flagLiquidate(st *state, actualEventTime, now int64) error {
	if err := st.writeLiquidatedTime(now); err != nil {
		return err
	}
	if err := st.writeActualEventTimestamp(actualEventTime); err != nil {
		return err
	}
	if err := st.writeStatus(StatusLiquidate); err != nil {
		return err
	}
	hedge, risk, name, err := e.settlementParties(st)
	if err != nil {
		return err
	}
	e.emit(NewCanLiquidateEvent(hedge, risk, name, now))
	return nil
}

func (e *Engine) flagMature(st *state, actualEventTime, now int64) error {
	if err := st.writeMaturedTime(now); err != nil {
		return err
	}
	if err := st.writeActualEventTimestamp(actualEventTime); err != nil {
		return err
	}
	if err := st.writeStatus(StatusMature); err != nil {
		return err
	}
	hedge, risk, name, err := e.settlementParties(st)
	if err != nil {
		return err
	}
	e.emit(NewCanMatureEvent(hedge, risk, name, now))
	return nil
}

func (e *Engine) settlementParties(st *state) ([20]byte, [20]byte, string, error) {
	hedge, err := st.readHedgeVault()
	if err != nil {
		return [20]byte{}, [20]byte{}, "", err
	}
	risk, err := st.readRiskVault()
	if err != nil {
		return [20]byte{}, [20]byte{}, "", err
	}
	name, err := st.readName()
	if err != nil {
		return [20]byte{}, [20]byte{}, "", err
	}
	return hedge, risk, name, nil
}

// Mature settles a market flagged MATURE: hedge collateral moves to the risk
// vault, minus the commission. Anyone may call it. Settlement is
// all-or-nothing: a failed transfer rewinds the MATURED transition so the
// keeper can retry once the cause is fixed.
func (e *Engine) Mature() error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	now := e.now()
	return st.kv.WithRollback(func() error {
		if err := st.writeLastKeeperTime(now); err != nil {
			return err
		}
		if err := e.ensureNotPaused(st); err != nil {
			return err
		}
		status, err := st.readStatus()
		if err != nil {
			return err
		}
		if status != StatusMature {
			return ErrNotMature
		}
		if err := st.writeStatus(StatusMatured); err != nil {
			return err
		}
		hedge, risk, name, err := e.settlementParties(st)
		if err != nil {
			return err
		}
		if err := e.transferAsset(st, hedge, risk); err != nil {
			return err
		}
		e.emit(NewMaturedEvent(hedge, risk, name, now))
		return nil
	})
}

// Liquidate settles a market flagged LIQUIDATE: risk collateral moves to the
// hedge vault, minus the commission. Anyone may call it. Like Mature, the
// status transition and the transfer commit together or not at all.
func (e *Engine) Liquidate() error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	now := e.now()
	return st.kv.WithRollback(func() error {
		if err := st.writeLastKeeperTime(now); err != nil {
			return err
		}
		if err := e.ensureNotPaused(st); err != nil {
			return err
		}
		status, err := st.readStatus()
		if err != nil {
			return err
		}
		if status != StatusLiquidate {
			return ErrNotLiquidate
		}
		if err := st.writeStatus(StatusLiquidated); err != nil {
			return err
		}
		hedge, risk, name, err := e.settlementParties(st)
		if err != nil {
			return err
		}
		if err := e.transferAsset(st, risk, hedge); err != nil {
			return err
		}
		e.emit(NewLiquidatedEvent(hedge, risk, name, now))
		return nil
	})
}

// Dispute is reserved for a future resolution mechanism.
func (e *Engine) Dispute() error {
	return ErrNotImplemented
}

// VaultAssetsRatio returns the integer ratio of hedge to risk vault assets,
// zero when either side is empty.
func (e *Engine) VaultAssetsRatio() (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	hedgeVault, riskVault, err := e.vaultPair(st)
	if err != nil {
		return nil, err
	}
	hedgeAssets, err := hedgeVault.TotalAssets()
	if err != nil {
		return nil, err
	}
	riskAssets, err := riskVault.TotalAssets()
	if err != nil {
		return nil, err
	}
	if hedgeAssets.Sign() == 0 || riskAssets.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Quo(hedgeAssets, riskAssets), nil
}

// VaultSharesRatio returns the integer ratio of hedge to risk vault share
// supplies, zero when either side is empty.
func (e *Engine) VaultSharesRatio() (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	hedgeVault, riskVault, err := e.vaultPair(st)
	if err != nil {
		return nil, err
	}
	hedgeShares, err := hedgeVault.TotalShares()
	if err != nil {
		return nil, err
	}
	riskShares, err := riskVault.TotalShares()
	if err != nil {
		return nil, err
	}
	if hedgeShares.Sign() == 0 || riskShares.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Quo(hedgeShares, riskShares), nil
}

func (e *Engine) vaultPair(st *state) (VaultClient, VaultClient, error) {
	hedge, err := st.readHedgeVault()
	if err != nil {
		return nil, nil, err
	}
	risk, err := st.readRiskVault()
	if err != nil {
		return nil, nil, err
	}
	hedgeVault, err := e.vault(hedge)
	if err != nil {
		return nil, nil, err
	}
	riskVault, err := e.vault(risk)
	if err != nil {
		return nil, nil, err
	}
	return hedgeVault, riskVault, nil
}

// HedgePotentialReturn projects what the caller's hedge shares would pay if
// the market matured now: the combined collateral net of commission, run
// through the hedge vault's conversion formula.
func (e *Engine) HedgePotentialReturn(caller [20]byte) (*big.Int, error) {
	return e.potentialReturn(caller, true)
}

// RiskPotentialReturn mirrors HedgePotentialReturn for the risk side.
func (e *Engine) RiskPotentialReturn(caller [20]byte) (*big.Int, error) {
	return e.potentialReturn(caller, false)
}

func (e *Engine) potentialReturn(caller [20]byte, hedgeSide bool) (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	if e.ledger == nil {
		return nil, ErrNilLedger
	}
	if err := e.authz.RequireAuth(caller); err != nil {
		return nil, err
	}
	hedge, err := st.readHedgeVault()
	if err != nil {
		return nil, err
	}
	risk, err := st.readRiskVault()
	if err != nil {
		return nil, err
	}
	side := hedge
	if !hedgeSide {
		side = risk
	}
	sideVault, err := e.vault(side)
	if err != nil {
		return nil, err
	}
	hedgeBalance, err := e.ledger.BalanceOf(hedge)
	if err != nil {
		return nil, err
	}
	riskBalance, err := e.ledger.BalanceOf(risk)
	if err != nil {
		return nil, err
	}
	fee, err := st.readCommissionFee()
	if err != nil {
		return nil, err
	}
	distributable := new(big.Int).Add(hedgeBalance, riskBalance)
	distributable.Sub(distributable, feeAmount(hedgeBalance, fee))
	distributable.Sub(distributable, feeAmount(riskBalance, fee))

	totalShares, err := sideVault.TotalShares()
	if err != nil {
		return nil, err
	}
	callerShares, err := sideVault.BalanceOfShares(caller)
	if err != nil {
		return nil, err
	}
	return sideVault.ConvertToAssetsSimulate(callerShares, totalShares, distributable)
}

// IsPaused reports the market pause flag. Errors read as unpaused.
func (e *Engine) IsPaused() bool {
	st, err := e.requireState()
	if err != nil {
		return false
	}
	paused, err := st.isPaused()
	if err != nil {
		return false
	}
	return paused
}

func (e *Engine) requireAdmin(st *state) error {
	admin, err := st.readAdministrator()
	if err != nil {
		return err
	}
	return e.authz.RequireAuth(admin)
}

// PauseMarket pauses the market and both vaults. A vault pause failure fails
// the whole call and leaves the market unpaused.
func (e *Engine) PauseMarket() error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(st); err != nil {
		return err
	}
	paused, err := st.isPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrAlreadyPaused
	}
	hedgeVault, riskVault, err := e.vaultPair(st)
	if err != nil {
		return err
	}
	return st.kv.WithRollback(func() error {
		if err := hedgeVault.Pause(); err != nil {
			return fmt.Errorf("%w: %v", ErrVaultPause, err)
		}
		if err := riskVault.Pause(); err != nil {
			return fmt.Errorf("%w: %v", ErrVaultPause, err)
		}
		return st.writePaused()
	})
}

// UnpauseMarket unpauses the market and both vaults. The market flag clears
// before the vault calls run.
func (e *Engine) UnpauseMarket() error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(st); err != nil {
		return err
	}
	paused, err := st.isPaused()
	if err != nil {
		return err
	}
	if !paused {
		return ErrAlreadyUnpaused
	}
	hedgeVault, riskVault, err := e.vaultPair(st)
	if err != nil {
		return err
	}
	// A vault that refuses to unpause puts the flag back: the market never
	// reads unpaused while either vault is still locked down.
	return st.kv.WithRollback(func() error {
		if err := st.removePaused(); err != nil {
			return err
		}
		if err := hedgeVault.Unpause(); err != nil {
			return fmt.Errorf("%w: %v", ErrVaultUnpause, err)
		}
		if err := riskVault.Unpause(); err != nil {
			return fmt.Errorf("%w: %v", ErrVaultUnpause, err)
		}
		return nil
	})
}

// MarketDetails assembles the aggregate read-model, including the caller's
// share positions in both vaults.
func (e *Engine) MarketDetails(caller [20]byte) (*Details, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	details := &Details{}
	if details.Name, err = st.readName(); err != nil {
		return nil, err
	}
	if details.Description, err = st.readDescription(); err != nil {
		return nil, err
	}
	if details.Status, err = st.readStatus(); err != nil {
		return nil, err
	}
	if details.HedgeAddress, err = st.readHedgeVault(); err != nil {
		return nil, err
	}
	if details.RiskAddress, err = st.readRiskVault(); err != nil {
		return nil, err
	}
	if details.OracleAddress, err = st.readOracleAddress(); err != nil {
		return nil, err
	}
	if details.OracleName, err = st.readOracleName(); err != nil {
		return nil, err
	}
	if details.RiskScore, err = st.readRiskScore(); err != nil {
		return nil, err
	}
	if details.EventTime, err = st.readEventTimestamp(); err != nil {
		return nil, err
	}
	if details.IsAutomatic, err = st.readIsAutomatic(); err != nil {
		return nil, err
	}
	if details.CommissionFee, err = st.readCommissionFee(); err != nil {
		return nil, err
	}

	hedgeVault, riskVault, err := e.vaultPair(st)
	if err != nil {
		return nil, err
	}
	if details.HedgeAdminAddress, err = hedgeVault.AdministratorAddress(); err != nil {
		return nil, err
	}
	if details.HedgeAssetAddress, err = hedgeVault.AssetAddress(); err != nil {
		return nil, err
	}
	if details.HedgeAssetSymbol, err = hedgeVault.AssetSymbol(); err != nil {
		return nil, err
	}
	if details.HedgeTotalShares, err = hedgeVault.TotalShares(); err != nil {
		return nil, err
	}
	if details.HedgeTotalAssets, err = hedgeVault.TotalAssets(); err != nil {
		return nil, err
	}
	if details.HedgeCallerShares, err = hedgeVault.BalanceOfShares(caller); err != nil {
		return nil, err
	}
	if details.RiskAdminAddress, err = riskVault.AdministratorAddress(); err != nil {
		return nil, err
	}
	if details.RiskAssetAddress, err = riskVault.AssetAddress(); err != nil {
		return nil, err
	}
	if details.RiskAssetSymbol, err = riskVault.AssetSymbol(); err != nil {
		return nil, err
	}
	if details.RiskTotalShares, err = riskVault.TotalShares(); err != nil {
		return nil, err
	}
	if details.RiskTotalAssets, err = riskVault.TotalAssets(); err != nil {
		return nil, err
	}
	if details.RiskCallerShares, err = riskVault.BalanceOfShares(caller); err != nil {
		return nil, err
	}
	return details, nil
}
