package vault

import (
	"math/big"
	"time"

	"marketvault/core/auth"
	"marketvault/core/events"
	"marketvault/core/types"
	"marketvault/native/token"
)

type vaultEvent struct {
	evt *types.Event
}

func (e vaultEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e vaultEvent) Event() *types.Event { return e.evt }

// Engine implements the tokenized-vault accounting surface: share/asset
// conversion, the deposit/mint/withdraw/redeem quartet, the share allowance
// subsystem and the pause state machine. One engine instance corresponds to
// one deployed vault, addressed by its contract address.
type Engine struct {
	addr           [20]byte
	st             *state
	ledger         token.Ledger
	emitter        events.Emitter
	authz          auth.Authorizer
	nowFn          func() int64
	seqFn          func() uint64
	decimalsOffset uint32
}

// NewEngine creates a vault engine for the given contract address with a
// no-op emitter and permissive authorizer. Callers wire real collaborators
// through the setters.
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
// Passing nil resets it to the permissive default.
func (e *Engine) SetAuthorizer(authz auth.Authorizer) {
	if authz == nil {
		e.authz = auth.AllowAll{}
		return
	}
	e.authz = authz
}

// SetNowFunc overrides the ledger timestamp source. Primarily intended for
// tests to provide deterministic time.
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

// SetDecimalsOffset configures the virtual decimals offset applied to the
// share price formula. Zero in the current protocol.
func (e *Engine) SetDecimalsOffset(offset uint32) { e.decimalsOffset = offset }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(vaultEvent{evt: event})
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

// ContractAddress returns the vault's own address.
func (e *Engine) ContractAddress() [20]byte { return e.addr }

// Initialize binds the vault to its administrator and underlying asset,
// caching the asset metadata. A second call always fails; the cached metadata
// is never re-read from the token afterwards.
func (e *Engine) Initialize(admin [20]byte, lockTimestamp, unlockTimestamp int64) (string, string, uint32, error) {
	st, err := e.requireState()
	if err != nil {
		return "", "", 0, err
	}
	if e.ledger == nil {
		return "", "", 0, ErrNilLedger
	}
	if err := e.authz.RequireAuth(admin); err != nil {
		return "", "", 0, err
	}
	initialized, err := st.hasAdministrator()
	if err != nil {
		return "", "", 0, err
	}
	if initialized {
		return "", "", 0, ErrAlreadyInitialized
	}
	if lockTimestamp > unlockTimestamp {
		return "", "", 0, ErrInvalidLockWindow
	}

	name := e.ledger.Name()
	symbol := e.ledger.Symbol()
	decimals := e.ledger.Decimals()
	asset := e.ledger.ContractAddress()

	err = st.kv.WithRollback(func() error {
		if err := st.writeAssetAddress(asset); err != nil {
			return err
		}
		if err := st.writeAssetName(name); err != nil {
			return err
		}
		if err := st.writeAssetSymbol(symbol); err != nil {
			return err
		}
		if err := st.writeAssetDecimals(decimals); err != nil {
			return err
		}
		if err := st.writeTotalShares(big.NewInt(0)); err != nil {
			return err
		}
		if err := st.writeLockTimestamp(lockTimestamp); err != nil {
			return err
		}
		if err := st.writeUnlockTimestamp(unlockTimestamp); err != nil {
			return err
		}
		return st.writeAdministrator(admin)
	})
	if err != nil {
		return "", "", 0, err
	}

	e.emit(NewInitializedEvent(admin, asset, name, symbol, decimals))
	return name, symbol, decimals, nil
}

// AdministratorAddress returns the administrator set at initialization.
func (e *Engine) AdministratorAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readAdministrator()
}

// AssetAddress returns the cached underlying asset address.
func (e *Engine) AssetAddress() ([20]byte, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return [20]byte{}, err
	}
	return st.readAssetAddress()
}

// AssetName returns the cached underlying asset name.
func (e *Engine) AssetName() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readAssetName()
}

// AssetSymbol returns the cached underlying asset symbol.
func (e *Engine) AssetSymbol() (string, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return "", err
	}
	return st.readAssetSymbol()
}

// AssetDecimals returns the cached asset decimals plus the vault's virtual
// decimals offset.
func (e *Engine) AssetDecimals() (uint32, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	decimals, err := st.readAssetDecimals()
	if err != nil {
		return 0, err
	}
	return decimals + e.decimalsOffset, nil
}

// TotalAssets reports the vault's asset balance in whole asset units.
func (e *Engine) TotalAssets() (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	if e.ledger == nil {
		return nil, ErrNilLedger
	}
	balance, err := e.ledger.BalanceOf(e.addr)
	if err != nil {
		return nil, err
	}
	decimals, err := st.readAssetDecimals()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Quo(balance, pow10(decimals)), nil
}

// TotalShares reports the total minted share supply.
func (e *Engine) TotalShares() (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	return st.readTotalShares()
}

// BalanceOfShares reports the share balance held by addr.
func (e *Engine) BalanceOfShares(addr [20]byte) (*big.Int, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return nil, err
	}
	return st.readSharesOf(addr)
}

// LockTimestamp returns the start of the deposit/withdraw freeze window.
func (e *Engine) LockTimestamp() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readLockTimestamp()
}

// UnlockTimestamp returns the end of the deposit/withdraw freeze window.
func (e *Engine) UnlockTimestamp() (int64, error) {
	st, err := e.requireInitialized()
	if err != nil {
		return 0, err
	}
	return st.readUnlockTimestamp()
}

// convertToShares applies shares = assets*(totalShares+10^offset)/(totalAssets+1).
func (e *Engine) convertToShares(assets *big.Int, rounding Rounding) (*big.Int, error) {
	if assets == nil || assets.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	totalShares, err := e.TotalShares()
	if err != nil {
		return nil, err
	}
	totalAssets, err := e.TotalAssets()
	if err != nil {
		return nil, err
	}
	numerator := new(big.Int).Add(totalShares, pow10(e.decimalsOffset))
	denominator := new(big.Int).Add(totalAssets, big.NewInt(1))
	return MulDiv(assets, numerator, denominator, rounding)
}

// convertToAssets applies assets = shares*(totalAssets+1)/(totalShares+10^offset).
func (e *Engine) convertToAssets(shares *big.Int, rounding Rounding) (*big.Int, error) {
	if shares == nil || shares.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	totalShares, err := e.TotalShares()
	if err != nil {
		return nil, err
	}
	totalAssets, err := e.TotalAssets()
	if err != nil {
		return nil, err
	}
	numerator := new(big.Int).Add(totalAssets, big.NewInt(1))
	denominator := new(big.Int).Add(totalShares, pow10(e.decimalsOffset))
	return MulDiv(shares, numerator, denominator, rounding)
}

// ConvertToShares quotes the floor-rounded share amount for assets.
func (e *Engine) ConvertToShares(assets *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToShares(assets, RoundFloor)
}

// ConvertToAssets quotes the floor-rounded asset amount for shares.
func (e *Engine) ConvertToAssets(shares *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToAssets(shares, RoundFloor)
}

// ConvertToSharesSimulate runs the conversion formula over caller-supplied
// totals instead of live vault state. Used for potential-return projections.
func (e *Engine) ConvertToSharesSimulate(assets, totalAssets, totalShares *big.Int) (*big.Int, error) {
	if assets == nil || totalAssets == nil || totalShares == nil {
		return big.NewInt(0), nil
	}
	if assets.Sign() <= 0 || totalAssets.Cmp(assets) <= 0 || totalShares.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	numerator := new(big.Int).Add(totalShares, pow10(e.decimalsOffset))
	denominator := new(big.Int).Add(totalAssets, big.NewInt(1))
	return MulDiv(assets, numerator, denominator, RoundFloor)
}

// ConvertToAssetsSimulate is the inverse simulation of ConvertToSharesSimulate.
func (e *Engine) ConvertToAssetsSimulate(shares, totalShares, totalAssets *big.Int) (*big.Int, error) {
	if shares == nil || totalShares == nil || totalAssets == nil {
		return big.NewInt(0), nil
	}
	if shares.Sign() <= 0 || totalShares.Cmp(shares) <= 0 || totalAssets.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	numerator := new(big.Int).Add(totalAssets, big.NewInt(1))
	denominator := new(big.Int).Add(totalShares, pow10(e.decimalsOffset))
	return MulDiv(shares, numerator, denominator, RoundFloor)
}

// MaxDeposit reports the deposit cap. The vault does not cap deposits.
func (e *Engine) MaxDeposit([20]byte) *big.Int { return MaxI128() }

// MaxMint reports the mint cap. The vault does not cap mints.
func (e *Engine) MaxMint([20]byte) *big.Int { return MaxI128() }

// MaxWithdraw reports the owner's convertible asset balance.
func (e *Engine) MaxWithdraw(owner [20]byte) (*big.Int, error) {
	shares, err := e.BalanceOfShares(owner)
	if err != nil {
		return nil, err
	}
	return e.convertToAssets(shares, RoundFloor)
}

// MaxRedeem reports the owner's share balance.
func (e *Engine) MaxRedeem(owner [20]byte) (*big.Int, error) {
	return e.BalanceOfShares(owner)
}

// PreviewDeposit quotes shares for an exact asset deposit (floor).
func (e *Engine) PreviewDeposit(assets *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToShares(assets, RoundFloor)
}

// PreviewMint quotes assets for an exact share mint. Rounds up so minting
// never pays less than the floor-rounded fair price.
func (e *Engine) PreviewMint(shares *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToAssets(shares, RoundCeil)
}

// PreviewWithdraw quotes shares for an exact asset withdrawal (ceiling).
func (e *Engine) PreviewWithdraw(assets *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToShares(assets, RoundCeil)
}

// PreviewRedeem quotes assets for an exact share redemption (floor).
func (e *Engine) PreviewRedeem(shares *big.Int) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	return e.convertToAssets(shares, RoundFloor)
}

// Deposit moves assets from the caller into the vault and mints the
// floor-quoted shares to the receiver, returning the share amount.
func (e *Engine) Deposit(assets *big.Int, caller, receiver [20]byte) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if err := e.authz.RequireAuth(caller); err != nil {
		return nil, err
	}
	if assets == nil || assets.Sign() <= 0 {
		return nil, ErrZeroAssets
	}
	if assets.Cmp(e.MaxDeposit(receiver)) > 0 {
		return nil, ErrExceededMaxDeposit
	}
	shares, err := e.convertToShares(assets, RoundFloor)
	if err != nil {
		return nil, err
	}
	if err := e.deposit(caller, receiver, assets, shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// Mint issues an exact share amount to the receiver, charging the caller the
// ceiling-quoted asset amount, which is returned.
func (e *Engine) Mint(shares *big.Int, caller, receiver [20]byte) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if err := e.authz.RequireAuth(caller); err != nil {
		return nil, err
	}
	if shares == nil || shares.Sign() <= 0 {
		return nil, ErrZeroShares
	}
	if shares.Cmp(e.MaxMint(receiver)) > 0 {
		return nil, ErrExceededMaxMint
	}
	assets, err := e.convertToAssets(shares, RoundCeil)
	if err != nil {
		return nil, err
	}
	if err := e.deposit(caller, receiver, assets, shares); err != nil {
		return nil, err
	}
	return assets, nil
}

// Withdraw burns the ceiling-quoted shares from owner and pays an exact asset
// amount to the receiver, returning the share amount. A caller other than the
// owner spends the owner's share allowance first.
func (e *Engine) Withdraw(assets *big.Int, caller, receiver, owner [20]byte) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if err := e.authz.RequireAuth(caller); err != nil {
		return nil, err
	}
	if assets == nil || assets.Sign() <= 0 {
		return nil, ErrZeroAssets
	}
	maxAssets, err := e.MaxWithdraw(owner)
	if err != nil {
		return nil, err
	}
	if assets.Cmp(maxAssets) > 0 {
		return nil, ErrExceededMaxWithdraw
	}
	shares, err := e.convertToShares(assets, RoundCeil)
	if err != nil {
		return nil, err
	}
	if err := e.withdraw(caller, receiver, owner, assets, shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// Redeem burns an exact share amount from owner and pays the floor-quoted
// assets to the receiver, returning the asset amount.
func (e *Engine) Redeem(shares *big.Int, caller, receiver, owner [20]byte) (*big.Int, error) {
	if _, err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if err := e.authz.RequireAuth(caller); err != nil {
		return nil, err
	}
	if shares == nil || shares.Sign() <= 0 {
		return nil, ErrZeroShares
	}
	maxShares, err := e.MaxRedeem(owner)
	if err != nil {
		return nil, err
	}
	if shares.Cmp(maxShares) > 0 {
		return nil, ErrExceededMaxRedeem
	}
	assets, err := e.convertToAssets(shares, RoundFloor)
	if err != nil {
		return nil, err
	}
	if err := e.withdraw(caller, receiver, owner, assets, shares); err != nil {
		return nil, err
	}
	return assets, nil
}

// ensureOpen rejects the operation while the vault is paused or inside the
// lock window.
func (e *Engine) ensureOpen(st *state) error {
	paused, err := st.isPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	now := e.now()
	lock, err := st.readLockTimestamp()
	if err != nil {
		return err
	}
	unlock, err := st.readUnlockTimestamp()
	if err != nil {
		return err
	}
	if now >= lock && now <= unlock {
		return ErrLocked
	}
	return nil
}

func (e *Engine) scaleToLedger(st *state, amount *big.Int) (*big.Int, error) {
	decimals, err := st.readAssetDecimals()
	if err != nil {
		return nil, err
	}
	scaled := new(big.Int).Mul(amount, pow10(decimals))
	if err := checkI128(scaled); err != nil {
		return nil, err
	}
	return scaled, nil
}

func (e *Engine) mintShares(st *state, receiver [20]byte, shares *big.Int) error {
	total, err := st.readTotalShares()
	if err != nil {
		return err
	}
	receiverShares, err := st.readSharesOf(receiver)
	if err != nil {
		return err
	}
	newTotal := new(big.Int).Add(total, shares)
	if err := checkI128(newTotal); err != nil {
		return err
	}
	if err := st.writeTotalShares(newTotal); err != nil {
		return err
	}
	return st.writeSharesOf(receiver, new(big.Int).Add(receiverShares, shares))
}

func (e *Engine) burnShares(st *state, owner [20]byte, shares *big.Int) error {
	total, err := st.readTotalShares()
	if err != nil {
		return err
	}
	ownerShares, err := st.readSharesOf(owner)
	if err != nil {
		return err
	}
	newTotal := new(big.Int).Sub(total, shares)
	newOwner := new(big.Int).Sub(ownerShares, shares)
	if newTotal.Sign() < 0 || newOwner.Sign() < 0 {
		return ErrArithmetic
	}
	if err := st.writeTotalShares(newTotal); err != nil {
		return err
	}
	return st.writeSharesOf(owner, newOwner)
}

// deposit performs the gated low-level deposit: the asset transfer from the
// caller must complete before any shares exist, closing the reentrancy window
// where shares would be backed by assets still in flight. The whole flow runs
// in a rollback scope so a failure after the transfer leaves no partial state.
func (e *Engine) deposit(caller, receiver [20]byte, assets, shares *big.Int) error {
	st, err := e.requireState()
	if err != nil {
		return err
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	return st.kv.WithRollback(func() error {
		if err := e.ensureOpen(st); err != nil {
			return err
		}
		depositPaused, err := st.depositPaused()
		if err != nil {
			return err
		}
		if depositPaused {
			return ErrDepositPaused
		}
		scaled, err := e.scaleToLedger(st, assets)
		if err != nil {
			return err
		}
		balance, err := e.ledger.BalanceOf(caller)
		if err != nil {
			return err
		}
		if balance.Cmp(scaled) < 0 {
			return ErrInsufficientBalance
		}
		if err := e.ledger.Transfer(caller, e.addr, scaled); err != nil {
			return err
		}
		if err := e.mintShares(st, receiver, shares); err != nil {
			return err
		}
		e.emit(NewDepositEvent(caller, receiver, assets, shares))
		return nil
	})
}

// withdraw performs the gated low-level withdrawal: shares are burned before
// the asset transfer leaves the vault, mirroring the deposit ordering. The
// rollback scope restores a spent allowance when a later step fails.
func (e *Engine) withdraw(caller, receiver, owner [20]byte, assets, shares *big.Int) error {
	st, err := e.requireState()
	if err != nil {
		return err
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	return st.kv.WithRollback(func() error {
		if err := e.ensureOpen(st); err != nil {
			return err
		}
		withdrawPaused, err := st.withdrawPaused()
		if err != nil {
			return err
		}
		if withdrawPaused {
			return ErrWithdrawPaused
		}
		if caller != owner {
			if err := e.spendAllowance(owner, caller, shares); err != nil {
				return err
			}
		}
		scaled, err := e.scaleToLedger(st, assets)
		if err != nil {
			return err
		}
		balance, err := e.ledger.BalanceOf(e.addr)
		if err != nil {
			return err
		}
		if balance.Cmp(scaled) < 0 {
			return ErrInsufficientBalance
		}
		if err := e.burnShares(st, owner, shares); err != nil {
			return err
		}
		if err := e.ledger.Transfer(e.addr, receiver, scaled); err != nil {
			return err
		}
		e.emit(NewWithdrawEvent(caller, receiver, owner, assets, shares))
		return nil
	})
}

// ApproveShares lets owner delegate share spending to spender, expiring after
// the given number of days.
func (e *Engine) ApproveShares(owner, spender [20]byte, amount *big.Int, expireInDays uint32) error {
	if _, err := e.requireInitialized(); err != nil {
		return err
	}
	if err := e.authz.RequireAuth(owner); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if owner == spender {
		return ErrSelfApproveOrTransfer
	}
	expiry, err := e.calculateExpiryLedger(expireInDays)
	if err != nil {
		return err
	}
	return e.approveAllowance(owner, spender, amount, expiry)
}

// TransferShares moves shares directly between holders. The total supply is
// unchanged.
func (e *Engine) TransferShares(owner, receiver [20]byte, shares *big.Int) error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if err := e.authz.RequireAuth(owner); err != nil {
		return err
	}
	if shares == nil || shares.Sign() <= 0 {
		return ErrInvalidAmount
	}
	ownerShares, err := st.readSharesOf(owner)
	if err != nil {
		return err
	}
	if ownerShares.Cmp(shares) < 0 {
		return ErrInvalidAmount
	}
	if owner == receiver {
		return ErrSelfApproveOrTransfer
	}
	receiverShares, err := st.readSharesOf(receiver)
	if err != nil {
		return err
	}
	err = st.kv.WithRollback(func() error {
		if err := st.writeSharesOf(owner, new(big.Int).Sub(ownerShares, shares)); err != nil {
			return err
		}
		return st.writeSharesOf(receiver, new(big.Int).Add(receiverShares, shares))
	})
	if err != nil {
		return err
	}
	e.emit(NewSharesTransferredEvent(owner, receiver, shares))
	return nil
}

// ApproveAssetAllowance grants spender an allowance over the vault's
// underlying asset balance. Admin-gated: the vault acts on its own behalf,
// but only the administrator may direct it to.
func (e *Engine) ApproveAssetAllowance(spender [20]byte, amount *big.Int, expiryLedger uint64) error {
	st, err := e.requireInitialized()
	if err != nil {
		return err
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	admin, err := st.readAdministrator()
	if err != nil {
		return err
	}
	if err := e.authz.RequireAuth(admin); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return e.ledger.Approve(e.addr, spender, amount, expiryLedger)
}

// IsPaused reports the global pause flag. Errors read as unpaused.
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

// Pause sets the global pause flag.
func (e *Engine) Pause() error {
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
	return st.writePaused()
}

// Unpause clears the global pause flag together with both per-operation
// flags.
func (e *Engine) Unpause() error {
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
		return ErrNotPaused
	}
	return st.kv.WithRollback(func() error {
		if err := st.removePaused(); err != nil {
			return err
		}
		if err := st.removeDepositPaused(); err != nil {
			return err
		}
		return st.removeWithdrawPaused()
	})
}

// PauseDeposit pauses deposits only. Illegal while globally paused.
func (e *Engine) PauseDeposit() error {
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
	depositPaused, err := st.depositPaused()
	if err != nil {
		return err
	}
	if depositPaused {
		return ErrDepositAlreadyPaused
	}
	return st.writeDepositPaused()
}

// PauseWithdrawal pauses withdrawals only. Illegal while globally paused.
func (e *Engine) PauseWithdrawal() error {
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
	withdrawPaused, err := st.withdrawPaused()
	if err != nil {
		return err
	}
	if withdrawPaused {
		return ErrWithdrawAlreadyPaused
	}
	return st.writeWithdrawPaused()
}

// UnpauseDeposit lifts a deposit pause taken under global pause. It converts
// the state into a withdrawal pause instead of fully unpausing; the coupling
// is inherited behaviour pending product confirmation, not an accident of
// this port.
func (e *Engine) UnpauseDeposit() error {
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
	depositPaused, err := st.depositPaused()
	if err != nil {
		return err
	}
	if !paused || !depositPaused {
		return ErrDepositNotPaused
	}
	return st.kv.WithRollback(func() error {
		if err := st.writeWithdrawPaused(); err != nil {
			return err
		}
		if err := st.removeDepositPaused(); err != nil {
			return err
		}
		return st.removePaused()
	})
}

// UnpauseWithdrawal mirrors UnpauseDeposit: lifting a withdrawal pause under
// global pause leaves deposits paused.
func (e *Engine) UnpauseWithdrawal() error {
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
	withdrawPaused, err := st.withdrawPaused()
	if err != nil {
		return err
	}
	if !paused || !withdrawPaused {
		return ErrWithdrawNotPaused
	}
	return st.kv.WithRollback(func() error {
		if err := st.writeDepositPaused(); err != nil {
			return err
		}
		if err := st.removeWithdrawPaused(); err != nil {
			return err
		}
		return st.removePaused()
	})
}
