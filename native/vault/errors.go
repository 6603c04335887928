package vault

import "errors"

var (
	// Lifecycle and configuration.
	ErrNilState           = errors.New("vault: state not configured")
	ErrNilLedger          = errors.New("vault: asset ledger not configured")
	ErrNotInitialized     = errors.New("vault: not initialized")
	ErrAlreadyInitialized = errors.New("vault: already initialized")
	ErrInvalidLockWindow  = errors.New("vault: lock timestamp after unlock timestamp")

	// Deposit/withdraw bounds.
	ErrZeroAssets          = errors.New("vault: assets must be positive")
	ErrZeroShares          = errors.New("vault: shares must be positive")
	ErrInvalidAmount       = errors.New("vault: invalid amount")
	ErrExceededMaxDeposit  = errors.New("vault: exceeded max deposit")
	ErrExceededMaxMint     = errors.New("vault: exceeded max mint")
	ErrExceededMaxWithdraw = errors.New("vault: exceeded max withdraw")
	ErrExceededMaxRedeem   = errors.New("vault: exceeded max redeem")
	ErrInsufficientBalance = errors.New("vault: insufficient balance")

	// Allowance subsystem.
	ErrNoAllowance           = errors.New("vault: no allowance")
	ErrInsufficientAllowance = errors.New("vault: insufficient allowance")
	ErrAllowanceExpired      = errors.New("vault: allowance expired")
	ErrInvalidExpiry         = errors.New("vault: allowance expiry out of range")
	ErrInvalidExpiryDays     = errors.New("vault: expiry days out of range")
	ErrSelfApproveOrTransfer = errors.New("vault: cannot approve or transfer to self")

	// Pause state machine.
	ErrAlreadyPaused         = errors.New("vault: contract already paused")
	ErrNotPaused             = errors.New("vault: contract not paused")
	ErrDepositAlreadyPaused  = errors.New("vault: deposit already paused")
	ErrDepositNotPaused      = errors.New("vault: deposit not paused")
	ErrWithdrawAlreadyPaused = errors.New("vault: withdrawal already paused")
	ErrWithdrawNotPaused     = errors.New("vault: withdrawal not paused")

	// Operation gating. The reference implementation aborted on these inside
	// the low-level deposit/withdraw primitives; they are typed here so every
	// externally observable failure flows through one discipline.
	ErrPaused         = errors.New("vault: contract is paused")
	ErrDepositPaused  = errors.New("vault: deposits are paused")
	ErrWithdrawPaused = errors.New("vault: withdrawals are paused")
	ErrLocked         = errors.New("vault: vault is locked")

	// Money-math faults.
	ErrArithmetic = errors.New("vault: arithmetic error")
)
