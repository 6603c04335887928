package market

import "errors"

var (
	ErrNilState         = errors.New("market: state not initialised")
	ErrNilLedger        = errors.New("market: asset ledger not configured")
	ErrNilVaultResolver = errors.New("market: vault resolver not configured")

	ErrNotInitialized     = errors.New("market: not initialized")
	ErrAlreadyInitialized = errors.New("market: already initialized")

	ErrInvalidEventTimestamp = errors.New("market: event timestamp in the past")
	ErrInvalidLockPeriod     = errors.New("market: lock period out of range")
	ErrInvalidEventThreshold = errors.New("market: event threshold out of range")
	ErrInvalidUnlockPeriod   = errors.New("market: unlock period out of range")
	ErrSameVaultAddresses    = errors.New("market: hedge and risk vaults are the same")
	ErrInvalidCommissionFee  = errors.New("market: commission fee out of range")

	ErrHedgeVaultInit      = errors.New("market: hedge vault initialization failed")
	ErrRiskVaultInit       = errors.New("market: risk vault initialization failed")
	ErrHedgeVaultAllowance = errors.New("market: hedge vault allowance failed")
	ErrRiskVaultAllowance  = errors.New("market: risk vault allowance failed")

	ErrPaused          = errors.New("market: paused")
	ErrAlreadyPaused   = errors.New("market: already paused")
	ErrAlreadyUnpaused = errors.New("market: already unpaused")
	ErrVaultPause      = errors.New("market: vault pause failed")
	ErrVaultUnpause    = errors.New("market: vault unpause failed")

	ErrNotMature         = errors.New("market: not in mature state")
	ErrNotLiquidate      = errors.New("market: not in liquidate state")
	ErrAlreadyMatured    = errors.New("market: already matured")
	ErrAlreadyLiquidated = errors.New("market: already liquidated")
	ErrEventTimeRequired = errors.New("market: event time required")

	ErrInsufficientAllowance               = errors.New("market: insufficient allowance for settlement")
	ErrInsufficientAllowanceForFeeTransfer = errors.New("market: insufficient allowance for fee transfer")

	ErrActualEventTimeNotSet = errors.New("market: actual event time not set")
	ErrLiquidatedTimeNotSet  = errors.New("market: liquidated time not set")
	ErrMaturedTimeNotSet     = errors.New("market: matured time not set")
	ErrLastOracleTimeNotSet  = errors.New("market: last oracle time not set")
	ErrLastKeeperTimeNotSet  = errors.New("market: last keeper time not set")

	ErrNotImplemented = errors.New("market: not implemented")
)
