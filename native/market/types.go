package market

import "math/big"

// Status tracks the market lifecycle. A market moves LIVE -> MATURE or
// LIQUIDATE on an oracle bump, and MATURE -> MATURED or LIQUIDATE ->
// LIQUIDATED when a keeper settles it. MATURED and LIQUIDATED are terminal.
type Status uint32

const (
	StatusLive Status = iota + 1
	StatusLocked
	StatusMature
	StatusMatured
	StatusLiquidate
	StatusLiquidated
)

func (s Status) String() string {
	switch s {
	case StatusLive:
		return "live"
	case StatusLocked:
		return "locked"
	case StatusMature:
		return "mature"
	case StatusMatured:
		return "matured"
	case StatusLiquidate:
		return "liquidate"
	case StatusLiquidated:
		return "liquidated"
	default:
		return "unknown"
	}
}

// Risk grades the market for display purposes only; it carries no accounting
// weight.
type Risk uint32

const (
	RiskLow Risk = iota + 1
	RiskMedium
	RiskHigh
	RiskUnknown
)

func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Parameter bounds enforced at initialization. Periods are in seconds, the
// commission fee is a whole percentage.
const (
	MinCommissionFee         uint32 = 0
	MaxCommissionFee         uint32 = 100
	MinLockSeconds           int64  = 0
	MaxLockSeconds           int64  = 604800 // 7 days
	MinEventThresholdSeconds int64  = 0
	MaxEventThresholdSeconds int64  = 86400 // 1 day
	MinUnlockSeconds         int64  = 0
	MaxUnlockSeconds         int64  = 604800 // 7 days

	// AllowanceTTLLedgers bounds the cross-vault settlement allowances
	// granted at initialization, roughly one day of ledgers.
	AllowanceTTLLedgers uint64 = 17280
)

// Data carries everything needed to open a market.
type Data struct {
	Name                  string
	Description           string
	AdminAddress          [20]byte
	AssetAddress          [20]byte
	OracleName            string
	OracleAddress         [20]byte
	HedgeVaultAddress     [20]byte
	RiskVaultAddress      [20]byte
	CommissionFee         uint32
	RiskScore             Risk
	IsAutomatic           bool
	EventTimestamp        int64
	LockPeriodSeconds     int64
	EventThresholdSeconds int64
	UnlockPeriodSeconds   int64
}

// Details is the aggregate read-model served to frontends: market metadata
// plus a per-vault snapshot including the caller's own share position.
type Details struct {
	Name          string
	Description   string
	Status        Status
	HedgeAddress  [20]byte
	RiskAddress   [20]byte
	OracleAddress [20]byte
	OracleName    string
	RiskScore     Risk
	EventTime     int64
	IsAutomatic   bool
	CommissionFee uint32

	HedgeAdminAddress [20]byte
	HedgeAssetAddress [20]byte
	HedgeAssetSymbol  string
	HedgeTotalShares  *big.Int
	HedgeTotalAssets  *big.Int
	HedgeCallerShares *big.Int

	RiskAdminAddress [20]byte
	RiskAssetAddress [20]byte
	RiskAssetSymbol  string
	RiskTotalShares  *big.Int
	RiskTotalAssets  *big.Int
	RiskCallerShares *big.Int
}

// VaultClient is the surface the market needs from its two vaults. The vault
// engine satisfies it; tests substitute doubles to exercise failure paths.
type VaultClient interface {
	Initialize(admin [20]byte, lockTimestamp, unlockTimestamp int64) (string, string, uint32, error)
	ContractAddress() [20]byte
	AdministratorAddress() ([20]byte, error)
	AssetAddress() ([20]byte, error)
	AssetSymbol() (string, error)
	TotalAssets() (*big.Int, error)
	TotalShares() (*big.Int, error)
	BalanceOfShares(addr [20]byte) (*big.Int, error)
	ConvertToAssetsSimulate(shares, totalShares, totalAssets *big.Int) (*big.Int, error)
	ApproveAssetAllowance(spender [20]byte, amount *big.Int, expiryLedger uint64) error
	Pause() error
	Unpause() error
	UnpauseWithdrawal() error
	IsPaused() bool
}
