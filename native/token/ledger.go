package token

import (
	"errors"
	"math/big"
)

var (
	ErrNilState              = errors.New("token: state not configured")
	ErrNegativeAmount        = errors.New("token: negative amount")
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrNoAllowance           = errors.New("token: no allowance")
	ErrAllowanceExpired      = errors.New("token: allowance expired")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	ErrInvalidExpiry         = errors.New("token: allowance expiry before current ledger")
)

// Ledger is the fungible-token surface consumed by the vault and market
// engines. It mirrors the host token contract: balances, direct transfers,
// delegated transfers against a time-bounded allowance, and cached metadata.
type Ledger interface {
	ContractAddress() [20]byte
	Name() string
	Symbol() string
	Decimals() uint32
	BalanceOf(addr [20]byte) (*big.Int, error)
	Transfer(from, to [20]byte, amount *big.Int) error
	TransferFrom(spender, from, to [20]byte, amount *big.Int) error
	Allowance(owner, spender [20]byte) (*big.Int, error)
	Approve(owner, spender [20]byte, amount *big.Int, expiryLedger uint64) error
}
