package token

import (
	"fmt"
	"math/big"
)

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

type allowanceRecord struct {
	Amount       *big.Int `json:"amount"`
	ExpiryLedger uint64   `json:"expiryLedger"`
}

// Engine is a state-backed reference implementation of the Ledger interface.
// The production deployment talks to the host token contract instead; this
// engine exists so the vault and market engines can be exercised against real
// allowance and balance semantics.
type Engine struct {
	addr     [20]byte
	name     string
	symbol   string
	decimals uint32
	state    engineState
	seqFn    func() uint64
}

// NewEngine creates a token ledger identified by addr with fixed metadata.
func NewEngine(addr [20]byte, name, symbol string, decimals uint32) *Engine {
	return &Engine{
		addr:     addr,
		name:     name,
		symbol:   symbol,
		decimals: decimals,
		seqFn:    func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the ledger.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetSequenceFunc overrides the ledger-sequence source used for allowance
// expiry checks. Primarily intended for tests.
func (e *Engine) SetSequenceFunc(seq func() uint64) {
	if seq == nil {
		e.seqFn = func() uint64 { return 0 }
		return
	}
	e.seqFn = seq
}

func (e *Engine) sequence() uint64 {
	if e == nil || e.seqFn == nil {
		return 0
	}
	return e.seqFn()
}

// ContractAddress returns the token's own address.
func (e *Engine) ContractAddress() [20]byte { return e.addr }

// Name returns the token name captured at construction.
func (e *Engine) Name() string { return e.name }

// Symbol returns the token symbol captured at construction.
func (e *Engine) Symbol() string { return e.symbol }

// Decimals returns the token decimals captured at construction.
func (e *Engine) Decimals() uint32 { return e.decimals }

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// BalanceOf returns the balance for addr, defaulting to zero when no entry
// exists.
func (e *Engine) BalanceOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	var stored big.Int
	ok, err := e.state.KVGet(balanceKey(e.addr, addr), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return &stored, nil
}

func (e *Engine) writeBalance(addr [20]byte, amount *big.Int) error {
	return e.state.KVPut(balanceKey(e.addr, addr), amount)
}

// Mint credits freshly issued tokens to addr. Only test and genesis tooling
// should call this; vaults and markets never mint underlying assets.
func (e *Engine) Mint(addr [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return ErrNegativeAmount
	}
	balance, err := e.BalanceOf(addr)
	if err != nil {
		return err
	}
	return e.writeBalance(addr, new(big.Int).Add(balance, amt))
}

// Transfer moves amount from one holder to another.
func (e *Engine) Transfer(from, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	fromBalance, err := e.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amt) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, fromBalance, amt)
	}
	toBalance, err := e.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := e.writeBalance(from, new(big.Int).Sub(fromBalance, amt)); err != nil {
		return err
	}
	return e.writeBalance(to, new(big.Int).Add(toBalance, amt))
}

// Allowance returns the live allowance from owner to spender. Absent or
// expired records read as zero.
func (e *Engine) Allowance(owner, spender [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	var record allowanceRecord
	ok, err := e.state.KVGet(allowanceKey(e.addr, owner, spender), &record)
	if err != nil {
		return nil, err
	}
	if !ok || e.sequence() > record.ExpiryLedger {
		return big.NewInt(0), nil
	}
	return cloneAmount(record.Amount), nil
}

// Approve sets the allowance from owner to spender, replacing any prior
// record. A zero amount clears the record. The expiry must not already have
// passed.
func (e *Engine) Approve(owner, spender [20]byte, amount *big.Int, expiryLedger uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return ErrNegativeAmount
	}
	key := allowanceKey(e.addr, owner, spender)
	if amt.Sign() == 0 {
		return e.state.KVDelete(key)
	}
	if expiryLedger < e.sequence() {
		return ErrInvalidExpiry
	}
	return e.state.KVPut(key, allowanceRecord{Amount: amt, ExpiryLedger: expiryLedger})
}

// TransferFrom moves amount from the owner to the recipient on behalf of the
// spender, deducting the spender's allowance. Exhausted allowances are
// deleted rather than retained at zero.
func (e *Engine) TransferFrom(spender, from, to [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	amt := cloneAmount(amount)
	if amt.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amt.Sign() == 0 {
		return nil
	}
	key := allowanceKey(e.addr, from, spender)
	var record allowanceRecord
	ok, err := e.state.KVGet(key, &record)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoAllowance
	}
	if e.sequence() > record.ExpiryLedger {
		return ErrAllowanceExpired
	}
	if record.Amount == nil || record.Amount.Cmp(amt) < 0 {
		return ErrInsufficientAllowance
	}
	if err := e.Transfer(from, to, amt); err != nil {
		return err
	}
	remaining := new(big.Int).Sub(record.Amount, amt)
	if remaining.Sign() > 0 {
		return e.state.KVPut(key, allowanceRecord{Amount: remaining, ExpiryLedger: record.ExpiryLedger})
	}
	return e.state.KVDelete(key)
}
