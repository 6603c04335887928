package vault

import "math/big"

const (
	// DayInLedgers assumes a five second ledger close time.
	DayInLedgers = 17280
	// MaxAllowanceDays bounds how far ahead a share allowance may expire.
	MaxAllowanceDays = 30

	maxAllowanceLedgers = MaxAllowanceDays * DayInLedgers
)

// calculateExpiryLedger converts a day count into an absolute ledger-sequence
// expiry. Day counts outside [1, MaxAllowanceDays] are rejected.
func (e *Engine) calculateExpiryLedger(days uint32) (uint64, error) {
	if days == 0 || days > MaxAllowanceDays {
		return 0, ErrInvalidExpiryDays
	}
	return e.sequence() + uint64(days)*DayInLedgers, nil
}

// approveAllowance records the (owner, spender) approval, replacing any prior
// record. The expiry must land inside the open approval window.
func (e *Engine) approveAllowance(owner, spender [20]byte, amount *big.Int, expiryLedger uint64) error {
	seq := e.sequence()
	if expiryLedger < seq+1 || expiryLedger > seq+maxAllowanceLedgers {
		return ErrInvalidExpiry
	}
	allowance := AllowanceData{Amount: new(big.Int).Set(amount), ExpiryLedger: expiryLedger}
	if err := e.st.writeAllowance(owner, spender, allowance); err != nil {
		return err
	}
	e.emit(NewAllowanceApprovedEvent(owner, spender, amount, expiryLedger))
	return nil
}

// spendAllowance deducts amount from the (owner, spender) allowance, deleting
// the record when it reaches zero. A zero-amount allowance is never retained.
func (e *Engine) spendAllowance(owner, spender [20]byte, amount *big.Int) error {
	allowance, ok, err := e.st.readAllowance(owner, spender)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoAllowance
	}
	if e.sequence() > allowance.ExpiryLedger {
		return ErrAllowanceExpired
	}
	if allowance.Amount == nil || amount.Cmp(allowance.Amount) > 0 {
		return ErrInsufficientAllowance
	}
	remaining := new(big.Int).Sub(allowance.Amount, amount)
	if remaining.Sign() > 0 {
		return e.st.writeAllowance(owner, spender, AllowanceData{Amount: remaining, ExpiryLedger: allowance.ExpiryLedger})
	}
	return e.st.removeAllowance(owner, spender)
}
