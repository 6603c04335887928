package market

import "math/big"

var hundred = big.NewInt(100)

// feeAmount computes amount*fee/100, floored. A zero fee short-circuits.
func feeAmount(amount *big.Int, feePercentage uint32) *big.Int {
	if feePercentage == 0 || amount == nil {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(amount, big.NewInt(int64(feePercentage)))
	return fee.Quo(fee, hundred)
}

// transferAsset drains the losing vault into the winning one and routes the
// commission on both pre-settlement balances to the administrator. Both
// cross-vault allowances must cover the full balances before anything moves;
// all amounts are computed from pre-transfer balances so the fee legs cannot
// double count the settled collateral.
func (e *Engine) transferAsset(st *state, fromVault, toVault [20]byte) error {
	if e.ledger == nil {
		return ErrNilLedger
	}
	allowanceFrom, err := e.ledger.Allowance(fromVault, toVault)
	if err != nil {
		return err
	}
	balanceFrom, err := e.ledger.BalanceOf(fromVault)
	if err != nil {
		return err
	}
	if balanceFrom.Cmp(allowanceFrom) > 0 {
		return ErrInsufficientAllowance
	}
	fee, err := st.readCommissionFee()
	if err != nil {
		return err
	}
	if fee == 0 {
		return e.ledger.Transfer(fromVault, toVault, balanceFrom)
	}

	feeFrom := feeAmount(balanceFrom, fee)
	balanceTo, err := e.ledger.BalanceOf(toVault)
	if err != nil {
		return err
	}
	feeTo := feeAmount(balanceTo, fee)
	allowanceTo, err := e.ledger.Allowance(toVault, fromVault)
	if err != nil {
		return err
	}
	if balanceTo.Cmp(allowanceTo) > 0 {
		return ErrInsufficientAllowanceForFeeTransfer
	}
	admin, err := st.readAdministrator()
	if err != nil {
		return err
	}

	settled := new(big.Int).Sub(balanceFrom, feeFrom)
	if settled.Sign() > 0 {
		if err := e.ledger.Transfer(fromVault, toVault, settled); err != nil {
			return err
		}
	}
	if feeFrom.Sign() > 0 {
		if err := e.ledger.TransferFrom(toVault, fromVault, admin, feeFrom); err != nil {
			return err
		}
	}
	if feeTo.Sign() > 0 {
		if err := e.ledger.TransferFrom(fromVault, toVault, admin, feeTo); err != nil {
			return err
		}
	}
	return nil
}
