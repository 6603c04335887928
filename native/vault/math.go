package vault

import "math/big"

// Rounding selects the direction applied by MulDiv when the quotient is not
// exact.
type Rounding uint8

const (
	RoundFloor  Rounding = iota // toward negative infinity
	RoundCeil                   // toward positive infinity
	RoundTrunc                  // toward zero
	RoundExpand                 // away from zero
)

var (
	one     = big.NewInt(1)
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(one, 127), one)
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(one, 127))
)

// MaxI128 returns the largest value representable in the ledger's signed
// 128-bit money lane. Used as the unconditional deposit/mint cap.
func MaxI128() *big.Int {
	return new(big.Int).Set(maxI128)
}

// checkI128 guards the i128 value range. Monetary quantities escaping the
// lane indicate a logic defect, so the caller surfaces this as a fault rather
// than a recoverable user error.
func checkI128(v *big.Int) error {
	if v == nil {
		return ErrArithmetic
	}
	if v.Cmp(maxI128) > 0 || v.Cmp(minI128) < 0 {
		return ErrArithmetic
	}
	return nil
}

// pow10 returns 10^n.
func pow10(n uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// MulDiv computes a*b/denominator with the requested rounding. Non-positive a
// or b yields zero regardless of rounding mode; the behaviour is inherited
// from the reference implementation and relied upon by the conversion paths.
func MulDiv(a, b, denominator *big.Int, rounding Rounding) (*big.Int, error) {
	if a == nil || b == nil || a.Sign() <= 0 || b.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if denominator == nil || denominator.Sign() == 0 {
		return nil, ErrArithmetic
	}
	product := new(big.Int).Mul(a, b)
	if err := checkI128(product); err != nil {
		return nil, err
	}
	quo, rem := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if rem.Sign() != 0 {
		negative := (product.Sign() < 0) != (denominator.Sign() < 0)
		switch rounding {
		case RoundFloor:
			if negative {
				quo.Sub(quo, one)
			}
		case RoundCeil:
			if !negative {
				quo.Add(quo, one)
			}
		case RoundExpand:
			if negative {
				quo.Sub(quo, one)
			} else {
				quo.Add(quo, one)
			}
		case RoundTrunc:
		}
	}
	if err := checkI128(quo); err != nil {
		return nil, err
	}
	return quo, nil
}
