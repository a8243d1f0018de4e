package amm

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// The AMM formulas are specified over u64 reserves with 128-bit intermediate
// precision: every product and sum is checked against the 128-bit bound and
// fails explicitly instead of wrapping. uint256 gives headroom to detect the
// overflow after the fact.

const feeDenominatorBps = 10_000

func width128(v *uint256.Int) bool {
	return v.BitLen() <= 128
}

func mul128(a, b *uint256.Int) (*uint256.Int, error) {
	if !width128(a) || !width128(b) {
		return nil, ErrOverflow
	}
	product := new(uint256.Int).Mul(a, b)
	if !width128(product) {
		return nil, ErrOverflow
	}
	return product, nil
}

func add128(a, b *uint256.Int) (*uint256.Int, error) {
	sum := new(uint256.Int).Add(a, b)
	if !width128(sum) {
		return nil, ErrOverflow
	}
	return sum, nil
}

func floorDiv(num, den *uint256.Int) (*uint256.Int, error) {
	if den.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(num, den), nil
}

func toUint64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrOverflow
	}
	return v.Uint64(), nil
}

func addUint64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

func subUint64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// initialLPAmount prices the first deposit: floor(sqrt(amountA * amountB)).
// The geometric mean makes the initial LP supply independent of how the
// depositor orders the two amounts.
func initialLPAmount(amountA, amountB uint64) (uint64, error) {
	product, err := mul128(uint256.NewInt(amountA), uint256.NewInt(amountB))
	if err != nil {
		return 0, err
	}
	root := new(uint256.Int).Sqrt(product)
	return toUint64(root)
}

// proportionalLPAmount prices a follow-up deposit as the minimum of the two
// floor proportions, so an unbalanced deposit is credited at the
// scarcer-asset ratio and cannot dilute existing holders.
func proportionalLPAmount(amountA, amountB, reserveA, reserveB, totalSupply uint64) (uint64, error) {
	supply := uint256.NewInt(totalSupply)
	byA, err := mul128(uint256.NewInt(amountA), supply)
	if err != nil {
		return 0, err
	}
	byA, err = floorDiv(byA, uint256.NewInt(reserveA))
	if err != nil {
		return 0, err
	}
	byB, err := mul128(uint256.NewInt(amountB), supply)
	if err != nil {
		return 0, err
	}
	byB, err = floorDiv(byB, uint256.NewInt(reserveB))
	if err != nil {
		return 0, err
	}
	if byB.Lt(byA) {
		byA = byB
	}
	return toUint64(byA)
}

// swapOutput applies the constant-product formula with a multiplicative fee:
//
//	amountOut = floor(amountIn*(10000-feeBps) * reserveOut /
//	                  (reserveIn*10000 + amountIn*(10000-feeBps)))
//
// Rounding is floor at every step, which systematically favours the pool.
// The fee is never extracted anywhere: it stays in the reserves, growing the
// pool for LP holders.
func swapOutput(amountIn, reserveIn, reserveOut uint64, feeBps uint32) (uint64, error) {
	feeMultiplier := uint256.NewInt(uint64(feeDenominatorBps) - uint64(feeBps))
	amountInWithFee, err := mul128(uint256.NewInt(amountIn), feeMultiplier)
	if err != nil {
		return 0, err
	}
	numerator, err := mul128(amountInWithFee, uint256.NewInt(reserveOut))
	if err != nil {
		return 0, err
	}
	denominator, err := mul128(uint256.NewInt(reserveIn), uint256.NewInt(feeDenominatorBps))
	if err != nil {
		return 0, err
	}
	denominator, err = add128(denominator, amountInWithFee)
	if err != nil {
		return 0, err
	}
	quotient, err := floorDiv(numerator, denominator)
	if err != nil {
		return 0, err
	}
	return toUint64(quotient)
}
