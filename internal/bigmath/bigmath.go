// Package bigmath holds the unbounded-integer helpers the exchange's
// fixed-point order arithmetic is built on: floor division, minimum, and the
// 32-byte big-endian encoding EIP-712 struct hashing needs for each
// uint256/address field.
package bigmath

import "math/big"

// Min returns the smaller of a and b. Neither argument is mutated.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// MulDiv computes floor(a * b / c) using unbounded integer arithmetic. c
// must be non-zero; callers are expected to have already rejected
// zero-denominator orders.
func MulDiv(a, b, c *big.Int) *big.Int {
	num := new(big.Int).Mul(a, b)
	return new(big.Int).Quo(num, c)
}

// GetTakerFillAmount returns floor(makerFillAmount * takerAssetAmount / makerAssetAmount).
func GetTakerFillAmount(makerAssetAmount, takerAssetAmount, makerFillAmount *big.Int) *big.Int {
	if makerAssetAmount.Sign() == 0 {
		return new(big.Int)
	}
	return MulDiv(makerFillAmount, takerAssetAmount, makerAssetAmount)
}

// GetMakerFillAmount returns floor(takerFillAmount * makerAssetAmount / takerAssetAmount).
func GetMakerFillAmount(makerAssetAmount, takerAssetAmount, takerFillAmount *big.Int) *big.Int {
	if takerAssetAmount.Sign() == 0 {
		return new(big.Int)
	}
	return MulDiv(takerFillAmount, makerAssetAmount, takerAssetAmount)
}

// To32Bytes renders n as a 32-byte big-endian two's-complement-free
// unsigned integer, left-padded with zeroes, as required for uint256 fields
// in an EIP-712 struct hash.
func To32Bytes(n *big.Int) []byte {
	out := make([]byte, 32)
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// IsZero reports whether n is nil or equal to zero; nil is treated as zero
// so that optional fee fields omitted by a caller behave as "no fee".
func IsZero(n *big.Int) bool {
	return n == nil || n.Sign() == 0
}
