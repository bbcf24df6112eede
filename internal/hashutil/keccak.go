// Package hashutil wraps the Keccak-256 primitive shared by order hashing,
// meta-transaction hashing, and EIP-712 struct hashing.
package hashutil

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the concatenation of data and returns the digest as a
// common.Hash, matching go-ethereum's own convention.
func Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
