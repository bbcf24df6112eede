package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignedMetaTransaction is the envelope clients submit to
// /v2/{chainId}/request_transaction, the one route for fills and cancels.
// Data holds the ABI-encoded exchange method
// call (fillOrder, batchFillOrders, marketSellOrdersNoThrow, cancelOrder, ...)
// that the coordinator classifies and, if approved, countersigns alongside.
type SignedMetaTransaction struct {
	Salt                  *big.Int
	SignerAddress         common.Address
	Data                  []byte
	Signature             []byte
	ExpirationTimeSeconds *big.Int

	// ChainID is set by the request handler from the URL's chain id.
	// VerifyingContract is not set on the request path; the engine hashes
	// and verifies against its per-chain configured domains instead.
	VerifyingContract common.Address
	ChainID           *big.Int
}

// TransactionHash returns the EIP-712 digest used to dedupe transactions and
// to verify SignerAddress's signature over Data/Salt/ExpirationTimeSeconds.
// Computed by internal/eip712 (TransactionDigest) under the chain's Exchange
// domain, not the coordinator's approval domain.
type TransactionHash = common.Hash
