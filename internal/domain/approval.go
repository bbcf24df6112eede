package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CoordinatorApproval is the EIP-712 typed struct the coordinator signs and
// returns to a taker once a fill request clears validation:
//
//	CoordinatorApproval(bytes32[] zeroxOrderHashes,address txOrigin,uint256 approvalExpirationTimeSeconds)
//
// One approval is produced per distinct feeRecipientAddress referenced by
// the orders in the transaction, since each fee recipient may be served by
// a different coordinator signing key.
type CoordinatorApproval struct {
	ZeroExOrderHashes             []common.Hash
	TxOrigin                      common.Address
	ApprovalExpirationTimeSeconds *big.Int
}

// SignedCoordinatorApproval pairs an approval with its 0x-style signature,
// wire-encoded as v (1 byte) || r (32 bytes) || s (32 bytes) || signatureType.
type SignedCoordinatorApproval struct {
	CoordinatorApproval
	Signature []byte
}

// OutstandingFillSignature describes one previously granted fill approval
// that a cancellation invalidates, returned to the maker so they (and
// subscribers) can see which in-flight fills may still settle before the
// cancellation propagates on-chain.
type OutstandingFillSignature struct {
	OrderHash    common.Hash
	TakerAddress common.Address
	FillAmount   *big.Int
}
