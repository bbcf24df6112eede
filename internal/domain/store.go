package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SeenTransaction is the durable record of a previously processed
// meta-transaction, persisted so that a replayed transaction hash can be
// rejected with TransactionAlreadyUsed rather than re-validated from scratch.
type SeenTransaction struct {
	TransactionHash       common.Hash
	TxOrigin              common.Address
	SignerAddress         common.Address
	Data                  []byte
	Signature             []byte
	ExpirationTimeSeconds *big.Int
	OrderHashes           []common.Hash
	FillAmounts           []*big.Int
	CreatedAt             int64
}

// FillApprovalRecord associates an order hash with one outstanding approval
// granted against it, so that a later cancellation can announce exactly
// which approvals it invalidates.
type FillApprovalRecord struct {
	OrderHash       common.Hash
	TransactionHash common.Hash
	TakerAddress    common.Address
	FillAmount      *big.Int
}

// OrderRepository is the persistence boundary for the four logical tables
// described by the data model: SoftCancels, FillLedger, SeenTransactions,
// and FillApprovals.
type OrderRepository interface {
	// IsSoftCancelled reports whether the given order hash has been
	// soft-cancelled by its maker.
	IsSoftCancelled(ctx context.Context, orderHash common.Hash) (bool, error)
	// SoftCancelBatch inserts soft-cancel rows for the given order hashes.
	// Insert-only: no corresponding delete/undo exists.
	SoftCancelBatch(ctx context.Context, orderHashes []common.Hash) error

	// LedgerCumulative returns the sum of previously approved
	// takerAssetFillAmounts for (orderHash, taker).
	LedgerCumulative(ctx context.Context, orderHash common.Hash, taker common.Address) (*big.Int, error)
	// LedgerTryAdd atomically adds delta to the (orderHash, taker) cumulative
	// only if the result would not exceed max. Returns the new cumulative and
	// ok=false (no write performed) if the bound would be violated.
	LedgerTryAdd(ctx context.Context, orderHash common.Hash, taker common.Address, delta, max *big.Int) (cumulative *big.Int, ok bool, err error)

	// SeenTransaction returns the previously stored record for a
	// transaction hash, or ErrNotFound.
	SeenTransaction(ctx context.Context, txHash common.Hash) (SeenTransaction, error)
	// InsertSeenTransaction records a transaction the first time it is
	// approved. Must not overwrite an existing row with different contents;
	// callers check SeenTransaction first within the same request.
	InsertSeenTransaction(ctx context.Context, tx SeenTransaction) error

	// RecordFillApprovals persists the fill-approval associations produced
	// by a single accepted fill request.
	RecordFillApprovals(ctx context.Context, records []FillApprovalRecord) error
	// FillApprovalsForOrders returns outstanding approvals referencing any
	// of the given order hashes, used when announcing a cancellation.
	FillApprovalsForOrders(ctx context.Context, orderHashes []common.Hash) ([]FillApprovalRecord, error)
}
