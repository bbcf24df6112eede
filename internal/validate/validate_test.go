package validate

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func baseOrder() OrderInput {
	return OrderInput{
		OrderHash:             common.HexToHash("0x1"),
		TakerAssetAmount:      big.NewInt(100),
		ExpirationTimeSeconds: big.NewInt(time.Now().Add(time.Hour).Unix()),
		FillAmount:            big.NewInt(10),
		LedgerAfterAdd:        big.NewInt(10),
	}
}

func TestPartition_Approved(t *testing.T) {
	approved, refused := Partition([]OrderInput{baseOrder()}, time.Now())

	if len(refused) != 0 {
		t.Fatalf("expected no refusals, got %v", refused)
	}
	if len(approved) != 1 || approved[0] != baseOrder().OrderHash {
		t.Fatalf("expected order hash to be approved, got %v", approved)
	}
}

func TestPartition_Redundant(t *testing.T) {
	o := baseOrder()
	o.FillAmount = big.NewInt(0)

	approved, refused := Partition([]OrderInput{o}, time.Now())

	if len(approved) != 0 {
		t.Fatalf("expected no approvals, got %v", approved)
	}
	if len(refused) != 1 || refused[0].Reason != ReasonRedundant {
		t.Fatalf("expected ReasonRedundant, got %v", refused)
	}
}

func TestPartition_NilFillAmountIsRedundant(t *testing.T) {
	o := baseOrder()
	o.FillAmount = nil

	_, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 1 || refused[0].Reason != ReasonRedundant {
		t.Fatalf("expected ReasonRedundant, got %v", refused)
	}
}

func TestPartition_SoftCancelled(t *testing.T) {
	o := baseOrder()
	o.IsSoftCancelled = true

	_, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 1 || refused[0].Reason != ReasonSoftCancelled {
		t.Fatalf("expected ReasonSoftCancelled, got %v", refused)
	}
}

func TestPartition_LedgerExceeded(t *testing.T) {
	o := baseOrder()
	o.LedgerAfterAdd = big.NewInt(101) // exceeds TakerAssetAmount of 100

	_, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 1 || refused[0].Reason != ReasonLedgerExceeded {
		t.Fatalf("expected ReasonLedgerExceeded, got %v", refused)
	}
}

func TestPartition_LedgerAtBoundaryIsApproved(t *testing.T) {
	o := baseOrder()
	o.LedgerAfterAdd = big.NewInt(100) // equal to TakerAssetAmount, not exceeded

	approved, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 0 {
		t.Fatalf("expected no refusals at the ledger boundary, got %v", refused)
	}
	if len(approved) != 1 {
		t.Fatalf("expected approval at the ledger boundary, got %v", approved)
	}
}

func TestPartition_Expired(t *testing.T) {
	o := baseOrder()
	o.ExpirationTimeSeconds = big.NewInt(time.Now().Add(-time.Hour).Unix())

	_, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 1 || refused[0].Reason != ReasonExpired {
		t.Fatalf("expected ReasonExpired, got %v", refused)
	}
}

func TestPartition_ReasonOrdering(t *testing.T) {
	// Soft-cancelled and ledger-exceeded both apply; redundant is checked
	// first, then soft-cancel — soft-cancel should win over ledger-exceeded.
	o := baseOrder()
	o.IsSoftCancelled = true
	o.LedgerAfterAdd = big.NewInt(1000)

	_, refused := Partition([]OrderInput{o}, time.Now())

	if len(refused) != 1 || refused[0].Reason != ReasonSoftCancelled {
		t.Fatalf("expected soft-cancel to take priority over ledger-exceeded, got %v", refused)
	}
}

func TestPartition_MixedBatch(t *testing.T) {
	approvedOrder := baseOrder()
	approvedOrder.OrderHash = common.HexToHash("0xa")

	refusedOrder := baseOrder()
	refusedOrder.OrderHash = common.HexToHash("0xb")
	refusedOrder.IsSoftCancelled = true

	approved, refused := Partition([]OrderInput{approvedOrder, refusedOrder}, time.Now())

	if len(approved) != 1 || approved[0] != approvedOrder.OrderHash {
		t.Fatalf("expected one approval, got %v", approved)
	}
	if len(refused) != 1 || refused[0].OrderHash != refusedOrder.OrderHash {
		t.Fatalf("expected one refusal, got %v", refused)
	}
}
