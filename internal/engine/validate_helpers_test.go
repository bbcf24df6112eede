package engine

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/validate"
)

func TestMergeRefusals_KeepsFirstPassReason(t *testing.T) {
	h := common.HexToHash("0x1")
	first := []validate.Refusal{{OrderHash: h, Reason: validate.ReasonSoftCancelled}}
	second := []validate.Refusal{{OrderHash: h, Reason: validate.ReasonLedgerExceeded}}

	merged := mergeRefusals(first, second)

	if len(merged) != 1 {
		t.Fatalf("expected one merged refusal, got %d", len(merged))
	}
	if merged[0].Reason != validate.ReasonSoftCancelled {
		t.Fatalf("expected first-pass reason to win, got %s", merged[0].Reason)
	}
}

func TestMergeRefusals_UnionsDistinctHashes(t *testing.T) {
	h1 := common.HexToHash("0x1")
	h2 := common.HexToHash("0x2")
	first := []validate.Refusal{{OrderHash: h1, Reason: validate.ReasonExpired}}
	second := []validate.Refusal{{OrderHash: h2, Reason: validate.ReasonLedgerExceeded}}

	merged := mergeRefusals(first, second)

	if len(merged) != 2 {
		t.Fatalf("expected both refusals to appear, got %d", len(merged))
	}
}

func TestApprovedSet_ExcludesRefused(t *testing.T) {
	h1 := common.HexToHash("0x1")
	h2 := common.HexToHash("0x2")
	orders := []domain.Order{{MakerAddress: common.HexToAddress("0xa")}, {MakerAddress: common.HexToAddress("0xb")}}
	hashes := []common.Hash{h1, h2}
	refusals := []validate.Refusal{{OrderHash: h1, Reason: validate.ReasonExpired}}

	approvedHashes, approvedOrders := approvedSet(orders, hashes, refusals)

	if len(approvedHashes) != 1 || approvedHashes[0] != h2 {
		t.Fatalf("expected only h2 approved, got %v", approvedHashes)
	}
	if len(approvedOrders) != 1 || approvedOrders[0].MakerAddress != orders[1].MakerAddress {
		t.Fatalf("expected order for h2 to be kept, got %v", approvedOrders)
	}
}

func TestApprovedSet_AllApprovedWhenNoRefusals(t *testing.T) {
	h1 := common.HexToHash("0x1")
	orders := []domain.Order{{MakerAddress: common.HexToAddress("0xa")}}
	hashes := []common.Hash{h1}

	approvedHashes, approvedOrders := approvedSet(orders, hashes, nil)

	if len(approvedHashes) != 1 || len(approvedOrders) != 1 {
		t.Fatalf("expected single order fully approved, got %v / %v", approvedHashes, approvedOrders)
	}
}

func TestFillAmountFor_FindsMatchingHash(t *testing.T) {
	h1 := common.HexToHash("0x1")
	h2 := common.HexToHash("0x2")
	hashes := []common.Hash{h1, h2}
	amounts := []*big.Int{big.NewInt(10), big.NewInt(20)}

	if got := fillAmountFor(h2, hashes, amounts); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected 20, got %s", got)
	}
}

func TestFillAmountFor_ReturnsZeroWhenNotFound(t *testing.T) {
	hashes := []common.Hash{common.HexToHash("0x1")}
	amounts := []*big.Int{big.NewInt(10)}

	got := fillAmountFor(common.HexToHash("0x2"), hashes, amounts)
	if got.Sign() != 0 {
		t.Fatalf("expected zero for unknown hash, got %s", got)
	}
}

func TestLedgerLockKey_DistinctPerOrderAndTaker(t *testing.T) {
	h1 := common.HexToHash("0x1")
	h2 := common.HexToHash("0x2")
	takerA := common.HexToAddress("0xa")
	takerB := common.HexToAddress("0xb")

	if ledgerLockKey(h1, takerA) == ledgerLockKey(h2, takerA) {
		t.Fatal("expected lock keys to differ by order hash")
	}
	if ledgerLockKey(h1, takerA) == ledgerLockKey(h1, takerB) {
		t.Fatal("expected lock keys to differ by taker address")
	}
}
