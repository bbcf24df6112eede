package exchangeabi

import (
	"errors"
	"math/big"
	"testing"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

func fixedFillable(amounts ...int64) RemainingFillableFunc {
	i := 0
	return func(domain.Order) (*big.Int, error) {
		amt := big.NewInt(amounts[i])
		i++
		return amt, nil
	}
}

func orderWithAmounts(maker, taker int64) domain.Order {
	return domain.Order{
		MakerAssetAmount: big.NewInt(maker),
		TakerAssetAmount: big.NewInt(taker),
	}
}

func TestDeriveMarketFillAmounts_Sell_SplitsAcrossOrders(t *testing.T) {
	orders := []domain.Order{orderWithAmounts(100, 100), orderWithAmounts(100, 100)}
	// Ask for 150 taker units total; first order can only supply 80.
	amounts, err := deriveMarketFillAmounts(MethodMarketSellOrdersFillOrKill, orders, big.NewInt(150), fixedFillable(80, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amounts[0].Cmp(big.NewInt(80)) != 0 {
		t.Fatalf("expected first order to fill 80, got %s", amounts[0])
	}
	if amounts[1].Cmp(big.NewInt(70)) != 0 {
		t.Fatalf("expected second order to fill the remaining 70, got %s", amounts[1])
	}
}

func TestDeriveMarketFillAmounts_Sell_CapsAtRemainingFillable(t *testing.T) {
	orders := []domain.Order{orderWithAmounts(100, 100)}
	amounts, err := deriveMarketFillAmounts(MethodMarketSellOrdersNoThrow, orders, big.NewInt(1000), fixedFillable(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amounts[0].Cmp(big.NewInt(30)) != 0 {
		t.Fatalf("expected fill capped at remaining fillable 30, got %s", amounts[0])
	}
}

func TestDeriveMarketFillAmounts_Buy_ConvertsMakerToTakerAmount(t *testing.T) {
	// 2:1 maker:taker ratio order; requesting 50 maker units should derive
	// 25 taker units, capped by remaining fillable.
	orders := []domain.Order{orderWithAmounts(200, 100)}
	amounts, err := deriveMarketFillAmounts(MethodMarketBuyOrdersFillOrKill, orders, big.NewInt(50), fixedFillable(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amounts[0].Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("expected derived taker fill of 25, got %s", amounts[0])
	}
}

func TestDeriveMarketFillAmounts_PropagatesOracleError(t *testing.T) {
	orders := []domain.Order{orderWithAmounts(100, 100)}
	boom := errors.New("rpc failure")
	_, err := deriveMarketFillAmounts(MethodMarketSellOrdersFillOrKill, orders, big.NewInt(10), func(domain.Order) (*big.Int, error) {
		return nil, boom
	})
	if err == nil {
		t.Fatal("expected error to propagate from the fillable lookup")
	}
}

func TestMethodByID_TooShort(t *testing.T) {
	c := &Classifier{}
	if _, err := c.MethodByID([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected an error for calldata shorter than 4 bytes")
	}
}

func TestMethod_IsCancel(t *testing.T) {
	if !MethodCancelOrder.IsCancel() {
		t.Fatal("expected cancelOrder to be classified as a cancel method")
	}
	if !MethodBatchCancelOrders.IsCancel() {
		t.Fatal("expected batchCancelOrders to be classified as a cancel method")
	}
	if MethodFillOrder.IsCancel() {
		t.Fatal("expected fillOrder to not be classified as a cancel method")
	}
}
