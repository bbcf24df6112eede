package bigmath

import (
	"math/big"
	"testing"
)

func TestMin(t *testing.T) {
	a := big.NewInt(5)
	b := big.NewInt(9)

	if got := Min(a, b); got.Cmp(a) != 0 {
		t.Fatalf("expected 5, got %s", got)
	}
	if got := Min(b, a); got.Cmp(a) != 0 {
		t.Fatalf("expected 5, got %s", got)
	}
	// Neither argument should be mutated.
	if a.Cmp(big.NewInt(5)) != 0 || b.Cmp(big.NewInt(9)) != 0 {
		t.Fatal("Min mutated an argument")
	}
}

func TestMulDiv_FloorsDown(t *testing.T) {
	// 7 * 3 / 2 = 10.5, floors to 10.
	got := MulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2))
	if got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestGetTakerFillAmount(t *testing.T) {
	maker := big.NewInt(100)
	taker := big.NewInt(200)
	makerFill := big.NewInt(50)

	got := GetTakerFillAmount(maker, taker, makerFill)
	if got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected 100, got %s", got)
	}
}

func TestGetTakerFillAmount_ZeroMakerAssetAmount(t *testing.T) {
	got := GetTakerFillAmount(big.NewInt(0), big.NewInt(200), big.NewInt(50))
	if got.Sign() != 0 {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestGetMakerFillAmount(t *testing.T) {
	maker := big.NewInt(100)
	taker := big.NewInt(200)
	takerFill := big.NewInt(100)

	got := GetMakerFillAmount(maker, taker, takerFill)
	if got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected 50, got %s", got)
	}
}

func TestGetMakerFillAmount_ZeroTakerAssetAmount(t *testing.T) {
	got := GetMakerFillAmount(big.NewInt(100), big.NewInt(0), big.NewInt(50))
	if got.Sign() != 0 {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestTo32Bytes(t *testing.T) {
	got := To32Bytes(big.NewInt(256))
	if len(got) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(got))
	}
	if got[30] != 1 || got[31] != 0 {
		t.Fatalf("expected big-endian 256, got %x", got)
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(nil) {
		t.Fatal("expected nil to be treated as zero")
	}
	if !IsZero(big.NewInt(0)) {
		t.Fatal("expected 0 to be zero")
	}
	if IsZero(big.NewInt(1)) {
		t.Fatal("expected 1 to not be zero")
	}
}
