package eip712

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func testDomain() Domain {
	return Domain{
		Name:              "0x Protocol Coordinator",
		Version:           "1.0.0",
		ChainID:           big.NewInt(1),
		VerifyingContract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}
}

func TestDomainSeparator_Deterministic(t *testing.T) {
	d := testDomain()

	a := d.Separator()
	b := d.Separator()

	if a != b {
		t.Fatalf("domain separator is not deterministic: %x != %x", a, b)
	}
}

func TestDomainSeparator_DiffersByChainID(t *testing.T) {
	d1 := testDomain()
	d2 := testDomain()
	d2.ChainID = big.NewInt(2)

	if d1.Separator() == d2.Separator() {
		t.Fatal("expected different chain IDs to produce different domain separators")
	}
}

func TestApprovalDigest_Deterministic(t *testing.T) {
	v := ApprovalValue{
		ZeroExOrderHashes:             []common.Hash{common.HexToHash("0xa"), common.HexToHash("0xb")},
		TxOrigin:                      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		ApprovalExpirationTimeSeconds: big.NewInt(1_700_000_000),
	}

	a := ApprovalDigest(testDomain(), v)
	b := ApprovalDigest(testDomain(), v)

	if a != b {
		t.Fatalf("approval digest is not deterministic: %x != %x", a, b)
	}
}

func TestApprovalDigest_OrderSensitive(t *testing.T) {
	h1 := common.HexToHash("0xa")
	h2 := common.HexToHash("0xb")
	base := ApprovalValue{
		TxOrigin:                      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		ApprovalExpirationTimeSeconds: big.NewInt(1_700_000_000),
	}

	forward := base
	forward.ZeroExOrderHashes = []common.Hash{h1, h2}

	reversed := base
	reversed.ZeroExOrderHashes = []common.Hash{h2, h1}

	if ApprovalDigest(testDomain(), forward) == ApprovalDigest(testDomain(), reversed) {
		t.Fatal("expected order-hash ordering to change the digest")
	}
}

func TestApprovalDigest_EmptyOrderHashes(t *testing.T) {
	v := ApprovalValue{
		ZeroExOrderHashes:             nil,
		TxOrigin:                      common.HexToAddress("0x3333333333333333333333333333333333333333"),
		ApprovalExpirationTimeSeconds: big.NewInt(1),
	}

	// Must not panic on an empty dynamic array and must still be deterministic.
	a := ApprovalDigest(testDomain(), v)
	b := ApprovalDigest(testDomain(), v)
	if a != b {
		t.Fatal("expected deterministic digest for empty order-hash list")
	}
}

func TestTransactionDigest_Deterministic(t *testing.T) {
	v := TransactionValue{
		Salt:                  big.NewInt(42),
		ExpirationTimeSeconds: big.NewInt(1_700_000_000),
		SignerAddress:         common.HexToAddress("0x4444444444444444444444444444444444444444"),
		Data:                  []byte{0xde, 0xad, 0xbe, 0xef},
	}

	a := TransactionDigest(testDomain(), v)
	b := TransactionDigest(testDomain(), v)

	if a != b {
		t.Fatalf("transaction digest is not deterministic: %x != %x", a, b)
	}
}

func TestTransactionDigest_DataSensitive(t *testing.T) {
	base := TransactionValue{
		Salt:                  big.NewInt(42),
		ExpirationTimeSeconds: big.NewInt(1_700_000_000),
		SignerAddress:         common.HexToAddress("0x4444444444444444444444444444444444444444"),
	}

	a := base
	a.Data = []byte{0x01}
	b := base
	b.Data = []byte{0x02}

	if TransactionDigest(testDomain(), a) == TransactionDigest(testDomain(), b) {
		t.Fatal("expected different calldata to produce different transaction digests")
	}
}

func TestOrderDigest_Deterministic(t *testing.T) {
	v := OrderValue{
		MakerAddress:          common.HexToAddress("0x5555555555555555555555555555555555555555"),
		TakerAddress:          common.Address{},
		FeeRecipientAddress:   common.HexToAddress("0x6666666666666666666666666666666666666666"),
		SenderAddress:         common.Address{},
		MakerAssetAmount:      big.NewInt(1000),
		TakerAssetAmount:      big.NewInt(2000),
		MakerFee:              big.NewInt(0),
		TakerFee:              big.NewInt(0),
		ExpirationTimeSeconds: big.NewInt(1_700_000_000),
		Salt:                  big.NewInt(7),
		MakerAssetData:        []byte{0xaa},
		TakerAssetData:        []byte{0xbb},
	}

	a := OrderDigest(testDomain(), v)
	b := OrderDigest(testDomain(), v)

	if a != b {
		t.Fatalf("order digest is not deterministic: %x != %x", a, b)
	}
	if a == (common.Hash{}) {
		t.Fatal("expected a non-zero order digest")
	}
}
