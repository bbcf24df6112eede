package feerecipient

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
)

func testApprovalDomain() eip712.Domain {
	return eip712.Domain{
		Name:              "0x Protocol Coordinator",
		Version:           "1.0.0",
		ChainID:           big.NewInt(1),
		VerifyingContract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}
}

func newTestKey(t *testing.T) (*Registry, common.Address, string) {
	t.Helper()
	pk, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	hexKey := hex.EncodeToString(ethcrypto.FromECDSA(pk))

	r := NewRegistry(testApprovalDomain())
	addr, err := r.AddKey(hexKey)
	if err != nil {
		t.Fatalf("AddKey: %v", err)
	}
	return r, addr, hexKey
}

func TestAddKey_DerivesAddress(t *testing.T) {
	r, addr, _ := newTestKey(t)
	if !r.Has(addr) {
		t.Fatal("expected registry to recognize the derived address")
	}
}

func TestAddKey_AcceptsHexPrefix(t *testing.T) {
	_, _, hexKey := newTestKey(t)
	r2 := NewRegistry(testApprovalDomain())
	addr2, err := r2.AddKey("0x" + hexKey)
	if err != nil {
		t.Fatalf("AddKey with 0x prefix: %v", err)
	}
	if !r2.Has(addr2) {
		t.Fatal("expected 0x-prefixed key to register under its derived address")
	}
}

func TestAddKey_InvalidHex(t *testing.T) {
	r := NewRegistry(testApprovalDomain())
	if _, err := r.AddKey("not-hex"); err == nil {
		t.Fatal("expected an error for a malformed private key")
	}
}

func TestHas_UnregisteredAddress(t *testing.T) {
	r := NewRegistry(testApprovalDomain())
	if r.Has(common.HexToAddress("0xdead")) {
		t.Fatal("expected unregistered address to report false")
	}
}

func TestSignApproval_ProducesWireFormat(t *testing.T) {
	r, addr, _ := newTestKey(t)
	v := eip712.ApprovalValue{
		ZeroExOrderHashes:             []common.Hash{common.HexToHash("0xa")},
		TxOrigin:                      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		ApprovalExpirationTimeSeconds: big.NewInt(1_700_000_000),
	}

	sig, err := r.SignApproval(addr, v)
	if err != nil {
		t.Fatalf("SignApproval: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") {
		t.Fatalf("expected 0x-prefixed signature, got %s", sig)
	}
	raw, err := hex.DecodeString(sig[2:])
	if err != nil {
		t.Fatalf("decoding signature hex: %v", err)
	}
	if len(raw) != 66 {
		t.Fatalf("expected a 66-byte wire signature, got %d bytes", len(raw))
	}
	if raw[65] != signatureTypeEIP712 {
		t.Fatalf("expected trailing signature-type byte 0x05, got %#x", raw[65])
	}
	if raw[0] != 27 && raw[0] != 28 {
		t.Fatalf("expected v normalized to 27/28, got %d", raw[0])
	}
}

func TestSignApproval_UnregisteredFeeRecipient(t *testing.T) {
	r := NewRegistry(testApprovalDomain())
	_, err := r.SignApproval(common.HexToAddress("0xdead"), eip712.ApprovalValue{})
	if err == nil {
		t.Fatal("expected an error when no key is registered for the fee recipient")
	}
	if !errors.Is(err, domain.ErrSigningFailed) {
		t.Fatalf("expected error to wrap domain.ErrSigningFailed, got %v", err)
	}
}

func TestRecoverSigner_RoundTrip(t *testing.T) {
	pk, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	expected := ethcrypto.PubkeyToAddress(pk.PublicKey)

	digest := common.HexToHash("0xdeadbeef")
	sig, err := ethcrypto.Sign(digest[:], pk)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		t.Fatalf("RecoverSigner: %v", err)
	}
	if recovered != expected {
		t.Fatalf("expected recovered signer %s, got %s", expected.Hex(), recovered.Hex())
	}
}

func TestRecoverSigner_NormalizesVOffsetBy27(t *testing.T) {
	pk, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	expected := ethcrypto.PubkeyToAddress(pk.PublicKey)

	digest := common.HexToHash("0xcafebabe")
	sig, err := ethcrypto.Sign(digest[:], pk)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	offsetSig := make([]byte, 65)
	copy(offsetSig, sig)
	offsetSig[64] += 27

	recovered, err := RecoverSigner(digest, offsetSig)
	if err != nil {
		t.Fatalf("RecoverSigner: %v", err)
	}
	if recovered != expected {
		t.Fatalf("expected recovered signer %s, got %s", expected.Hex(), recovered.Hex())
	}
}

func TestRecoverSigner_WrongLength(t *testing.T) {
	if _, err := RecoverSigner(common.HexToHash("0x1"), []byte{0x01, 0x02}); err == nil {
		t.Fatal("expected an error for a non-65-byte signature")
	}
}
