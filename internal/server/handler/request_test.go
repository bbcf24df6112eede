package handler

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func validBody() signedTransactionBody {
	return signedTransactionBody{
		Salt:                  "42",
		SignerAddress:         "0x1111111111111111111111111111111111111111",
		Data:                  "0xdeadbeef",
		Signature:             "0xaabbcc",
		ExpirationTimeSeconds: "1700000000",
	}
}

func TestSignedTransactionBody_Decode_Success(t *testing.T) {
	chainID := big.NewInt(1)
	tx, err := validBody().decode(chainID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Salt.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected salt 42, got %s", tx.Salt)
	}
	if tx.SignerAddress != common.HexToAddress("0x1111111111111111111111111111111111111111") {
		t.Fatalf("unexpected signer address: %s", tx.SignerAddress.Hex())
	}
	if tx.ChainID != chainID {
		t.Fatal("expected chain id to be carried through verbatim")
	}
}

func TestSignedTransactionBody_Decode_InvalidSalt(t *testing.T) {
	b := validBody()
	b.Salt = "not-a-number"
	if _, err := b.decode(big.NewInt(1)); err == nil {
		t.Fatal("expected an error for a non-decimal salt")
	}
}

func TestSignedTransactionBody_Decode_InvalidExpiration(t *testing.T) {
	b := validBody()
	b.ExpirationTimeSeconds = "soon"
	if _, err := b.decode(big.NewInt(1)); err == nil {
		t.Fatal("expected an error for a non-decimal expiration")
	}
}

func TestSignedTransactionBody_Decode_InvalidSignerAddress(t *testing.T) {
	b := validBody()
	b.SignerAddress = "not-an-address"
	if _, err := b.decode(big.NewInt(1)); err == nil {
		t.Fatal("expected an error for a malformed signer address")
	}
}

func TestSignedTransactionBody_Decode_InvalidData(t *testing.T) {
	b := validBody()
	b.Data = "not-hex"
	if _, err := b.decode(big.NewInt(1)); err == nil {
		t.Fatal("expected an error for non-hex data")
	}
}

func TestSignedTransactionBody_Decode_InvalidSignature(t *testing.T) {
	b := validBody()
	b.Signature = "not-hex"
	if _, err := b.decode(big.NewInt(1)); err == nil {
		t.Fatal("expected an error for non-hex signature")
	}
}
