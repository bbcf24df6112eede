package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// fakeSoftCancelRepo implements domain.OrderRepository, answering
// IsSoftCancelled from an in-memory set and panicking on anything else this
// handler has no business calling.
type fakeSoftCancelRepo struct {
	domain.OrderRepository
	cancelled map[common.Hash]bool
}

func (f *fakeSoftCancelRepo) IsSoftCancelled(ctx context.Context, orderHash common.Hash) (bool, error) {
	return f.cancelled[orderHash], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSoftCancels_FiltersToCancelledOnly(t *testing.T) {
	cancelledHash := common.HexToHash("0x1")
	repo := &fakeSoftCancelRepo{cancelled: map[common.Hash]bool{cancelledHash: true}}
	h := NewSoftCancelHandler(repo, testLogger())

	body, _ := json.Marshal(softCancelRequest{
		OrderHashes: []string{cancelledHash.Hex(), common.HexToHash("0x2").Hex()},
	})
	req := httptest.NewRequest(http.MethodPost, "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SoftCancels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp softCancelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.OrderHashes) != 1 || resp.OrderHashes[0] != cancelledHash.Hex() {
		t.Fatalf("expected only the cancelled hash to be returned, got %v", resp.OrderHashes)
	}
}

func TestSoftCancels_EmptyRequestYieldsEmptyResponse(t *testing.T) {
	repo := &fakeSoftCancelRepo{cancelled: map[common.Hash]bool{}}
	h := NewSoftCancelHandler(repo, testLogger())

	body, _ := json.Marshal(softCancelRequest{})
	req := httptest.NewRequest(http.MethodPost, "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SoftCancels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp softCancelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.OrderHashes) != 0 {
		t.Fatalf("expected no hashes, got %v", resp.OrderHashes)
	}
}

func TestSoftCancels_RejectsMalformedHash(t *testing.T) {
	repo := &fakeSoftCancelRepo{cancelled: map[common.Hash]bool{}}
	h := NewSoftCancelHandler(repo, testLogger())

	body, _ := json.Marshal(softCancelRequest{OrderHashes: []string{"not-a-hash"}})
	req := httptest.NewRequest(http.MethodPost, "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SoftCancels(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSoftCancels_RejectsMalformedBody(t *testing.T) {
	repo := &fakeSoftCancelRepo{cancelled: map[common.Hash]bool{}}
	h := NewSoftCancelHandler(repo, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v2/1/soft_cancels", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.SoftCancels(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
