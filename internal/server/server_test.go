package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/engine"
	"github.com/0xcoordinator/coordinator/internal/server/handler"
)

type noopRepo struct {
	domain.OrderRepository
}

func (noopRepo) IsSoftCancelled(ctx context.Context, orderHash common.Hash) (bool, error) {
	return false, nil
}

type fakeLimiter struct {
	allow bool
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return f.allow, nil
}

func (f *fakeLimiter) Wait(ctx context.Context, key string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandlers() Handlers {
	eng := engine.New(map[string]*engine.ChainConfig{}, nil, nil, nil, nil, 0, 0, testLogger())
	return Handlers{
		Health:     handler.NewHealthHandler(testLogger()),
		Request:    handler.NewRequestHandler(eng, testLogger()),
		SoftCancel: handler.NewSoftCancelHandler(noopRepo{}, testLogger()),
	}
}

func TestNewServer_SoftCancelRoute_RejectedWhenRateLimiterDenies(t *testing.T) {
	srv := NewServer(Config{
		Port:                      0,
		RateLimiter:               &fakeLimiter{allow: false},
		SoftCancelRateLimit:       1,
		SoftCancelRateLimitWindow: time.Minute,
	}, testHandlers(), nil, testLogger())

	body, _ := json.Marshal(map[string]any{"orderHashes": []string{}})
	req := httptest.NewRequest("POST", "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != 429 {
		t.Fatalf("expected 429 when the rate limiter denies, got %d", rec.Code)
	}
}

func TestNewServer_SoftCancelRoute_AllowedWhenRateLimiterPermits(t *testing.T) {
	srv := NewServer(Config{
		Port:                      0,
		RateLimiter:               &fakeLimiter{allow: true},
		SoftCancelRateLimit:       10,
		SoftCancelRateLimitWindow: time.Minute,
	}, testHandlers(), nil, testLogger())

	body, _ := json.Marshal(map[string]any{"orderHashes": []string{}})
	req := httptest.NewRequest("POST", "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200 when the rate limiter permits, got %d", rec.Code)
	}
}

func TestNewServer_NoRateLimiter_SoftCancelRouteUnaffected(t *testing.T) {
	srv := NewServer(Config{Port: 0}, testHandlers(), nil, testLogger())

	body, _ := json.Marshal(map[string]any{"orderHashes": []string{}})
	req := httptest.NewRequest("POST", "/v2/1/soft_cancels", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200 when no rate limiter is configured, got %d", rec.Code)
	}
}
