package engine

import (
	"context"
	"log/slog"
	"math/big"
	"testing"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

type fakeAlertNotifier struct {
	events []string
}

func (f *fakeAlertNotifier) Notify(ctx context.Context, event, title, message string) error {
	f.events = append(f.events, event)
	return nil
}

func TestMethodFor_UnconfiguredChain_FiresAlert(t *testing.T) {
	alerts := &fakeAlertNotifier{}
	e := New(map[string]*ChainConfig{}, nil, nil, nil, alerts, 0, 0, slog.Default())

	_, err := e.MethodFor(context.Background(), big.NewInt(999), []byte{0x01, 0x02, 0x03, 0x04})
	if err != domain.ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
	if len(alerts.events) != 1 || alerts.events[0] != "config_error" {
		t.Fatalf("expected a single config_error alert, got %v", alerts.events)
	}
}

func TestChainConfig_NilAlertNotifier_DoesNotPanic(t *testing.T) {
	e := New(map[string]*ChainConfig{}, nil, nil, nil, nil, 0, 0, slog.Default())

	if _, err := e.chainConfig(context.Background(), big.NewInt(1)); err != domain.ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}
