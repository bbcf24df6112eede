package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventType names the lifecycle events the coordinator announces to
// subscribers over the WebSocket hub and cross-replica signal bus.
type EventType string

const (
	EventFillRequestReceived EventType = "FILL_REQUEST_RECEIVED"
	EventFillRequestAccepted EventType = "FILL_REQUEST_ACCEPTED"
	EventCancelRequestAccepted EventType = "CANCEL_REQUEST_ACCEPTED"
)

// FillRequestReceivedEvent fires as soon as a transaction is decoded and
// classified, before validation runs.
type FillRequestReceivedEvent struct {
	TransactionHash common.Hash
	OrderHashes     []common.Hash
}

// FillRequestAcceptedEvent fires once a fill request is fully approved and
// signed; it carries the approvals so that takers racing for the same
// orders can observe fills as they are granted.
type FillRequestAcceptedEvent struct {
	TransactionHash common.Hash
	OrderHashes     []common.Hash
	FillAmounts     []*big.Int
	Approvals       []OutstandingFillSignature
}

// CancelRequestAcceptedEvent fires when a maker's cancellation transaction
// is accepted, invalidating any outstanding fill approvals for those orders.
type CancelRequestAcceptedEvent struct {
	TransactionHash common.Hash
	OrderHashes     []common.Hash
}

// Broadcaster announces coordinator lifecycle events to subscribers. A
// single process may have many local WebSocket subscribers; Broadcast must
// also fan the event out to sibling replicas so that every subscriber,
// regardless of which replica it connected to, observes every event.
type Broadcaster interface {
	BroadcastFillRequestReceived(ctx context.Context, chainID *big.Int, ev FillRequestReceivedEvent) error
	BroadcastFillRequestAccepted(ctx context.Context, chainID *big.Int, ev FillRequestAcceptedEvent) error
	BroadcastCancelRequestAccepted(ctx context.Context, chainID *big.Int, ev CancelRequestAcceptedEvent) error
}

// AlertNotifier pages operators about internal coordinator faults — missing
// chain or fee-recipient configuration, signing failures — as distinct from
// the client-facing validation errors the HTTP layer returns directly to
// callers. The engine depends on this interface rather than importing
// internal/notify, so it stays agnostic of which channels are configured.
type AlertNotifier interface {
	Notify(ctx context.Context, event, title, message string) error
}
