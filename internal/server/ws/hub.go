// Package ws bridges the coordinator's lifecycle events to WebSocket
// subscribers, fanning a single locally-produced event out to every
// replica's connected clients via the shared signal bus.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBufferSize = 256

	// channelPrefix namespaces the signal-bus channels this hub publishes
	// to and subscribes from; one channel per chain id.
	channelPrefix = "coordinator:events:"
	// allChannelsPattern is the wildcard the hub itself subscribes to, so
	// a single hub instance fans every chain's events out to its clients.
	allChannelsPattern = channelPrefix + "*"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client represents a single WebSocket connection, subscribed to one or
// more chain-id channels (default: all).
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	subs map[string]bool
	mu   sync.RWMutex
}

// subscribeMsg is the JSON message a client sends to change its channel
// subscriptions after connecting.
type subscribeMsg struct {
	Subscribe   []string `json:"subscribe"`
	Unsubscribe []string `json:"unsubscribe"`
}

// Hub manages connected WebSocket clients and implements domain.Broadcaster
// by publishing to the shared signal bus; local delivery to clients happens
// only via the bus subscription loop, so a locally-produced event and a
// sibling replica's event take the identical path to the client.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan broadcastMsg
	register   chan *client
	unregister chan *client
	bus        domain.SignalBus
	mu         sync.RWMutex
	logger     *slog.Logger
}

type broadcastMsg struct {
	channel string
	data    []byte
}

// NewHub creates a Hub bridging the given signal bus to WebSocket clients.
func NewHub(bus domain.SignalBus, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan broadcastMsg, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		bus:        bus,
		logger:     logger,
	}
}

// Run starts the hub's event loop and its signal-bus subscription. It
// blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	go h.subscribeToChannel(ctx, allChannelsPattern)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("ws: client connected", slog.Int("total_clients", h.clientCount()))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("ws: client disconnected", slog.Int("total_clients", h.clientCount()))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c.isSubscribed(msg.channel) {
					select {
					case c.send <- msg.data:
					default:
						h.logger.Warn("ws: dropping message for slow client")
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) subscribeToChannel(ctx context.Context, pattern string) {
	msgCh, err := h.bus.Subscribe(ctx, pattern)
	if err != nil {
		h.logger.Error("ws: failed to subscribe", slog.String("pattern", pattern), slog.String("error", err.Error()))
		return
	}
	h.logger.Info("ws: subscribed", slog.String("pattern", pattern))

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-msgCh:
			if !ok {
				h.logger.Warn("ws: subscription closed", slog.String("pattern", pattern))
				return
			}
			h.broadcast <- broadcastMsg{channel: pattern, data: data}
		}
	}
}

func channelForChain(chainID *big.Int) string {
	return channelPrefix + chainID.String()
}

// publish marshals an event envelope into a protobuf structpb.Struct binary
// frame and publishes it to the chain's signal-bus channel.
func (h *Hub) publish(ctx context.Context, chainID *big.Int, eventType domain.EventType, data map[string]interface{}) error {
	payload, err := structpb.NewStruct(map[string]interface{}{
		"type": string(eventType),
		"data": data,
	})
	if err != nil {
		return err
	}
	wire, err := proto.Marshal(payload)
	if err != nil {
		return err
	}
	return h.bus.Publish(ctx, channelForChain(chainID), wire)
}

func hashesToStrings(hashes []common.Hash) []interface{} {
	out := make([]interface{}, len(hashes))
	for i, h := range hashes {
		out[i] = h.Hex()
	}
	return out
}

func bigIntsToStrings(amounts []*big.Int) []interface{} {
	out := make([]interface{}, len(amounts))
	for i, a := range amounts {
		if a == nil {
			out[i] = "0"
			continue
		}
		out[i] = a.String()
	}
	return out
}

// BroadcastFillRequestReceived implements domain.Broadcaster.
func (h *Hub) BroadcastFillRequestReceived(ctx context.Context, chainID *big.Int, ev domain.FillRequestReceivedEvent) error {
	return h.publish(ctx, chainID, domain.EventFillRequestReceived, map[string]interface{}{
		"transactionHash": ev.TransactionHash.Hex(),
		"orderHashes":     hashesToStrings(ev.OrderHashes),
	})
}

// BroadcastFillRequestAccepted implements domain.Broadcaster.
func (h *Hub) BroadcastFillRequestAccepted(ctx context.Context, chainID *big.Int, ev domain.FillRequestAcceptedEvent) error {
	return h.publish(ctx, chainID, domain.EventFillRequestAccepted, map[string]interface{}{
		"transactionHash": ev.TransactionHash.Hex(),
		"orderHashes":     hashesToStrings(ev.OrderHashes),
		"fillAmounts":     bigIntsToStrings(ev.FillAmounts),
	})
}

// BroadcastCancelRequestAccepted implements domain.Broadcaster.
func (h *Hub) BroadcastCancelRequestAccepted(ctx context.Context, chainID *big.Int, ev domain.CancelRequestAcceptedEvent) error {
	return h.publish(ctx, chainID, domain.EventCancelRequestAccepted, map[string]interface{}{
		"transactionHash": ev.TransactionHash.Hex(),
		"orderHashes":     hashesToStrings(ev.OrderHashes),
	})
}

// HandleWS upgrades an HTTP request to a WebSocket connection and registers
// the client with the hub. GET /v2/{chainId}/ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		subs: map[string]bool{allChannelsPattern: true},
	}

	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: unexpected close error", slog.String("error", err.Error()))
			}
			return
		}

		var sub subscribeMsg
		if jsonErr := json.Unmarshal(message, &sub); jsonErr == nil &&
			(len(sub.Subscribe) > 0 || len(sub.Unsubscribe) > 0) {
			c.handleSubscription(sub)
		}
	}
}

func (c *client) handleSubscription(msg subscribeMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, chainID := range msg.Subscribe {
		c.subs[channelPrefix+chainID] = true
	}
	for _, chainID := range msg.Unsubscribe {
		delete(c.subs, channelPrefix+chainID)
	}
}

// isSubscribed matches a wildcard subscription ("coordinator:events:*")
// against the concrete per-chain channel the hub's broadcast loop sees.
func (c *client) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.subs[channel] {
		return true
	}
	for sub := range c.subs {
		if strings.HasSuffix(sub, "*") {
			prefix := strings.TrimSuffix(sub, "*")
			if strings.HasPrefix(channel, prefix) {
				return true
			}
		}
	}
	return false
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Compile-time interface check.
var _ domain.Broadcaster = (*Hub)(nil)
