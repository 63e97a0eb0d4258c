// Package ws implements the streaming surface: a WebSocket endpoint that
// authenticates once at handshake time with the same bearer-token
// convention as the HTTP API, then pushes task events to subscribers of
// the task topic.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/hivetech/kanban-api/internal/api/middleware"
	"github.com/hivetech/kanban-api/internal/api/shared"
	"github.com/hivetech/kanban-api/internal/authz"
	"github.com/hivetech/kanban-api/internal/events"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

// writeTimeout bounds a single event write to one client.
const writeTimeout = 5 * time.Second

// subscriberBuffer is the per-connection event channel size. A client
// that falls further behind misses events; there is no delivery guarantee.
const subscriberBuffer = 64

// ClientMessage is a client-originated control message: a subscription
// request or an application message to the designated inbound path.
type ClientMessage struct {
	Action      string `json:"action"`
	Topic       string `json:"topic,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// serverAck confirms a successful subscription to the client.
type serverAck struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// Handler authenticates streaming connections and bridges the event hub
// onto them. Authentication happens exactly once, before the connection
// is upgraded; a connection is never accepted without a verified
// identity, and the identity is never re-verified for the connection's
// lifetime.
type Handler struct {
	jwtService auth.JWTService
	userStore  store.UserStore
	policy     *authz.Policy
	hub        *events.Hub
	logger     *slog.Logger
}

// NewHandler creates a new streaming Handler with the given dependencies.
func NewHandler(
	jwtService auth.JWTService,
	userStore store.UserStore,
	policy *authz.Policy,
	hub *events.Hub,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		jwtService: jwtService,
		userStore:  userStore,
		policy:     policy,
		hub:        hub,
		logger:     logger.With("component", "ws"),
	}
}

// Serve handles GET /ws. The token is taken from the "token" query
// parameter first, then from the bearer header. Any authentication
// failure refuses the handshake outright; the connection is never
// upgraded into a partial or degraded state.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket accept failed", "error", err)
		return
	}

	h.logger.Info("streaming connection established", "user_id", identity.UserID)
	h.serveConn(r.Context(), conn, identity)
}

// authenticate verifies the handshake credential and resolves the
// identity bound to the connection. Token contents are never logged.
func (h *Handler) authenticate(r *http.Request) (shared.Identity, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var err error
		token, err = middleware.ExtractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			return shared.Identity{}, false
		}
	}

	claims, err := h.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		h.logger.Debug("handshake token rejected")
		return shared.Identity{}, false
	}

	user, err := h.userStore.GetByEmail(r.Context(), claims.Subject)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			h.logger.Error("failed to look up handshake subject", "error", err)
		}
		return shared.Identity{}, false
	}

	return shared.Identity{UserID: user.ID, Email: user.Email}, true
}

// serveConn runs the connection until the client disconnects, the
// request context is canceled, or a policy violation closes it.
func (h *Handler) serveConn(ctx context.Context, conn *websocket.Conn, identity shared.Identity) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := h.hub.Subscribe(subscriberBuffer)
	defer h.hub.Unsubscribe(sub)

	// Events flow only after an explicit, policy-checked subscription.
	var subscribed atomic.Bool

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		h.readLoop(ctx, conn, identity, &subscribed)
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case <-readDone:
			return
		case event, ok := <-sub.C:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closed")
				return
			}
			if !subscribed.Load() {
				continue
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, event)
			cancelWrite()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}

// readLoop consumes client control messages. Subscribing to anything but
// the task topic, or sending outside the designated inbound path, closes
// the connection with a policy violation regardless of identity.
func (h *Handler) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	identity shared.Identity,
	subscribed *atomic.Bool,
) {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}

		switch msg.Action {
		case "subscribe":
			if !h.policy.CanSubscribe(msg.Topic) {
				h.logger.Warn("subscription denied",
					"user_id", identity.UserID,
					"topic", msg.Topic)
				_ = conn.Close(websocket.StatusPolicyViolation, "subscription denied")
				return
			}
			subscribed.Store(true)
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, serverAck{Type: "subscribed", Topic: msg.Topic})
			cancelWrite()
			if err != nil {
				return
			}
		case "send":
			if !h.policy.CanSend(msg.Destination) {
				h.logger.Warn("send denied",
					"user_id", identity.UserID,
					"destination", msg.Destination)
				_ = conn.Close(websocket.StatusPolicyViolation, "destination denied")
				return
			}
			// The inbound application path is reserved for future
			// client-originated messages; accepted and discarded.
		default:
			_ = conn.Close(websocket.StatusPolicyViolation, "unknown action")
			return
		}
	}
}
