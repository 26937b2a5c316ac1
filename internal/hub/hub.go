// Package hub implements the in-process real-time event hub: a registry of
// open dashboard streams, role/user-targeted broadcast of workflow events,
// and per-connection heartbeat liveness. Delivery is in-memory, best-effort,
// at-most-once; a frame that fails to reach a connection is lost and the
// connection is torn down.
package hub

import (
	"log/slog"
	"time"
)

const DefaultHeartbeatInterval = 30 * time.Second

// Hub owns the connection registry and implements broadcast, lifecycle and
// liveness. Construct once at process start and share by reference.
type Hub struct {
	registry  *Registry
	heartbeat time.Duration
	startedAt time.Time
}

func New(heartbeatInterval time.Duration) *Hub {
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	return &Hub{
		registry:  NewRegistry(),
		heartbeat: heartbeatInterval,
		startedAt: time.Now(),
	}
}

// Open establishes a new stream: generates a connection id, registers the
// connection, writes the handshake frame, sends the role welcome for
// reception/pa, and starts the heartbeat loop. On handshake failure the
// connection is torn down and the error returned.
func (h *Hub) Open(id Identity, writer FrameWriter) (*Connection, error) {
	conn, err := newConnection(id, writer)
	if err != nil {
		return nil, err
	}

	if err := h.registry.Register(conn); err != nil {
		_ = writer.Close()
		return nil, err
	}

	handshake := Event{
		Type: EventConnection,
		Data: map[string]any{
			"connectionId":      conn.ID,
			"message":           "Connected to wiws real-time updates",
			"userRole":          conn.Role,
			"userId":            conn.UserID,
			"timestamp":         nowStamp(),
			"activeConnections": h.registry.Size(),
		},
	}
	if err := h.sendTo(conn, handshake); err != nil {
		h.closeConnection(conn)
		return nil, err
	}

	if welcome, ok := roleWelcome(conn.Role); ok {
		if err := h.sendTo(conn, welcome); err != nil {
			h.closeConnection(conn)
			return nil, err
		}
	}

	go h.heartbeatLoop(conn)

	slog.Info("stream connection opened",
		"connection_id", conn.ID,
		"user_id", conn.UserID,
		"role", conn.Role,
		"active_connections", h.registry.Size(),
	)
	return conn, nil
}

func roleWelcome(role string) (Event, bool) {
	var msg string
	switch role {
	case RoleReception:
		msg = "Ready to register new visitors"
	case RolePA:
		msg = "Ready to review pending approvals"
	default:
		return Event{}, false
	}
	return Event{
		Type: EventStatusUpdate,
		Data: map[string]any{"message": msg, "timestamp": nowStamp()},
	}, true
}

// Close tears down a connection: idempotent transport close, heartbeat
// cancellation via the connection's done channel, and deregistration.
func (h *Hub) Close(conn *Connection) {
	h.closeConnection(conn)
}

func (h *Hub) closeConnection(conn *Connection) {
	if !conn.close() {
		return
	}
	h.registry.Deregister(conn.ID)
	slog.Info("stream connection closed",
		"connection_id", conn.ID,
		"active_connections", h.registry.Size(),
	)
}

// Broadcast delivers an event to the recipient set computed by Resolve. A
// missing event type is a VALIDATION error and an unserializable payload an
// ENCODING error, both raised before any write. Per-connection write
// failures deregister that connection and are counted, never propagated:
// delivery to the remaining recipients proceeds.
func (h *Hub) Broadcast(evt Event) (BroadcastResult, error) {
	if evt.Type == "" {
		return BroadcastResult{}, newError(CodeValidation, "event type is required", nil)
	}
	if evt.Timestamp == "" {
		evt.Timestamp = nowStamp()
	}

	frame, err := Encode(evt)
	if err != nil {
		return BroadcastResult{}, err
	}

	recipients := Resolve(evt, h.registry)

	var sent, failed int
	for _, conn := range recipients {
		if err := conn.writeFrame(frame); err != nil {
			slog.Warn("broadcast write failed", "connection_id", conn.ID, "event_type", evt.Type, "error", err)
			h.closeConnection(conn)
			failed++
			continue
		}
		sent++
	}

	slog.Info("event broadcast",
		"event_type", evt.Type,
		"sent", sent,
		"errors", failed,
		"active_connections", h.registry.Size(),
	)
	return BroadcastResult{
		EventType:         evt.Type,
		SentCount:         sent,
		ErrorCount:        failed,
		ActiveConnections: h.registry.Size(),
		Timestamp:         evt.Timestamp,
	}, nil
}

// Notify wraps a human-facing message in a notification envelope and
// broadcasts it in-process. Level is one of info/success/warning/error and
// duration is the client display time in milliseconds.
func (h *Hub) Notify(message, level string, durationMS int, targetRoles, targetUsers []string) (BroadcastResult, error) {
	if level == "" {
		level = "info"
	}
	if durationMS <= 0 {
		durationMS = 5000
	}
	return h.Broadcast(Event{
		Type: EventNotification,
		Data: map[string]any{
			"message":   message,
			"type":      level,
			"duration":  durationMS,
			"timestamp": nowStamp(),
		},
		TargetRoles: targetRoles,
		TargetUsers: targetUsers,
	})
}

// Status returns a diagnostics snapshot.
func (h *Hub) Status() Status {
	return Status{
		TotalConnections:  h.registry.Size(),
		ConnectionsByRole: h.registry.CountByRole(),
		Uptime:            time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp:         nowStamp(),
	}
}

// Shutdown closes every open connection. Used on graceful process exit.
func (h *Hub) Shutdown() {
	for _, conn := range h.registry.Snapshot() {
		h.closeConnection(conn)
	}
}

// sendTo writes a single event directly to one connection, bypassing
// targeting. Used for the handshake, the role welcome, and heartbeats.
func (h *Hub) sendTo(conn *Connection, evt Event) error {
	if evt.Timestamp == "" {
		evt.Timestamp = nowStamp()
	}
	frame, err := Encode(evt)
	if err != nil {
		return err
	}
	return conn.writeFrame(frame)
}

// heartbeatLoop emits a self-targeted heartbeat frame on a fixed cadence
// until the connection closes. A failed heartbeat write tears the
// connection down the same way a failed broadcast write does.
func (h *Hub) heartbeatLoop(conn *Connection) {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-conn.Done():
			return
		case <-ticker.C:
			beat := Event{
				Type: EventHeartbeat,
				Data: map[string]any{
					"timestamp":         nowStamp(),
					"activeConnections": h.registry.Size(),
				},
			}
			if err := h.sendTo(conn, beat); err != nil {
				slog.Debug("heartbeat write failed", "connection_id", conn.ID, "error", err)
				h.closeConnection(conn)
				return
			}
		}
	}
}
