package hub

import (
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// FrameWriter is the transport-side output handle for one stream. Write
// delivers a single encoded frame; it may block on backpressure. Close tears
// down the transport. Both may be called from multiple goroutines; the
// Connection serializes access.
type FrameWriter interface {
	Write(frame []byte) error
	Close() error
}

// Connection is one open client stream with its routing metadata. All frame
// writes (broadcast and heartbeat) are serialized through writeMu so frames
// never interleave on the wire.
type Connection struct {
	ID       string
	UserID   string
	Role     string
	OpenedAt time.Time

	writer FrameWriter

	writeMu sync.Mutex
	closed  bool
	done    chan struct{}
}

func newConnection(id Identity, writer FrameWriter) (*Connection, error) {
	suffix, err := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 9)
	if err != nil {
		return nil, fmt.Errorf("generate connection id: %w", err)
	}
	return &Connection{
		ID:       fmt.Sprintf("conn_%d_%s", time.Now().UnixMilli(), suffix),
		UserID:   id.UserID,
		Role:     id.Role,
		OpenedAt: time.Now(),
		writer:   writer,
		done:     make(chan struct{}),
	}, nil
}

// writeFrame writes one frame under the connection's write lock. Writing to a
// closed connection is a coded CONNECTION_CLOSED error.
func (c *Connection) writeFrame(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return newError(CodeConnectionClosed, fmt.Sprintf("connection closed: %s", c.ID), nil)
	}
	if err := c.writer.Write(frame); err != nil {
		return newError(CodeWriteFailure, fmt.Sprintf("write to connection %s failed", c.ID), err)
	}
	return nil
}

// close marks the connection closed and closes the transport. Idempotent;
// transport close errors are ignored. Returns true on the first call so the
// caller knows it owns deregistration.
func (c *Connection) close() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	close(c.done)
	_ = c.writer.Close()
	return true
}

// Done is closed when the connection transitions to CLOSED. The heartbeat
// loop and transport handlers use it as their cancellation signal.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}
