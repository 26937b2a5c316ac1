package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// wsHandler serves GET /api/stream/ws: the same hub stream over WebSocket
// for dashboard clients that cannot hold an EventSource. Each encoded frame
// is delivered as one text message.
func wsHandler(svc Service, resolver IdentityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := resolveIdentity(r, resolver)

		netConn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
			return
		}

		conn, err := svc.Open(identity, &wsFrameWriter{conn: netConn})
		if err != nil {
			_ = netConn.Close()
			return
		}

		// Reader goroutine exists only to detect the client going away;
		// inbound payloads are discarded.
		go func() {
			defer svc.Close(conn)
			for {
				if _, _, err := wsutil.ReadClientData(netConn); err != nil {
					return
				}
			}
		}()
	}
}

type wsFrameWriter struct {
	conn net.Conn
}

func (w *wsFrameWriter) Write(frame []byte) error {
	return wsutil.WriteServerMessage(w.conn, ws.OpText, frame)
}

func (w *wsFrameWriter) Close() error {
	return w.conn.Close()
}
