package api

import (
	"net/http"
	"sync"

	"github.com/wiws/wiws_stream/internal/hub"
)

// streamHandler serves GET /api/stream: resolves identity, opens a hub
// connection backed by the response writer, and parks until the client
// disconnects or the hub closes the connection.
func streamHandler(svc Service, resolver IdentityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		identity := resolveIdentity(r, resolver)

		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		setCORSHeaders(w, r)
		flusher.Flush()

		conn, err := svc.Open(identity, &sseWriter{w: w, flusher: flusher})
		if err != nil {
			// Headers are already on the wire; nothing useful to report to
			// the client beyond ending the stream.
			return
		}
		defer svc.Close(conn)

		select {
		case <-r.Context().Done():
		case <-conn.Done():
		}
	}
}

// resolveIdentity prefers the injected auth resolver and falls back to
// query-supplied identity, defaulting to an anonymous guest.
func resolveIdentity(r *http.Request, resolver IdentityResolver) hub.Identity {
	if resolver != nil {
		if id, ok := resolver.Resolve(r); ok {
			return id
		}
	}

	identity := hub.GuestIdentity()
	if role := r.URL.Query().Get("role"); role != "" {
		identity.Role = role
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		identity.UserID = userID
	}
	return identity
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control, Content-Type, Authorization")
}

// sseWriter adapts an http.ResponseWriter to hub.FrameWriter. The hub
// serializes writes per connection; the mutex here only guards against a
// flush racing transport teardown.
type sseWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseWriter) Write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Close is a no-op: the HTTP response body closes when the handler returns.
func (s *sseWriter) Close() error { return nil }
