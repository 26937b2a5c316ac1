package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wiws/wiws_stream/internal/hub"
)

// Service is the hub surface the API consumes.
type Service interface {
	Open(id hub.Identity, writer hub.FrameWriter) (*hub.Connection, error)
	Close(conn *hub.Connection)
	Broadcast(evt hub.Event) (hub.BroadcastResult, error)
	Notify(message, level string, durationMS int, targetRoles, targetUsers []string) (hub.BroadcastResult, error)
	Status() hub.Status
}

// IdentityResolver yields the authenticated identity for a stream-open
// request, typically backed by the session layer fronting this service.
// Returning false falls the handler back to query-parameter identity; that
// degraded path keeps the stream reachable without the auth layer but lets
// clients claim any role. Known trust trade-off, not to be papered over.
type IdentityResolver interface {
	Resolve(r *http.Request) (hub.Identity, bool)
}

func NewServer(svc Service, resolver IdentityResolver) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("WIWS Stream API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	router.Get("/api/stream", streamHandler(svc, resolver))
	router.Get("/api/stream/ws", wsHandler(svc, resolver))

	registerHubHandlers(api, svc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *hub.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case hub.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case hub.CodeEncoding:
			return huma.Error422UnprocessableEntity(coded.Message)
		case hub.CodeDuplicateConnection:
			return huma.Error409Conflict(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
