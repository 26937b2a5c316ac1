package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wiws/wiws_stream/internal/hub"
)

func registerHubHandlers(api huma.API, svc Service) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	type broadcastInput struct {
		Body struct {
			Type        string   `json:"type" minLength:"1" doc:"Event type, e.g. visit_created"`
			Data        any      `json:"data,omitempty" doc:"Arbitrary event payload"`
			TargetRoles []string `json:"target_roles,omitempty" doc:"Explicit role targeting; unioned with the default per-role policy"`
			TargetUsers []string `json:"target_users,omitempty" doc:"Explicit user targeting; ignored when target_roles is set"`
		}
	}
	type broadcastOutput struct {
		Body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			hub.BroadcastResult
		}
	}
	huma.Register(api, huma.Operation{OperationID: "broadcast-event", Method: http.MethodPost, Path: "/api/stream/broadcast", Summary: "Broadcast an event to connected clients", Tags: []string{"Stream"}},
		func(ctx context.Context, input *broadcastInput) (*broadcastOutput, error) {
			result, err := svc.Broadcast(hub.Event{
				Type:        input.Body.Type,
				Data:        input.Body.Data,
				TargetRoles: input.Body.TargetRoles,
				TargetUsers: input.Body.TargetUsers,
			})
			if err != nil {
				return nil, mapErr(err)
			}
			out := &broadcastOutput{}
			out.Body.Success = true
			out.Body.Message = "Event broadcasted successfully"
			out.Body.BroadcastResult = result
			return out, nil
		})

	type notifyInput struct {
		Body struct {
			Message     string   `json:"message" minLength:"1" doc:"Human-readable notification text"`
			Type        string   `json:"type,omitempty" enum:"info,success,warning,error" doc:"Notification severity (default info)"`
			Duration    int      `json:"duration,omitempty" doc:"Client display duration in milliseconds (default 5000)"`
			TargetRoles []string `json:"target_roles,omitempty"`
			TargetUsers []string `json:"target_users,omitempty"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "send-notification", Method: http.MethodPost, Path: "/api/stream/notify", Summary: "Send a notification to specific users or roles", Tags: []string{"Stream"}},
		func(ctx context.Context, input *notifyInput) (*broadcastOutput, error) {
			result, err := svc.Notify(input.Body.Message, input.Body.Type, input.Body.Duration, input.Body.TargetRoles, input.Body.TargetUsers)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &broadcastOutput{}
			out.Body.Success = true
			out.Body.Message = "Notification sent successfully"
			out.Body.BroadcastResult = result
			return out, nil
		})

	type statusOutput struct {
		Body struct {
			Success bool       `json:"success"`
			Data    hub.Status `json:"data"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "stream-status", Method: http.MethodGet, Path: "/api/stream/status", Summary: "Connection status snapshot", Tags: []string{"Stream"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			out := &statusOutput{}
			out.Body.Success = true
			out.Body.Data = svc.Status()
			return out, nil
		})
}
