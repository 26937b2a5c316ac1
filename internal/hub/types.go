package hub

import (
	"fmt"
	"time"
)

const (
	CodeValidation          = "VALIDATION"
	CodeDuplicateConnection = "DUPLICATE_CONNECTION"
	CodeEncoding            = "ENCODING"
	CodeWriteFailure        = "WRITE_FAILURE"
	CodeConnectionClosed    = "CONNECTION_CLOSED"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// Roles a stream client can connect with. Guest is the fallback for
// unauthenticated clients.
const (
	RoleReception  = "reception"
	RolePA         = "pa"
	RoleConsultant = "consultant"
	RoleAdmin      = "admin"
	RoleGuest      = "guest"
)

// Event type vocabulary. Producers may send types outside this list; an
// unknown type reaches nobody through default routing (fail closed).
const (
	EventConnection           = "connection"
	EventHeartbeat            = "heartbeat"
	EventStatusUpdate         = "status_update"
	EventVisitCreated         = "visit_created"
	EventVisitApproved        = "visit_approved"
	EventVisitDenied          = "visit_denied"
	EventVisitPendingApproval = "visit_pending_approval"
	EventVisitAssigned        = "visit_assigned"
	EventVisitInSession       = "visit_in_session"
	EventVisitCompleted       = "visit_completed"
	EventVisitCancelled       = "visit_cancelled"
	EventVisitStatusUpdate    = "visit_status_update"
	EventServiceUpdated       = "service_updated"
	EventUserUpdated          = "user_updated"
	EventNotification         = "notification"
	EventSystemNotification   = "system_notification"
)

// Identity describes who is on the other end of a stream, as resolved by the
// surrounding auth layer or the query-parameter fallback.
type Identity struct {
	UserID string
	Role   string
}

// GuestIdentity is assigned when no identity could be resolved at all.
func GuestIdentity() Identity {
	return Identity{UserID: "unknown", Role: RoleGuest}
}

// Event is the unit of broadcast. Data is an arbitrary JSON-serializable
// payload. Timestamp is stamped at send time when empty. TargetRoles takes
// precedence over TargetUsers; with neither set, delivery follows the
// per-role allow-list.
type Event struct {
	Type        string   `json:"type"`
	Data        any      `json:"data,omitempty"`
	Timestamp   string   `json:"timestamp,omitempty"`
	TargetRoles []string `json:"target_roles,omitempty"`
	TargetUsers []string `json:"target_users,omitempty"`
}

// BroadcastResult summarizes one broadcast call for producer-side logging.
type BroadcastResult struct {
	EventType         string `json:"event_type"`
	SentCount         int    `json:"sent_count"`
	ErrorCount        int    `json:"error_count"`
	ActiveConnections int    `json:"active_connections"`
	Timestamp         string `json:"timestamp"`
}

// Status is a read-only diagnostics snapshot of the hub.
type Status struct {
	TotalConnections  int            `json:"total_connections"`
	ConnectionsByRole map[string]int `json:"connections_by_role"`
	Uptime            string         `json:"uptime"`
	Timestamp         string         `json:"timestamp"`
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
