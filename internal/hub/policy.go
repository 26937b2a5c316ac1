package hub

import "slices"

// rolePermissions is the authorization policy for default event routing:
// which event types each role receives when an event carries no explicit
// targeting. "*" is a wildcard. The table is initialized once and never
// mutated; an event type absent from a role's list does not reach that role.
var rolePermissions = map[string][]string{
	RoleReception: {
		EventVisitCreated, EventVisitApproved, EventVisitDenied, EventVisitInSession,
		EventVisitCompleted, EventVisitStatusUpdate, EventNotification, EventSystemNotification,
	},
	RolePA: {
		EventVisitCreated, EventVisitPendingApproval, EventVisitStatusUpdate,
		EventNotification, EventSystemNotification,
	},
	RoleConsultant: {
		EventVisitAssigned, EventVisitApproved, EventVisitStatusUpdate,
		EventVisitInSession, EventVisitCompleted, EventNotification, EventSystemNotification,
	},
	RoleAdmin: {"*"},
	RoleGuest: {EventConnection, EventHeartbeat},
}

// roleReceivesByDefault reports whether the allow-list lets role receive
// eventType. Unknown roles receive nothing.
func roleReceivesByDefault(role, eventType string) bool {
	for _, allowed := range rolePermissions[role] {
		if allowed == "*" || allowed == eventType {
			return true
		}
	}
	return false
}

// Resolve computes the recipient set for an event, in strict precedence order:
//
//  1. Non-empty TargetRoles: connections whose role is listed, unioned with
//     connections whose allow-list covers the event type. The union mirrors
//     the shipped behavior of the original system; it means explicit role
//     targeting can over-deliver to roles with a matching allow-list entry.
//     Likely a latent bug upstream, preserved for compatibility.
//  2. Non-empty TargetUsers: connections whose user id is listed, exactly.
//  3. Otherwise: connections whose allow-list covers the event type.
func Resolve(evt Event, reg *Registry) []*Connection {
	snapshot := reg.Snapshot()
	recipients := make([]*Connection, 0, len(snapshot))

	for _, conn := range snapshot {
		var matched bool
		switch {
		case len(evt.TargetRoles) > 0:
			matched = slices.Contains(evt.TargetRoles, conn.Role) || roleReceivesByDefault(conn.Role, evt.Type)
		case len(evt.TargetUsers) > 0:
			matched = slices.Contains(evt.TargetUsers, conn.UserID)
		default:
			matched = roleReceivesByDefault(conn.Role, evt.Type)
		}
		if matched {
			recipients = append(recipients, conn)
		}
	}
	return recipients
}
