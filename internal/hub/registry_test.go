package hub

import (
	"errors"
	"testing"
)

func testConn(id, userID, role string) *Connection {
	return &Connection{
		ID:     id,
		UserID: userID,
		Role:   role,
		writer: &nopWriter{},
		done:   make(chan struct{}),
	}
}

type nopWriter struct{}

func (w *nopWriter) Write(frame []byte) error { return nil }
func (w *nopWriter) Close() error             { return nil }

func TestRegistryRegisterAndSnapshot(t *testing.T) {
	reg := NewRegistry()
	conn := testConn("conn_1", "u1", RoleReception)

	if err := reg.Register(conn); err != nil {
		t.Fatalf("Register() = %v; want nil", err)
	}
	if reg.Size() != 1 {
		t.Fatalf("Size() = %d; want 1", reg.Size())
	}

	snapshot := reg.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != "conn_1" {
		t.Fatalf("Snapshot() = %v; want one entry with id conn_1", snapshot)
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(testConn("conn_1", "u1", RolePA)); err != nil {
		t.Fatalf("first Register() = %v; want nil", err)
	}

	err := reg.Register(testConn("conn_1", "u2", RoleAdmin))
	if err == nil {
		t.Fatal("second Register() = nil; want duplicate error")
	}
	var coded *CodedError
	if !errors.As(err, &coded) || coded.Code != CodeDuplicateConnection {
		t.Fatalf("second Register() error = %v; want code %s", err, CodeDuplicateConnection)
	}
	if reg.Size() != 1 {
		t.Fatalf("Size() after duplicate = %d; want 1", reg.Size())
	}
}

func TestRegistryDeregisterIdempotent(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(testConn("conn_1", "u1", RoleGuest)); err != nil {
		t.Fatalf("Register() = %v; want nil", err)
	}

	reg.Deregister("conn_1")
	if reg.Size() != 0 {
		t.Fatalf("Size() after deregister = %d; want 0", reg.Size())
	}

	// Second removal of the same id must be a no-op.
	reg.Deregister("conn_1")
	if reg.Size() != 0 {
		t.Fatalf("Size() after double deregister = %d; want 0", reg.Size())
	}
}

func TestRegistryCountByRole(t *testing.T) {
	reg := NewRegistry()
	for i, role := range []string{RoleReception, RoleReception, RolePA} {
		conn := testConn(string(rune('a'+i)), "u", role)
		if err := reg.Register(conn); err != nil {
			t.Fatalf("Register() = %v; want nil", err)
		}
	}

	counts := reg.CountByRole()
	if counts[RoleReception] != 2 || counts[RolePA] != 1 {
		t.Fatalf("CountByRole() = %v; want reception=2 pa=1", counts)
	}
}
