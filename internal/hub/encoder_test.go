package hub

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	evt := Event{
		Type:      EventVisitCreated,
		Data:      map[string]any{"visitId": "v42", "visitor": "Ada"},
		Timestamp: "2026-08-30T10:00:00Z",
	}

	frame, err := Encode(evt)
	if err != nil {
		t.Fatalf("Encode() = %v; want nil", err)
	}
	if !strings.HasPrefix(string(frame), "data: ") || !strings.HasSuffix(string(frame), "\n\n") {
		t.Fatalf("frame = %q; want data: prefix and blank-line terminator", frame)
	}

	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() = %v; want nil", err)
	}
	if decoded.Type != evt.Type || decoded.Timestamp != evt.Timestamp {
		t.Fatalf("Decode() = %+v; want type/timestamp of %+v", decoded, evt)
	}
	data, ok := decoded.Data.(map[string]any)
	if !ok || data["visitId"] != "v42" || data["visitor"] != "Ada" {
		t.Fatalf("Decode() data = %#v; want original payload", decoded.Data)
	}
}

func TestEncodeStripsTargetingFromFrame(t *testing.T) {
	evt := Event{
		Type:        EventNotification,
		Data:        map[string]any{"message": "hello"},
		Timestamp:   "2026-08-30T10:00:00Z",
		TargetRoles: []string{RoleAdmin},
		TargetUsers: []string{"u1"},
	}

	frame, err := Encode(evt)
	if err != nil {
		t.Fatalf("Encode() = %v; want nil", err)
	}
	if strings.Contains(string(frame), "target_roles") || strings.Contains(string(frame), "target_users") {
		t.Fatalf("frame %q leaks targeting metadata", frame)
	}
}

func TestEncodeUnserializablePayload(t *testing.T) {
	evt := Event{Type: EventNotification, Data: make(chan int)}

	_, err := Encode(evt)
	if err == nil {
		t.Fatal("Encode() = nil; want encoding error")
	}
	var coded *CodedError
	if !errors.As(err, &coded) || coded.Code != CodeEncoding {
		t.Fatalf("Encode() error = %v; want code %s", err, CodeEncoding)
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	for _, frame := range []string{"", "data: {}", "event: x\n\n", "data: not-json\n\n"} {
		if _, err := Decode([]byte(frame)); err == nil {
			t.Fatalf("Decode(%q) = nil; want error", frame)
		}
	}
}
