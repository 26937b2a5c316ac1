package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var frameSuffix = []byte("\n\n")

const framePrefix = "data: "

// Encode serializes an event as a single SSE frame: `data: <json>\n\n`.
// Targeting hints are routing metadata, not payload, and are stripped from
// the wire frame. Returns a coded ENCODING error for unserializable payloads.
func Encode(evt Event) ([]byte, error) {
	wire := Event{Type: evt.Type, Data: evt.Data, Timestamp: evt.Timestamp}
	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, newError(CodeEncoding, fmt.Sprintf("event %q has unserializable payload", evt.Type), err)
	}

	buf := make([]byte, 0, len(framePrefix)+len(payload)+len(frameSuffix))
	buf = append(buf, framePrefix...)
	buf = append(buf, payload...)
	buf = append(buf, frameSuffix...)
	return buf, nil
}

// Decode parses a frame produced by Encode back into an event. Used by test
// clients; the hub itself never reads frames.
func Decode(frame []byte) (Event, error) {
	if !bytes.HasPrefix(frame, []byte(framePrefix)) || !bytes.HasSuffix(frame, frameSuffix) {
		return Event{}, newError(CodeValidation, "malformed SSE frame", nil)
	}
	payload := frame[len(framePrefix) : len(frame)-len(frameSuffix)]

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, newError(CodeValidation, "malformed SSE frame payload", err)
	}
	return evt, nil
}
