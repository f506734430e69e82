// Package events decodes the loosely-typed records emitted by the voice
// platform's event transport and routes them to the transcript aggregator
// and the message ledger.
package events

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Known event types. Anything else is an auxiliary control frame and is
// dropped without comment.
const (
	TypeTurnEnd               = "turn.end"
	TypeUserTranscriptDelta   = "user.transcript.delta"
	TypeUserTranscriptInterim = "user.transcript.interim_delta"
	TypeAssistantResponseText = "response.text"
)

// Event is one inbound record. All fields are optional on the wire;
// turn_id and delta_counter may arrive as strings or numbers.
type Event struct {
	Type         string `json:"type,omitempty"`
	TurnID       any    `json:"turn_id,omitempty"`
	DeltaCounter any    `json:"delta_counter,omitempty"`
	Content      string `json:"content,omitempty"`
}

// Decode parses a raw frame. Unknown fields are ignored; only invalid JSON
// errors.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Turn coerces the turn id to a string. Numeric ids are rendered in
// decimal; a missing or empty id reports false.
func (e Event) Turn() (string, bool) {
	switch id := e.TurnID.(type) {
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10), true
		}
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case json.Number:
		return id.String(), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return "", false
	}
}
