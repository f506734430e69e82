package events

import "testing"

func TestDecodeTolerantOfExtraFields(t *testing.T) {
	t.Parallel()
	ev, err := Decode([]byte(`{"type":"user.transcript.delta","turn_id":"t1","delta_counter":2,"content":"hi","source":"mic"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != TypeUserTranscriptDelta || ev.Content != "hi" {
		t.Fatalf("event=%+v", ev)
	}
	if id, ok := ev.Turn(); !ok || id != "t1" {
		t.Fatalf("turn=%q,%v", id, ok)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestTurnCoercesNumbers(t *testing.T) {
	t.Parallel()
	ev, err := Decode([]byte(`{"type":"turn.end","turn_id":42}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	id, ok := ev.Turn()
	if !ok || id != "42" {
		t.Fatalf("turn=%q,%v", id, ok)
	}
}

func TestTurnMissingOrBlank(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{`{"type":"turn.end"}`, `{"type":"turn.end","turn_id":""}`, `{"type":"turn.end","turn_id":"  "}`} {
		ev, err := Decode([]byte(raw))
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if id, ok := ev.Turn(); ok {
			t.Fatalf("raw=%s turn=%q", raw, id)
		}
	}
}
