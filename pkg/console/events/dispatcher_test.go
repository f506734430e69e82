package events

import (
	"testing"

	"github.com/vango-go/vai-console-lite/pkg/console/ledger"
	"github.com/vango-go/vai-console-lite/pkg/console/transcript"
)

func newDispatcher() (*Dispatcher, *transcript.Store, *ledger.Ledger) {
	store := transcript.NewStore()
	l := ledger.New()
	return &Dispatcher{
		Aggregator: transcript.NewAggregator(store),
		Ledger:     l,
	}, store, l
}

func TestDispatchUserDeltasReassembleIntoOneMessage(t *testing.T) {
	t.Parallel()
	d, _, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "Hi "})
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(1), Content: "there"})

	msgs := l.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages=%d", len(msgs))
	}
	m := msgs[0]
	if m.Role != ledger.RoleUser || m.Text != "Hi there" || m.TurnID != "t1" {
		t.Fatalf("message=%+v", m)
	}
	want := []transcript.Chunk{{Counter: 0, Text: "Hi "}, {Counter: 1, Text: "there"}}
	if len(m.Chunks) != len(want) {
		t.Fatalf("chunks=%v", m.Chunks)
	}
	for i := range want {
		if m.Chunks[i] != want[i] {
			t.Fatalf("chunk[%d]=%v want %v", i, m.Chunks[i], want[i])
		}
	}
}

func TestDispatchOutOfOrderCounters(t *testing.T) {
	t.Parallel()
	d, _, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptInterim, TurnID: "t1", DeltaCounter: float64(2), Content: "c"})
	d.Dispatch(Event{Type: TypeUserTranscriptInterim, TurnID: "t1", DeltaCounter: float64(0), Content: "a"})
	d.Dispatch(Event{Type: TypeUserTranscriptInterim, TurnID: "t1", DeltaCounter: float64(1), Content: "b"})

	if got := l.Messages()[0].Text; got != "abc" {
		t.Fatalf("text=%q", got)
	}
}

func TestDispatchTurnEndClearsChunksKeepsMessage(t *testing.T) {
	t.Parallel()
	d, store, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "done"})
	d.Dispatch(Event{Type: TypeTurnEnd, TurnID: "t1"})

	if got := store.Reassemble("t1"); got != nil {
		t.Fatalf("chunks survive turn end: %v", got)
	}
	if got := l.Messages()[0].Text; got != "done" {
		t.Fatalf("final transcript=%q", got)
	}

	// A new delta for the same turn starts from empty.
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "again"})
	if got := l.Messages()[0].Text; got != "again" {
		t.Fatalf("restarted transcript=%q", got)
	}
}

func TestDispatchTurnEndWithoutTurnIDIgnored(t *testing.T) {
	t.Parallel()
	d, store, _ := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "x"})
	d.Dispatch(Event{Type: TypeTurnEnd})
	if got := store.Reassemble("t1"); len(got) != 1 {
		t.Fatalf("chunks=%v", got)
	}
}

func TestDispatchDeltaWithoutTurnIDAppendsFallbackMessage(t *testing.T) {
	t.Parallel()
	d, _, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, Content: "full one"})
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, Content: "full two"})

	msgs := l.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages=%d", len(msgs))
	}
	for i, m := range msgs {
		if len(m.Chunks) != 0 {
			t.Fatalf("message[%d] chunks=%v", i, m.Chunks)
		}
	}
}

func TestDispatchFallbackDropsStaleChunksFromLedger(t *testing.T) {
	t.Parallel()
	d, _, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "partial"})
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: "oops", Content: "replacement"})

	msgs := l.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages=%d", len(msgs))
	}
	if msgs[0].Text != "replacement" || len(msgs[0].Chunks) != 0 {
		t.Fatalf("message=%+v", msgs[0])
	}
}

func TestDispatchAssistantTextAccumulates(t *testing.T) {
	t.Parallel()
	d, _, l := newDispatcher()
	d.Dispatch(Event{Type: TypeAssistantResponseText, TurnID: "t1", Content: "Hello"})
	d.Dispatch(Event{Type: TypeAssistantResponseText, TurnID: "t1", Content: " world"})

	msgs := l.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages=%d", len(msgs))
	}
	if msgs[0].Role != ledger.RoleAssistant || msgs[0].Text != "Hello world" {
		t.Fatalf("message=%+v", msgs[0])
	}
}

func TestDispatchUnknownOrMissingTypeIsNoop(t *testing.T) {
	t.Parallel()
	d, store, l := newDispatcher()
	d.Dispatch(Event{Type: TypeUserTranscriptDelta, TurnID: "t1", DeltaCounter: float64(0), Content: "x"})
	before := l.Messages()

	d.Dispatch(Event{})
	d.Dispatch(Event{Type: "session.ping"})
	d.Dispatch(Event{Type: "audio.frame", Content: "zzzz"})

	after := l.Messages()
	if len(after) != len(before) || after[0].Text != before[0].Text {
		t.Fatalf("ledger changed: %+v", after)
	}
	if got := store.Reassemble("t1"); len(got) != 1 {
		t.Fatalf("chunk store changed: %v", got)
	}
}
