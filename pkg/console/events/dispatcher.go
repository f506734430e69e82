package events

import (
	"github.com/vango-go/vai-console-lite/pkg/console/ledger"
	"github.com/vango-go/vai-console-lite/pkg/console/transcript"
)

// Dispatcher routes decoded events to the aggregator and the ledger. All
// handling is synchronous; one event is processed to completion before the
// next.
type Dispatcher struct {
	Aggregator *transcript.Aggregator
	Ledger     *ledger.Ledger
}

// Dispatch applies one event. Events with a missing or unrecognized type
// leave all state unchanged.
func (d *Dispatcher) Dispatch(ev Event) {
	switch ev.Type {
	case TypeTurnEnd:
		turnID, ok := ev.Turn()
		if !ok {
			return
		}
		d.Aggregator.OnTurnEnd(turnID)

	case TypeUserTranscriptDelta, TypeUserTranscriptInterim:
		turnID, _ := ev.Turn()
		up := d.Aggregator.OnDelta(turnID, ev.DeltaCounter, ev.Content)
		d.Ledger.Upsert(ledger.Message{
			Role:   ledger.RoleUser,
			Text:   up.Text,
			TurnID: up.TurnID,
			Chunks: up.Chunks,
		}, ledger.MergeReplace)

	case TypeAssistantResponseText:
		turnID, _ := ev.Turn()
		d.Ledger.Upsert(ledger.Message{
			Role:   ledger.RoleAssistant,
			Text:   ev.Content,
			TurnID: turnID,
		}, ledger.MergeAccumulate)
	}
}
