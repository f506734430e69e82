package transcript

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Update is the user message an Aggregator emits after absorbing one delta.
// Callers upsert it into their ledger, replacing any prior message for the
// same turn.
type Update struct {
	TurnID string
	Text   string
	Chunks []Chunk
}

// Aggregator turns counter-tagged transcript deltas into fully reassembled
// per-turn text. It never fails: malformed deltas degrade to a full
// replacement of the turn's text.
type Aggregator struct {
	store *Store
}

func NewAggregator(store *Store) *Aggregator {
	if store == nil {
		store = NewStore()
	}
	return &Aggregator{store: store}
}

// OnDelta absorbs one transcript delta. The counter may arrive as a JSON
// number or a numeric string; when the turn id is empty or the counter is
// not numeric, the delta is treated as a full replacement: any buffered
// chunks for the turn are dropped and the content stands alone as the
// turn's text.
func (a *Aggregator) OnDelta(turnID string, counter any, content string) Update {
	n, ok := parseCounter(counter)
	if turnID == "" || !ok {
		if turnID != "" {
			a.store.ClearTurn(turnID)
		}
		// Chunks is empty but non-nil so a ledger replace drops any chunk
		// sequence a prior aggregated message carried.
		return Update{TurnID: turnID, Text: content, Chunks: []Chunk{}}
	}

	a.store.Record(turnID, n, content)
	chunks := a.store.Reassemble(turnID)
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return Update{TurnID: turnID, Text: b.String(), Chunks: chunks}
}

// OnTurnEnd discards the turn's buffered chunks. The last emitted Update
// remains the turn's final transcript; a later delta with the same turn id
// starts a fresh aggregation.
func (a *Aggregator) OnTurnEnd(turnID string) {
	a.store.ClearTurn(turnID)
}

// parseCounter coerces the loosely-typed counter values seen on the wire.
// Fractional floats truncate toward zero; anything non-numeric fails.
func parseCounter(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}
