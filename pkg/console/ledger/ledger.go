// Package ledger holds the ordered conversational transcript for one
// console session: an append-only message list with in-place upsert keyed
// by (turn, role).
package ledger

import "github.com/vango-go/vai-console-lite/pkg/console/transcript"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the transcript. User messages produced by the
// aggregator carry the turn's chunk sequence; Text equals the chunks'
// concatenation in counter order.
type Message struct {
	Role   Role               `json:"role"`
	Text   string             `json:"text"`
	TurnID string             `json:"turn_id,omitempty"`
	Chunks []transcript.Chunk `json:"chunks,omitempty"`
}

// MergeMode selects how Upsert folds a new message into an existing entry
// with the same (turn, role) key.
type MergeMode int

const (
	// MergeReplace overwrites the existing text. Used for user transcript
	// deltas: the aggregator already computed the full reassembled string,
	// so appending would duplicate content.
	MergeReplace MergeMode = iota
	// MergeAccumulate concatenates onto the existing text. Used for
	// assistant text events, which stream incrementally.
	MergeAccumulate
)

// Ledger is an ordered message sequence. Not safe for concurrent use; the
// owning controller serializes access.
type Ledger struct {
	messages []Message
}

func New() *Ledger {
	return &Ledger{}
}

// Append adds the message at the end.
func (l *Ledger) Append(msg Message) {
	l.messages = append(l.messages, msg)
}

// Upsert folds msg into the ledger. Messages without a turn id always
// append. Otherwise the most recent entry matching (TurnID, Role) is
// updated in place, preserving its position; with no match the message
// appends.
func (l *Ledger) Upsert(msg Message, mode MergeMode) {
	if msg.TurnID == "" {
		l.Append(msg)
		return
	}
	for i := len(l.messages) - 1; i >= 0; i-- {
		existing := &l.messages[i]
		if existing.TurnID != msg.TurnID || existing.Role != msg.Role {
			continue
		}
		switch mode {
		case MergeAccumulate:
			existing.Text += msg.Text
		default:
			existing.Text = msg.Text
		}
		if msg.Chunks != nil {
			existing.Chunks = msg.Chunks
		}
		return
	}
	l.Append(msg)
}

// Messages returns a copy of the transcript in order.
func (l *Ledger) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Ledger) Len() int {
	return len(l.messages)
}

// Reset discards all messages.
func (l *Ledger) Reset() {
	l.messages = nil
}
