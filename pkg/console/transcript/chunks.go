// Package transcript reassembles streamed transcript fragments into
// per-turn text. A turn is one user utterance; its fragments arrive as
// counter-tagged deltas that may be out of order, duplicated, or sparse.
package transcript

import "sort"

// Chunk is one transcript fragment within a turn.
type Chunk struct {
	Counter int64  `json:"counter"`
	Text    string `json:"text"`
}

// Store maps turn id -> counter -> text. Turns are independent; within a
// turn a later write to the same counter wins.
type Store struct {
	turns map[string]map[int64]string
}

func NewStore() *Store {
	return &Store{turns: make(map[string]map[int64]string)}
}

// Record inserts or overwrites the chunk at counter within the turn,
// creating the turn's sub-map on first use.
func (s *Store) Record(turn string, counter int64, text string) {
	m, ok := s.turns[turn]
	if !ok {
		m = make(map[int64]string)
		s.turns[turn] = m
	}
	m[counter] = text
}

// ClearTurn discards all chunks for the turn. No-op when the turn is
// unknown.
func (s *Store) ClearTurn(turn string) {
	delete(s.turns, turn)
}

// Reassemble returns the turn's chunks in ascending counter order. Unknown
// turns yield an empty slice.
func (s *Store) Reassemble(turn string) []Chunk {
	m := s.turns[turn]
	if len(m) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, len(m))
	for counter, text := range m {
		chunks = append(chunks, Chunk{Counter: counter, Text: text})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Counter < chunks[j].Counter })
	return chunks
}

// Reset discards all turns.
func (s *Store) Reset() {
	s.turns = make(map[string]map[int64]string)
}
