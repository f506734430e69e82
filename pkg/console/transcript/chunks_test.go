package transcript

import "testing"

func TestStoreReassembleSortsByCounter(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Record("t1", 2, "c")
	s.Record("t1", 0, "a")
	s.Record("t1", 1, "b")

	chunks := s.Reassemble("t1")
	if len(chunks) != 3 {
		t.Fatalf("chunks=%d", len(chunks))
	}
	var text string
	for _, c := range chunks {
		text += c.Text
	}
	if text != "abc" {
		t.Fatalf("reassembled=%q", text)
	}
	if chunks[0].Counter != 0 || chunks[2].Counter != 2 {
		t.Fatalf("counter order=%v", chunks)
	}
}

func TestStoreLastWriteWinsPerCounter(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Record("t1", 0, "old")
	s.Record("t1", 0, "new")

	chunks := s.Reassemble("t1")
	if len(chunks) != 1 {
		t.Fatalf("chunks=%d", len(chunks))
	}
	if chunks[0].Text != "new" {
		t.Fatalf("text=%q", chunks[0].Text)
	}
}

func TestStoreTurnsAreIndependent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Record("t1", 0, "one")
	s.Record("t2", 0, "two")
	s.ClearTurn("t1")

	if got := s.Reassemble("t1"); len(got) != 0 {
		t.Fatalf("t1 not cleared: %v", got)
	}
	if got := s.Reassemble("t2"); len(got) != 1 || got[0].Text != "two" {
		t.Fatalf("t2 affected: %v", got)
	}
}

func TestStoreClearTurnIdempotent(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.ClearTurn("missing")
	s.ClearTurn("missing")
	if got := s.Reassemble("missing"); got != nil {
		t.Fatalf("unknown turn=%v", got)
	}
}

func TestStoreReset(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Record("t1", 0, "a")
	s.Record("t2", 0, "b")
	s.Reset()
	if s.Reassemble("t1") != nil || s.Reassemble("t2") != nil {
		t.Fatal("reset left chunks behind")
	}
}
