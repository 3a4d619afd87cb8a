package goroutine

import "testing"

func TestIDNonZeroAndStable(t *testing.T) {
	first := ID()
	if first == 0 {
		t.Fatal("ID() = 0, want a real goroutine id")
	}
	if second := ID(); second != first {
		t.Errorf("ID() changed within one goroutine: %d then %d", first, second)
	}
}

func TestIDDiffersAcrossGoroutines(t *testing.T) {
	mine := ID()
	theirs := make(chan uint64)
	go func() { theirs <- ID() }()
	if other := <-theirs; other == mine {
		t.Errorf("two goroutines reported the same id %d", mine)
	}
}
