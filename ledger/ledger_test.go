package ledger

import (
	"sync"
	"testing"

	"termchess-local/testutil"
	"termchess-local/types"
)

func TestAppendAssignsOrdinals(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		rec := l.Append(MoveRecord{Ordinal: 99, Notation: "♘b1-c3"})
		testutil.AssertEqual(t, rec.Ordinal, i+1)
	}
	for i, rec := range l.All() {
		testutil.AssertEqual(t, rec.Ordinal, i+1, "record %d", i)
	}
	testutil.AssertEqual(t, l.Len(), 5)
}

func TestLast(t *testing.T) {
	l := New()
	_, ok := l.Last()
	testutil.AssertFalse(t, ok, "empty ledger has no last record")

	l.Append(MoveRecord{Player: types.White, Notation: "♙e2-e4"})
	l.Append(MoveRecord{Player: types.Black, Notation: "♟e7-e5", ElapsedSeconds: 3})

	last, ok := l.Last()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, last, MoveRecord{Ordinal: 2, Player: types.Black, Notation: "♟e7-e5", ElapsedSeconds: 3})
}

func TestAllReturnsCopy(t *testing.T) {
	l := New()
	l.Append(MoveRecord{Notation: "♙e2-e4"})
	all := l.All()
	all[0].Notation = "changed"
	testutil.AssertEqual(t, l.All()[0].Notation, "♙e2-e4")
}

func TestConcurrentAppend(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(MoveRecord{})
			_ = l.All()
		}()
	}
	wg.Wait()
	testutil.AssertEqual(t, l.Len(), 50)
	for i, rec := range l.All() {
		testutil.AssertEqual(t, rec.Ordinal, i+1)
	}
}
