package experience

import (
	"testing"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
)

func TestStoreRecordAndLookup(t *testing.T) {
	var store, err = Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	var key uint64 = 0x0123456789abcdef
	var want = Record{Depth: 12, Score: -37, Move: chess.MakeMove(chess.SquareE2, chess.SquareE4, chess.Pawn, chess.Empty)}

	if err := store.Record(key, want); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, found, err := store.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !found {
		t.Fatal("Lookup did not find the recorded key")
	}
	if got != want {
		t.Fatalf("Lookup() = %+v, want %+v", got, want)
	}
}

func TestStoreLookupMissing(t *testing.T) {
	var store, err = Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, found, err := store.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found {
		t.Fatal("Lookup should not find an unrecorded key")
	}
}
