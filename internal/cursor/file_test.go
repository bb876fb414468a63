package cursor

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

func TestFileStoreDisabledWhenPathEmpty(t *testing.T) {
	s := NewFileStore("")
	if s.Enabled() {
		t.Fatal("expected empty-path store to be disabled")
	}
	if err := s.Persist([]chain.Point{{Slot: 1}}); err != nil {
		t.Fatalf("Persist on disabled store should be a no-op: %v", err)
	}
	points, err := s.InitialLoad()
	if err != nil || points != nil {
		t.Fatalf("InitialLoad on disabled store = %v, %v, want nil, nil", points, err)
	}
}

func TestFileStoreMissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "does-not-exist.ndjson"))
	points, err := s.InitialLoad()
	if err != nil {
		t.Fatalf("InitialLoad on missing file: %v", err)
	}
	if points != nil {
		t.Fatalf("points = %+v, want nil", points)
	}
}

func TestFileStorePersistAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cursor.ndjson")
	s := NewFileStore(path)

	want := []chain.Point{
		{Slot: 300, Hash: common.HexToHash("0xabc")},
		{Slot: 200, Hash: common.HexToHash("0xdef")},
		{Slot: 100, Hash: common.HexToHash("0x123")},
	}
	if err := s.Persist(want); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := NewFileStore(path)
	got, err := reloaded.InitialLoad()
	if err != nil {
		t.Fatalf("InitialLoad: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Slot != want[i].Slot || got[i].Hash != want[i].Hash {
			t.Errorf("point[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
