package session

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type viewerState struct {
	Generation uint64
	SheetID    string
}

func TestMemoryStore_GetPutDelete(t *testing.T) {
	store := NewMemoryStore[viewerState]()
	ctx := context.Background()

	if err := store.Put(ctx, "sid", viewerState{Generation: 1, SheetID: "42"}); err != nil {
		t.Fatalf("Unexpected error on Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Unexpected error on Get: %v", err)
	}
	if !ok || got.SheetID != "42" {
		t.Errorf("Expected stored sheet 42, got %+v (ok=%v)", got, ok)
	}

	if err := store.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Unexpected error on Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "sid"); ok {
		t.Error("Expected value to be gone after Delete")
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Expected Delete of missing id to succeed, got %v", err)
	}
}

func TestMemoryStore_UpdateCreatesZeroValue(t *testing.T) {
	store := NewMemoryStore[viewerState]()
	ctx := context.Background()

	err := store.Update(ctx, "sid", func(st *viewerState) error {
		if st.Generation != 0 {
			t.Errorf("Expected zero value, got %+v", st)
		}
		st.Generation++
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error on Update: %v", err)
	}
	got, ok, _ := store.Get(ctx, "sid")
	if !ok || got.Generation != 1 {
		t.Errorf("Expected generation 1, got %+v (ok=%v)", got, ok)
	}
}

func TestMemoryStore_UpdateErrorDiscards(t *testing.T) {
	store := NewMemoryStore[viewerState]()
	ctx := context.Background()
	_ = store.Put(ctx, "sid", viewerState{SheetID: "1"})

	boom := errors.New("boom")
	err := store.Update(ctx, "sid", func(st *viewerState) error {
		st.SheetID = "2"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	got, _, _ := store.Get(ctx, "sid")
	if got.SheetID != "1" {
		t.Errorf("Expected sheet 1 to survive failed update, got %q", got.SheetID)
	}
}

func TestMemoryStore_NewID(t *testing.T) {
	store := NewMemoryStore[int]()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.NewID()
		if ids[id] {
			t.Errorf("Duplicate ID generated: %s", id)
		}
		ids[id] = true
		if len(id) != 32 {
			t.Errorf("Expected ID length 32, got %d", len(id))
		}
	}
}

func TestMemoryStore_ConcurrentUpdate(t *testing.T) {
	store := NewMemoryStore[viewerState]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Update(ctx, "sid", func(st *viewerState) error {
				st.Generation++
				return nil
			}); err != nil {
				t.Errorf("Error in concurrent Update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _, _ := store.Get(ctx, "sid")
	if got.Generation != 50 {
		t.Errorf("Expected generation 50, got %d", got.Generation)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", store.Len())
	}
}
