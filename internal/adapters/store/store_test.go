package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

// storeUnderTest lets the same assertions run against every implementation.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "memory":
		return NewMemoryStore()
	case "sqlite":
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return s
	default:
		t.Fatalf("unknown store %q", name)
		return nil
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	for _, name := range []string{"memory", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := storeUnderTest(t, name)
			defer s.Close()

			// Missing key
			if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound, got %v", err)
			}

			// Set then get
			if err := s.Set(ctx, "faceoff:items", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := s.Get(ctx, "faceoff:items")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !bytes.Equal(got, []byte(`[{"id":"a"}]`)) {
				t.Errorf("unexpected value: %s", got)
			}

			// Overwrite
			if err := s.Set(ctx, "faceoff:items", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err = s.Get(ctx, "faceoff:items")
			if err != nil {
				t.Fatalf("get after overwrite: %v", err)
			}
			if !bytes.Equal(got, []byte(`[]`)) {
				t.Errorf("expected overwritten value, got %s", got)
			}

			// Delete
			if err := s.Delete(ctx, "faceoff:items"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, "faceoff:items"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
			}

			// Deleting an absent key is fine
			if err := s.Delete(ctx, "absent"); err != nil {
				t.Errorf("delete absent: %v", err)
			}
		})
	}
}

func TestStore_IndependentKeys(t *testing.T) {
	for _, name := range []string{"memory", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := storeUnderTest(t, name)
			defer s.Close()

			if err := s.Set(ctx, "faceoff:items", []byte("items")); err != nil {
				t.Fatalf("set items: %v", err)
			}
			if err := s.Set(ctx, "faceoff:pairs", []byte("pairs")); err != nil {
				t.Fatalf("set pairs: %v", err)
			}

			if err := s.Delete(ctx, "faceoff:items"); err != nil {
				t.Fatalf("delete: %v", err)
			}

			got, err := s.Get(ctx, "faceoff:pairs")
			if err != nil {
				t.Fatalf("get pairs: %v", err)
			}
			if string(got) != "pairs" {
				t.Errorf("expected pairs to survive, got %s", got)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "faceoff:tournament", []byte(`{"round":2}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "faceoff:tournament")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != `{"round":2}` {
		t.Errorf("state lost across reopen: %s", got)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte("original")
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("stored value shares memory with caller: %s", got)
	}

	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if string(again) != "original" {
		t.Errorf("returned value shares memory with store: %s", again)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	for _, name := range []string{"memory", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := storeUnderTest(t, name)
			defer s.Close()

			var wg sync.WaitGroup
			for g := 0; g < 4; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					key := []string{"faceoff:items", "faceoff:pairs", "faceoff:tournament", "faceoff:extra"}[g]
					for i := 0; i < 25; i++ {
						if err := s.Set(ctx, key, []byte{byte(i)}); err != nil {
							t.Errorf("set %s: %v", key, err)
							return
						}
						if _, err := s.Get(ctx, key); err != nil {
							t.Errorf("get %s: %v", key, err)
							return
						}
					}
				}(g)
			}
			wg.Wait()
		})
	}
}
