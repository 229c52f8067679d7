package session

import (
	"errors"
	"sync"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	sess := New()
	store.Put(sess)

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("expected session %s, got %s", sess.ID, got.ID)
	}
}

func TestMemoryStoreUnknownID(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()

	sess := New()
	store.Put(sess)
	store.Delete(sess.ID)

	if _, err := store.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	store := NewMemoryStore()

	sess := New()
	sess.ImageWidth = 100
	store.Put(sess)

	replacement := &Session{ID: sess.ID, ImageWidth: 200}
	store.Put(replacement)

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ImageWidth != 200 {
		t.Errorf("expected replacement to win, got width %d", got.ImageWidth)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := New()
			store.Put(sess)
			if _, err := store.Get(sess.ID); err != nil {
				t.Errorf("Get after Put failed: %v", err)
			}
			store.Delete(sess.ID)
		}()
	}
	wg.Wait()
}

func TestNewIDUnique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected distinct session IDs")
	}
}
