package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func entry(msg string) Entry {
	return Entry{Role: RoleUser, Message: msg, Timestamp: time.Now()}
}

func TestStoreAppendAndEntries(t *testing.T) {
	store := NewStore(10)

	store.Append("u1", entry("first"))
	store.Append("u1", entry("second"))
	store.Append("u2", entry("other user"))

	entries := store.Entries("u1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Error("entries should be returned oldest first")
	}

	if got := len(store.Entries("u2")); got != 1 {
		t.Errorf("histories should be isolated per user, got %d entries", got)
	}
}

func TestStoreEviction(t *testing.T) {
	store := NewStore(50)

	for i := 0; i < 55; i++ {
		store.Append("u1", entry(fmt.Sprintf("message %d", i)))
	}

	entries := store.Entries("u1")
	if len(entries) != 50 {
		t.Fatalf("expected history capped at 50, got %d", len(entries))
	}
	if entries[0].Message != "message 5" {
		t.Errorf("oldest entries should be evicted first, got %q at head", entries[0].Message)
	}
	if entries[49].Message != "message 54" {
		t.Errorf("newest entry should be retained, got %q at tail", entries[49].Message)
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(10)
	store.Append("u1", entry("hello"))
	store.Append("u2", entry("kept"))

	store.Clear("u1")

	if got := len(store.Entries("u1")); got != 0 {
		t.Errorf("expected cleared history, got %d entries", got)
	}
	if got := len(store.Entries("u2")); got != 1 {
		t.Errorf("clearing one user should not touch another, got %d entries", got)
	}
}

func TestStoreDefaultCapacity(t *testing.T) {
	store := NewStore(0)
	if store.capacity != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, store.capacity)
	}
}

func TestStoreEntriesReturnsCopy(t *testing.T) {
	store := NewStore(10)
	store.Append("u1", entry("original"))

	entries := store.Entries("u1")
	entries[0].Message = "mutated"

	if store.Entries("u1")[0].Message != "original" {
		t.Error("mutating a returned slice should not affect the store")
	}
}

func TestStoreConcurrentAppend(t *testing.T) {
	store := NewStore(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Append("u1", entry(fmt.Sprintf("g%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	if got := len(store.Entries("u1")); got != 100 {
		t.Errorf("expected 100 entries after concurrent appends, got %d", got)
	}
}
