package storage

import "testing"

func TestNewStoreDefaultsToMemory(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	store, err = NewStore("memory", "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	if _, err := NewStore("etcd", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestCloseIfSupportedIgnoresPlainStores(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Fatalf("close: %v", err)
	}
}
