package storage

import "testing"

func TestNewStoreKinds(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("kind %q: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("kind %q produced %T, want *MemoryStore", kind, store)
		}
	}

	if _, err := NewStore("etcd", ""); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestDefaultStoreKind(t *testing.T) {
	if kind := DefaultStoreKind(); kind != "memory" {
		t.Fatalf("default store kind = %q, want memory", kind)
	}
}

func TestCloseIfSupportedOnMemory(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Fatalf("close memory store: %v", err)
	}
}
