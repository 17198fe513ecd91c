package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestDefaultStoreKind(t *testing.T) {
	kind := DefaultStoreKind()
	if kind != "memory" && kind != "sqlite" {
		t.Fatalf("unexpected default store kind: %s", kind)
	}
	if _, err := NewStore(kind, t.TempDir()+"/default.db"); err != nil {
		t.Fatalf("default store kind must be constructible: %v", err)
	}
}
