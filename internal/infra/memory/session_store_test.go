package memory

import (
	"testing"

	"flagquiz/internal/app"
	"flagquiz/internal/catalog"
)

func TestSessionStoreLifecycle(t *testing.T) {
	cat, err := catalog.New(catalog.Builtin())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store := NewSessionStore()

	store.Add(app.NewSession("s-1", cat))
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	store.Delete("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
