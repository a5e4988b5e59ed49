package sigcache

import (
	"context"
	"path/filepath"
	"testing"
)

func TestHashOrderIndependent(t *testing.T) {
	a := Hash([]string{"number", "string"})
	b := Hash([]string{"string", "number"})
	if a != b {
		t.Errorf("Hash should be order-independent, got %q vs %q", a, b)
	}
}

func TestRecordAndSeen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	sigs := []string{"number", "string"}

	seen, err := store.Seen(ctx, "calc", sigs)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Fatalf("expected not-seen before Record")
	}

	if err := store.Record(ctx, "calc", sigs); err != nil {
		t.Fatalf("Record: %v", err)
	}

	seen, err = store.Seen(ctx, "calc", sigs)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if !seen {
		t.Errorf("expected seen after Record")
	}
}

func TestHistoryReturnsRecordedSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Record(ctx, "calc", []string{"number"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	hist, err := store.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Signature != "number" {
		t.Errorf("History = %+v", hist)
	}
}
