package bigcache

import (
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/b2session/internal/wire"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	return b
}

func TestStringOps(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	if _, ok, err := b.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get on empty: ok=%v err=%v", ok, err)
	}
	if err := b.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := b.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := b.MSet(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	n, err := b.Del(ctx, "a", "b", "missing")
	if err != nil {
		t.Fatalf("Del: %v", err)
	}
	if n != 2 {
		t.Fatalf("Del count=%d want 2", n)
	}
	if _, ok, _ := b.Get(ctx, "a"); ok {
		t.Fatalf("a should be deleted")
	}
}

func TestHashOps(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	created, err := b.HSet(ctx, "h", "a", "1")
	if err != nil || !created {
		t.Fatalf("HSet new: created=%v err=%v", created, err)
	}
	created, err = b.HSet(ctx, "h", "a", "2")
	if err != nil || created {
		t.Fatalf("HSet overwrite: created=%v err=%v", created, err)
	}
	if v, ok, err := b.HGet(ctx, "h", "a"); err != nil || !ok || v != "2" {
		t.Fatalf("HGet: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, err := b.HGet(ctx, "h", "zzz"); err != nil || ok {
		t.Fatalf("HGet missing field: ok=%v err=%v", ok, err)
	}

	removed, err := b.HDel(ctx, "h", "a")
	if err != nil || !removed {
		t.Fatalf("HDel: removed=%v err=%v", removed, err)
	}
	removed, err = b.HDel(ctx, "h", "a")
	if err != nil || removed {
		t.Fatalf("HDel again: removed=%v err=%v", removed, err)
	}
	// last field removed => hash gone
	if raw, _ := b.load("h"); raw != nil {
		t.Fatalf("empty hash should be deleted")
	}
}

func TestReplaceHash(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	if _, err := b.HSet(ctx, "h", "old", "x"); err != nil {
		t.Fatal(err)
	}
	in := map[string]string{"pics": "4_z27c", "docs": "4_z99x"}
	if err := b.ReplaceHash(ctx, "h", in); err != nil {
		t.Fatalf("ReplaceHash: %v", err)
	}
	in["mutated"] = "after" // backend must not alias caller's map

	all, err := b.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if len(all) != 2 || all["pics"] != "4_z27c" || all["docs"] != "4_z99x" {
		t.Fatalf("HGetAll=%v", all)
	}

	if err := b.ReplaceHash(ctx, "h", nil); err != nil {
		t.Fatalf("ReplaceHash(empty): %v", err)
	}
	all, err = b.HGetAll(ctx, "h")
	if err != nil || len(all) != 0 {
		t.Fatalf("after empty replace: %v err=%v", all, err)
	}
}

func TestWrongKind(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	if err := b.Set(ctx, "s", "v"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.HGet(ctx, "s", "f"); !errors.Is(err, wire.ErrWrongKind) {
		t.Fatalf("HGet on string key err=%v", err)
	}
	if _, err := b.HSet(ctx, "h", "f", "v"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Get(ctx, "h"); !errors.Is(err, wire.ErrWrongKind) {
		t.Fatalf("Get on hash key err=%v", err)
	}
}
