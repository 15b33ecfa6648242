package sloghook

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/b2session"
)

func newBufLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeys(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{})
	h.MissingField(b2session.FieldAuthToken, "tenant-secret:auth-token")

	out := buf.String()
	if !strings.Contains(out, "b2session.missing_field") || !strings.Contains(out, "field=auth-token") {
		t.Fatalf("unexpected output: %s", out)
	}
	if strings.Contains(out, "tenant-secret") {
		t.Fatalf("raw key leaked: %s", out)
	}
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{Redact: func(string) string { return "REDACTED" }})
	h.InvalidFormat(b2session.FieldMinimumPartSize, "b2sdk:min-part-size", errors.New("bad"))
	if !strings.Contains(buf.String(), "key=REDACTED") {
		t.Fatalf("custom redactor ignored: %s", buf.String())
	}
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newBufLogger(&buf), Options{DefaultedEvery: 3})
	for i := 0; i < 9; i++ {
		h.AllowedDefaulted("b2sdk:allowed")
	}
	if n := strings.Count(buf.String(), "b2session.allowed_defaulted"); n != 3 {
		t.Fatalf("logged %d times, want 3", n)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.MissingField(b2session.FieldRealm, "k")
	h.AllowedDefaulted("k")
	h.InvalidFormat(b2session.FieldRealm, "k", nil)
	h.BackendError("get", errors.New("x"))
	h.BucketCacheReplaced("p", 1)
	h.SessionCleared("p", 1)
}
