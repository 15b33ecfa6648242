package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/b2session"
)

func TestLoggerEmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Logger{L: zap.New(core)}

	l.Debug("bucket cached", b2session.Fields{"bucket": "pics", "created": true})
	l.Error("backend error", b2session.Fields{"err": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["bucket"] != "pics" || ctx["created"] != true {
		t.Fatalf("context=%v", ctx)
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err"] != "boom" {
		t.Fatalf("error entry=%+v ctx=%v", entries[1].Entry, entries[1].ContextMap())
	}
}

func TestNoFields(t *testing.T) {
	if zf(nil) != nil {
		t.Fatalf("expected nil fields")
	}
}
