package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/b2session"
)

func TestLoggerAttachesFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Warn("backend error", b2session.Fields{"op": "mset", "prefix": "b2sdk:"})

	e := hook.LastEntry()
	if e == nil {
		t.Fatalf("no entry logged")
	}
	if e.Level != logrus.WarnLevel || e.Message != "backend error" {
		t.Fatalf("entry=%v %q", e.Level, e.Message)
	}
	if e.Data["op"] != "mset" || e.Data["component"] != "b2session" {
		t.Fatalf("data=%v", e.Data)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	New(base).Debug("session stored", nil)
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("debug entry logged at info level")
	}
}
