package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/b2session"
)

var _ b2session.Logger = Logger{}

// Logger adapts a logrus entry. Fields are attached with WithFields.
type Logger struct{ E *logrus.Entry }

// New wraps l with a component=b2session field.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "b2session")}
}

func (l Logger) Debug(msg string, f b2session.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f b2session.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f b2session.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f b2session.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
