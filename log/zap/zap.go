package zap

import (
	"sort"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/b2session"
)

var _ b2session.Logger = Logger{}

type Logger struct{ L *zap.Logger }

func (z Logger) Debug(msg string, f b2session.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f b2session.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f b2session.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f b2session.Fields) { z.L.Error(msg, zf(f)...) }

// zf converts fields in key order so output is stable.
func zf(f b2session.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
