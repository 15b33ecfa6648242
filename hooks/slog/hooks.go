package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/b2session"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	MissingEvery   uint64
	DefaultedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missingCtr   atomic.Uint64
	defaultedCtr atomic.Uint64
}

var _ b2session.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) MissingField(field b2session.Field, key string) {
	if h.l == nil || !sample(h.opts.MissingEvery, &h.missingCtr) {
		return
	}
	h.l.Debug("b2session.missing_field",
		"field", string(field),
		"key", h.redact(key))
}

func (h *Hooks) AllowedDefaulted(key string) {
	if h.l == nil || !sample(h.opts.DefaultedEvery, &h.defaultedCtr) {
		return
	}
	h.l.Debug("b2session.allowed_defaulted",
		"key", h.redact(key))
}

func (h *Hooks) InvalidFormat(field b2session.Field, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("b2session.invalid_format",
		"field", string(field),
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) BackendError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("b2session.backend_error",
		"op", op,
		"err", err)
}

func (h *Hooks) BucketCacheReplaced(prefix string, entries int) {
	if h.l == nil {
		return
	}
	h.l.Info("b2session.bucket_cache_replaced",
		"prefix", prefix,
		"entries", entries)
}

func (h *Hooks) SessionCleared(prefix string, keys int) {
	if h.l == nil {
		return
	}
	h.l.Info("b2session.session_cleared",
		"prefix", prefix,
		"keys", keys)
}
