// Package bigcache is an in-process backend for single-process deployments
// and tests. State is not shared across processes.
package bigcache

import (
	"context"
	"errors"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/b2session/backend"
	"github.com/unkn0wn-root/b2session/internal/wire"
)

type Backend struct {
	mu sync.RWMutex // serializes multi-key operations
	c  *bc.BigCache
}

var _ backend.Backend = (*Backend)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => effectively never expire
	Shards             int           // power of two; 0 => 16
	MaxEntriesInWindow int           // initial sizing hint; 0 => 1024
	MaxEntrySize       int           // initial sizing hint in bytes; 0 => 256
	HardMaxCacheSizeMB int           // 0 = unlimited. When set, old entries may be evicted.
}

const neverExpire = 100 * 365 * 24 * time.Hour

func New(cfg Config) (*Backend, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = neverExpire
	}
	conf := bc.DefaultConfig(life)
	conf.CleanWindow = 0 // no background sweeper
	conf.Shards = 16
	conf.MaxEntriesInWindow = 1024
	conf.MaxEntrySize = 256
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Backend{c: c}, nil
}

// load returns the raw entry; (nil, nil) on miss. Caller holds mu.
func (b *Backend) load(key string) ([]byte, error) {
	raw, err := b.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, nil
	}
	return raw, err
}

func (b *Backend) loadHash(key string) (map[string]string, error) {
	raw, err := b.load(key)
	if err != nil || raw == nil {
		return nil, err
	}
	return wire.DecodeHash(raw)
}

func (b *Backend) storeHash(key string, fields map[string]string) error {
	if len(fields) == 0 {
		// match Redis: a hash with no fields does not exist
		return b.del(key)
	}
	enc, err := wire.EncodeHash(fields)
	if err != nil {
		return err
	}
	return b.c.Set(key, enc)
}

func (b *Backend) del(key string) error {
	if err := b.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	raw, err := b.load(key)
	if err != nil || raw == nil {
		return "", false, err
	}
	s, err := wire.DecodeString(raw)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (b *Backend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.c.Set(key, wire.EncodeString(value))
}

func (b *Backend) MSet(_ context.Context, values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	// remember previous entries so a failed Set can be rolled back
	prev := make(map[string][]byte, len(values))
	for k := range values {
		raw, err := b.load(k)
		if err != nil {
			return err
		}
		prev[k] = raw
	}
	for k, v := range values {
		if err := b.c.Set(k, wire.EncodeString(v)); err != nil {
			b.restore(prev)
			return err
		}
	}
	return nil
}

func (b *Backend) restore(prev map[string][]byte) {
	for k, raw := range prev {
		if raw == nil {
			_ = b.del(k)
			continue
		}
		_ = b.c.Set(k, raw)
	}
}

func (b *Backend) Del(_ context.Context, keys ...string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int64
	for _, k := range keys {
		err := b.c.Delete(k)
		switch {
		case err == nil:
			n++
		case errors.Is(err, bc.ErrEntryNotFound):
		default:
			return n, err
		}
	}
	return n, nil
}

func (b *Backend) HGet(_ context.Context, key, field string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, err := b.loadHash(key)
	if err != nil {
		return "", false, err
	}
	v, ok := h[field]
	return v, ok, nil
}

func (b *Backend) HSet(_ context.Context, key, field, value string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, err := b.loadHash(key)
	if err != nil {
		return false, err
	}
	if h == nil {
		h = make(map[string]string, 1)
	}
	_, existed := h[field]
	h[field] = value
	if err := b.storeHash(key, h); err != nil {
		return false, err
	}
	return !existed, nil
}

func (b *Backend) HDel(_ context.Context, key, field string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, err := b.loadHash(key)
	if err != nil {
		return false, err
	}
	if _, ok := h[field]; !ok {
		return false, nil
	}
	delete(h, field)
	if err := b.storeHash(key, h); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) HGetAll(_ context.Context, key string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, err := b.loadHash(key)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return map[string]string{}, nil
	}
	return h, nil
}

// ReplaceHash runs under the write lock, so readers never see the table deleted
// but not yet repopulated.
func (b *Backend) ReplaceHash(_ context.Context, key string, fields map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make(map[string]string, len(fields))
	for f, v := range fields {
		cp[f] = v
	}
	return b.storeHash(key, cp)
}

func (b *Backend) Close(_ context.Context) error {
	return b.c.Close()
}
