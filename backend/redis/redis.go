package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/b2session/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ backend.Backend = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this backend exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Dial creates a client from opts (passed through untouched) and owns it:
// Close will close the client.
func Dial(opts *goredis.Options) *Redis {
	return &Redis{rdb: goredis.NewClient(opts), closeClient: true}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := r.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return s, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

// MSet relies on MSET being atomic on a single node.
// On a cluster client all keys must hash to the same slot; use a hash tag in the prefix.
func (r *Redis) MSet(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	return r.rdb.MSet(ctx, args...).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return r.rdb.Del(ctx, keys...).Result()
}

func (r *Redis) HGet(ctx context.Context, key, field string) (string, bool, error) {
	s, err := r.rdb.HGet(ctx, key, field).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (r *Redis) HSet(ctx context.Context, key, field, value string) (bool, error) {
	n, err := r.rdb.HSet(ctx, key, field, value).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Redis) HDel(ctx context.Context, key, field string) (bool, error) {
	n, err := r.rdb.HDel(ctx, key, field).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Redis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.rdb.HGetAll(ctx, key).Result()
}

// ReplaceHash wraps DEL + HSET in MULTI/EXEC so readers see either the old
// table or the new one. HSET is skipped for an empty map (Redis rejects it).
func (r *Redis) ReplaceHash(ctx context.Context, key string, fields map[string]string) error {
	args := make([]any, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, key)
		if len(args) > 0 {
			p.HSet(ctx, key, args...)
		}
		return nil
	})
	return err
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
