package b2session

import (
	"context"

	"github.com/unkn0wn-root/b2session/backend"
	"github.com/unkn0wn-root/b2session/codec"
)

// AccountInfo is what a storage client needs to persist and read back its
// authorization. Every getter except Allowed fails with ErrMissingData when
// no session is stored.
type AccountInfo interface {
	AccountID(ctx context.Context) (string, error)
	ApplicationKeyID(ctx context.Context) (string, error)
	ApplicationKey(ctx context.Context) (string, error)
	AuthToken(ctx context.Context) (string, error)
	APIURL(ctx context.Context) (string, error)
	DownloadURL(ctx context.Context) (string, error)
	MinimumPartSize(ctx context.Context) (int64, error)
	Realm(ctx context.Context) (string, error)
	Allowed(ctx context.Context) (Allowed, error)

	SetSession(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// BucketCache maps bucket names to ids. A miss means "not cached", not
// "does not exist": callers resolve the name upstream and Put the result.
type BucketCache interface {
	ReplaceBucketCache(ctx context.Context, buckets []Bucket) error
	PutBucket(ctx context.Context, name, id string) (created bool, err error)
	RemoveBucket(ctx context.Context, name string) (removed bool, err error)
	LookupBucketID(ctx context.Context, name string) (id string, ok bool, err error)
}

// SessionStore is the full capability set a client substitutes for its
// built-in account info and bucket cache.
type SessionStore interface {
	AccountInfo
	BucketCache
}

var _ SessionStore = (*Store)(nil)

// Options configure a Store. Only Backend is required.
type Options struct {
	// Required
	Backend backend.Backend // shared; Store never closes it

	Prefix       string               // "" => DefaultPrefix. Fixed for the Store's lifetime.
	AllowedCodec codec.Codec[Allowed] // nil => codec.JSON[Allowed]
	Logger       Logger               // nil => NopLogger
	Hooks        Hooks                // nil => NopHooks
}

func New(opts Options) (*Store, error) {
	return newStore(opts)
}
