package b2session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/unkn0wn-root/b2session/backend"
	"github.com/unkn0wn-root/b2session/codec"
)

// Store keeps session fields and the bucket cache under one prefix of a
// shared backend. It holds no mutable state of its own and is safe for
// concurrent use; instances in different processes sharing a prefix see
// each other's writes.
type Store struct {
	be      backend.Backend
	keys    Keyspace
	allowed codec.Codec[Allowed]
	log     Logger
	hooks   Hooks
}

func newStore(opts Options) (*Store, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("b2session: backend is required")
	}
	ks, err := NewKeyspace(opts.Prefix)
	if err != nil {
		return nil, err
	}

	s := &Store{
		be:   opts.Backend,
		keys: ks,
	}

	// defaults
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.AllowedCodec != nil {
		s.allowed = opts.AllowedCodec
	} else {
		s.allowed = codec.JSON[Allowed]{}
	}
	return s, nil
}

func (s *Store) Prefix() string     { return s.keys.Prefix() }
func (s *Store) Keyspace() Keyspace { return s.keys }

// ==============================
// Session
// ==============================

// SetSession writes every session field in one MSET. A nil Allowed is stored
// as an empty value so a descriptor left by an earlier session cannot survive.
func (s *Store) SetSession(ctx context.Context, sess Session) error {
	if sess.MinimumPartSize < 0 {
		return &ValidationError{Op: "SetSession", Reason: fmt.Sprintf("negative minimum part size %d", sess.MinimumPartSize)}
	}
	allowed := ""
	if sess.Allowed != nil {
		b, err := s.allowed.Encode(*sess.Allowed)
		if err != nil {
			return fmt.Errorf("b2session: encode allowed: %w", err)
		}
		allowed = string(b)
	}

	k := s.keys
	values := map[string]string{
		k.Key(FieldAccountID):        sess.AccountID,
		k.Key(FieldApplicationKeyID): sess.ApplicationKeyID,
		k.Key(FieldApplicationKey):   sess.ApplicationKey,
		k.Key(FieldAuthToken):        sess.AuthToken,
		k.Key(FieldAPIURL):           sess.APIURL,
		k.Key(FieldDownloadURL):      sess.DownloadURL,
		k.Key(FieldMinimumPartSize):  strconv.FormatInt(sess.MinimumPartSize, 10),
		k.Key(FieldRealm):            sess.Realm,
		k.Key(FieldAllowed):          allowed,
	}
	if err := s.be.MSet(ctx, values); err != nil {
		return s.backendErr("mset", err)
	}
	s.log.Debug("session stored", Fields{"prefix": s.Prefix(), "accountId": sess.AccountID, "realm": sess.Realm})
	return nil
}

// Get reads one session field. Missing values fail with *MissingDataError
// naming the field.
func (s *Store) Get(ctx context.Context, f Field) (string, error) {
	if !isSessionField(f) {
		return "", &ValidationError{Op: "Get", Reason: fmt.Sprintf("%q is not a session field", string(f))}
	}
	return s.getField(ctx, f)
}

func (s *Store) getField(ctx context.Context, f Field) (string, error) {
	key := s.keys.Key(f)
	v, ok, err := s.be.Get(ctx, key)
	if err != nil {
		return "", s.backendErr("get", err)
	}
	if !ok {
		s.hooks.MissingField(f, key)
		return "", &MissingDataError{Field: f, Key: key}
	}
	return v, nil
}

func (s *Store) AccountID(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldAccountID)
}

func (s *Store) ApplicationKeyID(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldApplicationKeyID)
}

func (s *Store) ApplicationKey(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldApplicationKey)
}

func (s *Store) AuthToken(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldAuthToken)
}

func (s *Store) APIURL(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldAPIURL)
}

func (s *Store) DownloadURL(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldDownloadURL)
}

func (s *Store) Realm(ctx context.Context) (string, error) {
	return s.getField(ctx, FieldRealm)
}

func (s *Store) MinimumPartSize(ctx context.Context) (int64, error) {
	v, err := s.getField(ctx, FieldMinimumPartSize)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, s.invalid(FieldMinimumPartSize, v, err)
	}
	if n < 0 {
		return 0, s.invalid(FieldMinimumPartSize, v, nil)
	}
	return n, nil
}

// Allowed returns the stored descriptor, or DefaultAllowed when none is stored.
// Unlike the other getters a missing value is not an error: some writers never
// store a descriptor, and some store a JSON null in its place.
func (s *Store) Allowed(ctx context.Context) (Allowed, error) {
	key := s.keys.Key(FieldAllowed)
	v, ok, err := s.be.Get(ctx, key)
	if err != nil {
		return Allowed{}, s.backendErr("get", err)
	}
	if !ok || allowedUnset(v) {
		s.hooks.AllowedDefaulted(key)
		return DefaultAllowed(), nil
	}
	a, err := s.allowed.Decode([]byte(v))
	if err != nil {
		return Allowed{}, s.invalid(FieldAllowed, v, err)
	}
	return a, nil
}

func allowedUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "null"
}

// AllowedBucketName returns the bucket the auth token is restricted to, if any.
func (s *Store) AllowedBucketName(ctx context.Context) (string, bool, error) {
	a, err := s.Allowed(ctx)
	if err != nil {
		return "", false, err
	}
	if a.BucketName == nil {
		return "", false, nil
	}
	return *a.BucketName, true, nil
}

// Clear deletes every key this Store may have written, in one DEL.
// Keys under other prefixes are untouched. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	n, err := s.be.Del(ctx, s.keys.AllKeys()...)
	if err != nil {
		return s.backendErr("del", err)
	}
	s.hooks.SessionCleared(s.Prefix(), int(n))
	s.log.Debug("session cleared", Fields{"prefix": s.Prefix(), "deleted": n})
	return nil
}

// ==============================
// Bucket cache
// ==============================

// ReplaceBucketCache swaps the whole cache for buckets in one atomic unit.
// With no buckets the cache is deleted. Later duplicates of a name win.
func (s *Store) ReplaceBucketCache(ctx context.Context, buckets []Bucket) error {
	m := make(map[string]string, len(buckets))
	for _, b := range buckets {
		if b.Name == "" {
			return &ValidationError{Op: "ReplaceBucketCache", Reason: "empty bucket name"}
		}
		m[b.Name] = b.ID
	}
	if err := s.be.ReplaceHash(ctx, s.keys.BucketMapKey(), m); err != nil {
		return s.backendErr("replace", err)
	}
	s.hooks.BucketCacheReplaced(s.Prefix(), len(m))
	s.log.Debug("bucket cache replaced", Fields{"prefix": s.Prefix(), "entries": len(m)})
	return nil
}

// PutBucket caches name -> id. created is false when an entry for name
// already existed (its id is overwritten either way).
func (s *Store) PutBucket(ctx context.Context, name, id string) (bool, error) {
	if name == "" {
		return false, &ValidationError{Op: "PutBucket", Reason: "empty bucket name"}
	}
	created, err := s.be.HSet(ctx, s.keys.BucketMapKey(), name, id)
	if err != nil {
		return false, s.backendErr("hset", err)
	}
	s.log.Debug("bucket cached", Fields{"bucket": name, "id": id, "created": created})
	return created, nil
}

// SaveBucket is PutBucket for a Bucket value.
func (s *Store) SaveBucket(ctx context.Context, b Bucket) (bool, error) {
	return s.PutBucket(ctx, b.Name, b.ID)
}

// RemoveBucket drops name from the cache and reports whether it was there.
func (s *Store) RemoveBucket(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, &ValidationError{Op: "RemoveBucket", Reason: "empty bucket name"}
	}
	removed, err := s.be.HDel(ctx, s.keys.BucketMapKey(), name)
	if err != nil {
		return false, s.backendErr("hdel", err)
	}
	s.log.Debug("bucket evicted", Fields{"bucket": name, "removed": removed})
	return removed, nil
}

// LookupBucketID returns the cached id for name. ok=false means not cached.
func (s *Store) LookupBucketID(ctx context.Context, name string) (string, bool, error) {
	return s.LookupBucketIDBy(ctx, BucketQuery{Name: name})
}

// BucketQuery names a bucket through either of two equivalent parameters.
// Callers written against different conventions fill one or the other.
type BucketQuery struct {
	Name       string
	BucketName string
}

// resolve collapses the two spellings into one name. Empty means "not given".
func (q BucketQuery) resolve() (string, error) {
	switch {
	case q.Name != "" && q.BucketName != "" && q.Name != q.BucketName:
		return "", &ValidationError{
			Op:     "LookupBucketID",
			Reason: fmt.Sprintf("got name %q and bucket name %q; specify one or the other", q.Name, q.BucketName),
		}
	case q.Name != "":
		return q.Name, nil
	case q.BucketName != "":
		return q.BucketName, nil
	default:
		return "", &ValidationError{Op: "LookupBucketID", Reason: "no bucket name given"}
	}
}

// LookupBucketIDBy is LookupBucketID with alias reconciliation: both names
// given and different, or neither given, fail with ErrValidation before any
// backend call.
func (s *Store) LookupBucketIDBy(ctx context.Context, q BucketQuery) (string, bool, error) {
	name, err := q.resolve()
	if err != nil {
		return "", false, err
	}
	id, ok, err := s.be.HGet(ctx, s.keys.BucketMapKey(), name)
	if err != nil {
		return "", false, s.backendErr("hget", err)
	}
	return id, ok, nil
}

// BucketNameCache returns the whole cache as name -> id.
func (s *Store) BucketNameCache(ctx context.Context) (map[string]string, error) {
	m, err := s.be.HGetAll(ctx, s.keys.BucketMapKey())
	if err != nil {
		return nil, s.backendErr("hgetall", err)
	}
	return m, nil
}

func (s *Store) backendErr(op string, err error) error {
	s.hooks.BackendError(op, err)
	s.log.Warn("backend error", Fields{"op": op, "prefix": s.Prefix(), "err": err})
	return &BackendError{Op: op, Err: err}
}

func (s *Store) invalid(f Field, v string, err error) error {
	key := s.keys.Key(f)
	s.hooks.InvalidFormat(f, key, err)
	return &InvalidFormatError{Field: f, Key: key, Value: v, Err: err}
}
