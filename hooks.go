package b2session

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run inline with
// Store calls. Hooks only observe: errors are still returned to the caller.
type Hooks interface {
	// A session field getter found no value.
	MissingField(field Field, key string)

	// Allowed() found no stored descriptor and returned DefaultAllowed.
	AllowedDefaulted(key string)

	// A stored value failed to parse.
	InvalidFormat(field Field, key string, err error)

	// The backend failed. op ∈ {"get", "mset", "del", "hget", "hset", "hdel", "hgetall", "replace"}
	BackendError(op string, err error)

	// The bucket cache under prefix was replaced by a table of entries buckets.
	BucketCacheReplaced(prefix string, entries int)

	// Clear deleted the given number of keys under prefix.
	SessionCleared(prefix string, keys int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) MissingField(Field, string)         {}
func (NopHooks) AllowedDefaulted(string)            {}
func (NopHooks) InvalidFormat(Field, string, error) {}
func (NopHooks) BackendError(string, error)         {}
func (NopHooks) BucketCacheReplaced(string, int)    {}
func (NopHooks) SessionCleared(string, int)         {}
