// Package backend defines the key-value store abstraction used by b2session.
//
// Implementations MUST be value-transparent: Get must return exactly the string
// previously passed to Set/MSet for a key, and HGet exactly the string passed to
// HSet/ReplaceHash for a field. No prefixing, transcoding or metadata.
//
// Important: b2session owns every key under its configured prefix. External code
// sharing the same backend MUST use a different prefix.
package backend

import "context"

// Backend is the minimal capability set b2session needs from a shared key-value
// store. Must be safe for concurrent use.
//
// Misses are not errors: lookups report them with ok=false. Any non-nil error
// means the backend could not serve the request (transport, timeout, server).
type Backend interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a single string value without expiry.
	Set(ctx context.Context, key, value string) error

	// MSet stores all values in one atomic operation. Either every key is
	// written or none is.
	MSet(ctx context.Context, values map[string]string) error

	// Del removes keys in one request and returns how many existed.
	// Deleting missing keys is not an error.
	Del(ctx context.Context, keys ...string) (int64, error)

	// HGet reads one field of a hash. ("", false, nil) when the hash or field is missing.
	HGet(ctx context.Context, key, field string) (string, bool, error)

	// HSet writes one field and reports whether the field was newly created.
	HSet(ctx context.Context, key, field, value string) (created bool, err error)

	// HDel removes one field and reports whether it existed.
	HDel(ctx context.Context, key, field string) (removed bool, err error)

	// HGetAll returns all fields of a hash; an empty map when it does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// ReplaceHash deletes the hash and writes fields in the same atomic unit.
	// With no fields the hash is only deleted.
	ReplaceHash(ctx context.Context, key string, fields map[string]string) error

	// Close releases resources the backend owns. Shared clients are left open.
	Close(ctx context.Context) error
}
