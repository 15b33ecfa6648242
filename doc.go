// Package b2session keeps a cloud-storage client's session credentials and its
// bucket name -> bucket id cache in a shared key-value store (usually Redis),
// so several processes can reuse one authorization and one name cache instead
// of each re-authorizing and re-resolving names.
//
// Components:
//   - Keyspace: derives physical keys (prefix + logical name) and owns the closed
//     set of keys a Store may write, so Clear never touches foreign keys.
//   - Store: typed session accessors plus bucket-cache operations on top of a
//     backend.Backend. Implements AccountInfo and BucketCache.
//   - Backend: the key-value capability set (backend/redis, backend/bigcache).
//
// Keys (default prefix "b2sdk:"):
//
//	<prefix>account-id, <prefix>auth-token, ...  - session fields (strings)
//	<prefix>bucket-map                           - bucket cache (hash: name -> id)
//
// Consistency:
//
//	SetSession          one MSET; all fields or none
//	ReplaceBucketCache  DEL + HSET in one MULTI/EXEC
//	Clear               one DEL over every owned key
//
// Nothing else is transactional. Store never retries; backend failures come
// back as ErrBackendUnavailable and retry policy is left to the caller.
package b2session
