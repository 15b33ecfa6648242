// Package codec converts structured values to the text stored in a backend
// and back. Stored values are Go strings; binary encodings (CBOR, msgpack)
// are kept byte-for-byte inside them.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
