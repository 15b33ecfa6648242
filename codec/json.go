package codec

import "encoding/json"

// JSON is the default codec. Stored descriptors stay readable with redis-cli
// and compatible with other clients that write plain JSON.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
