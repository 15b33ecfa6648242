package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

type grant struct {
	Capabilities []string `json:"capabilities" cbor:"capabilities" msgpack:"capabilities"`
	BucketID     *string  `json:"bucketId" cbor:"bucketId" msgpack:"bucketId"`
	NamePrefix   *string  `json:"namePrefix" cbor:"namePrefix" msgpack:"namePrefix"`
}

func sample() grant {
	id := "4_z27c"
	return grant{Capabilities: []string{"listBuckets", "readFiles"}, BucketID: &id}
}

func TestCodecsPreserveValue(t *testing.T) {
	codecs := map[string]Codec[grant]{
		"json":     JSON[grant]{},
		"msgpack":  Msgpack[grant]{},
		"cbor":     MustCBOR[grant](false),
		"cbor-det": MustCBOR[grant](true),
	}
	want := sample()
	for name, c := range codecs {
		b, err := c.Encode(want)
		if err != nil {
			t.Fatalf("%s encode: %v", name, err)
		}
		got, err := c.Decode(b)
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %+v want %+v", name, got, want)
		}
	}
}

func TestDeterministicCBORIsStable(t *testing.T) {
	c := MustCBOR[map[string]string](true)
	a, err := c.Encode(map[string]string{"b": "2", "a": "1", "c": "3"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Encode(map[string]string{"c": "3", "a": "1", "b": "2"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("deterministic encoding differs: %x vs %x", a, b)
	}
}

func TestJSONDecodeRejectsGarbage(t *testing.T) {
	if _, err := (JSON[grant]{}).Decode([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit[grant]{Inner: JSON[grant]{}, MaxDecode: 16}
	b, err := c.Encode(sample())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(b); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size error, got %v", err)
	}

	unlimited := Limit[grant]{Inner: JSON[grant]{}}
	if _, err := unlimited.Decode(b); err != nil {
		t.Fatalf("MaxDecode=0 should not limit: %v", err)
	}
}
