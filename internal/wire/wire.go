package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

type Kind byte

const (
	version byte = 1

	KindString Kind = 1
	KindHash   Kind = 2
)

var (
	ErrCorrupt   = errors.New("b2session: corrupt entry")
	ErrWrongKind = errors.New("b2session: operation against a key holding the wrong kind of value")
	magic4       = [...]byte{'B', '2', 'S', 'K'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// KindOf reports the kind of an encoded entry.
func KindOf(b []byte) (Kind, error) {
	if len(b) < 6 || !hasMagic(b) || b[4] != version {
		return 0, ErrCorrupt
	}
	switch k := Kind(b[5]); k {
	case KindString, KindHash:
		return k, nil
	default:
		return 0, ErrCorrupt
	}
}

// String: magic(4) | ver(1) | kind(1=string) | vlen(u32 be) | value(vlen)
func EncodeString(v string) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(v))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(KindString))

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(v)))
	buf.Write(u4[:])

	buf.WriteString(v)
	return buf.Bytes()
}

func DecodeString(b []byte) (string, error) {
	k, err := KindOf(b)
	if err != nil {
		return "", err
	}
	if k != KindString {
		return "", ErrWrongKind
	}
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr {
		return "", ErrCorrupt
	}
	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact: no trailing bytes
		return "", ErrCorrupt
	}
	return string(b[off:]), nil
}

// Hash:
//
//	magic(4) | ver(1) | kind(2=hash) | n(u32 be)
//	flen(u16 be) | field(flen) | vlen(u32 be) | value(vlen) * n
//
// Fields are written in sorted order so equal maps encode to equal bytes.
func EncodeHash(fields map[string]string) ([]byte, error) {
	names := make([]string, 0, len(fields))
	total := 4 + 1 + 1 + 4
	for f, v := range fields {
		if l := len(f); l == 0 || l > 0xFFFF {
			return nil, fmt.Errorf("b2session: invalid hash field length %d", l)
		}
		names = append(names, f)
		total += 2 + len(f) + 4 + len(v)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(KindHash))

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(names)))
	buf.Write(u4[:])

	for _, f := range names {
		binary.BigEndian.PutUint16(u2[:], uint16(len(f)))
		buf.Write(u2[:])
		buf.WriteString(f)

		v := fields[f]
		binary.BigEndian.PutUint32(u4[:], uint32(len(v)))
		buf.Write(u4[:])
		buf.WriteString(v)
	}
	return buf.Bytes(), nil
}

func DecodeHash(b []byte) (map[string]string, error) {
	k, err := KindOf(b)
	if err != nil {
		return nil, err
	}
	if k != KindHash {
		return nil, ErrWrongKind
	}
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr {
		return nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every field needs at least 2+1+4 bytes; reject bogus counts before allocating
	if n < 0 || n > (len(b)-off)/7 {
		return nil, ErrCorrupt
	}

	out := make(map[string]string, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		flen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if flen <= 0 || flen > len(b)-off {
			return nil, ErrCorrupt
		}
		field := string(b[off : off+flen])
		off += flen

		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}
		out[field] = string(b[off : off+vlen])
		off += vlen
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}
	return out, nil
}
