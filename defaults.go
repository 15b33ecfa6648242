package b2session

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultPrefix matches the prefix used by other clients of the same keyspace.
const DefaultPrefix = "b2sdk:"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func normalizePrefix(p string) (string, error) {
	if p == "" {
		return DefaultPrefix, nil
	}
	if !utf8.ValidString(p) {
		return "", fmt.Errorf("b2session: prefix %q is not valid UTF-8", p)
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("b2session: prefix is blank")
	}
	return p, nil
}
