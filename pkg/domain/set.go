package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// Set is a collection of unique normalized domain names. Members are kept
// unordered; use Sorted when a stable order is needed.
type Set map[string]struct{}

// NewSet returns a Set holding the given domains. Values are stored as
// given, callers are expected to pass normalized names.
func NewSet(domains ...string) Set {
	s := make(Set, len(domains))
	for _, d := range domains {
		s[d] = struct{}{}
	}

	return s
}

// Add inserts d into the set.
func (s Set) Add(d string) { s[d] = struct{}{} }

// AddRaw normalizes raw and inserts the result. It reports whether raw held
// a usable domain.
func (s Set) AddRaw(raw string) bool {
	d, ok := Normalize(raw)
	if ok {
		s[d] = struct{}{}
	}

	return ok
}

// Has reports whether d is a member of the set.
func (s Set) Has(d string) bool {
	_, ok := s[d]

	return ok
}

// Len returns the number of domains in the set.
func (s Set) Len() int { return len(s) }

// Merge adds every member of other to s and returns s.
func (s Set) Merge(other Set) Set {
	for d := range other {
		s[d] = struct{}{}
	}

	return s
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)

	return out
}

// Fingerprint returns a short content hash of the set. Two sets with the same
// members always have the same fingerprint, regardless of insertion order.
func (s Set) Fingerprint() string {
	return fmt.Sprintf("%016x", xxh3.HashString(strings.Join(s.Sorted(), "\n")))
}
