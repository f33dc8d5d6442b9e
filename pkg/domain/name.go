package domain

import (
	"regexp"
	"strings"
)

// nameRe matches a complete lower-case ASCII domain name made of at least two
// labels. A single leading wildcard label is tolerated and left out of the
// captured name. Matching is case-sensitive: case folding would let non-ASCII
// runes such as U+017F through.
var nameRe = regexp.MustCompile( //nolint: gochecknoglobals
	`^(?:\*\.)?([a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+)$`,
)

// defang reverses the usual indicator-of-compromise notations found in
// threat intel reports and removes left-over square brackets.
var defang = strings.NewReplacer( //nolint: gochecknoglobals
	"[.]", ".",
	"(.)", ".",
	"[dot]", ".",
	"(dot)", ".",
	"[", "",
	"]", "",
)

// Normalize extracts a canonical domain name from a raw token as found in
// blocklist sources. It returns false when the token does not contain a
// usable domain, which callers should treat as "skip this token".
//
// The token is cleaned in this order:
//   - surrounding whitespace is trimmed, empty tokens and # comments are rejected
//   - adblock filter syntax is removed: || anchors, ^ and $ option separators
//   - http:// and https:// schemes are removed, then any path and port
//   - leading dots are removed and the token is lower-cased
//   - leading www. and *. labels are removed, repeatedly
//   - defanged notations like example[.]com or example(dot)com are restored
//
// What remains must be a complete domain name, otherwise the token is dropped.
// Normalize is idempotent: feeding its output back in returns the same name.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "#") {
		return "", false
	}

	s = strings.ReplaceAll(s, "||", "")
	s = cut(s, "^")
	s = cut(s, "$")
	s = strings.TrimSpace(s)

	s = strings.ReplaceAll(s, "http://", "")
	s = strings.ReplaceAll(s, "https://", "")
	s = cut(s, "/")
	s = cut(s, ":")

	s = strings.ToLower(strings.TrimLeft(s, "."))
	s = trimLabels(s)

	s = trimLabels(defang.Replace(s))

	m := nameRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// IsNormalized reports whether s is already a normalized domain name.
func IsNormalized(s string) bool {
	n, ok := Normalize(s)

	return ok && n == s
}

// cut returns s up to the first occurrence of sep.
func cut(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)

	return before
}

// trimLabels removes leading www. and *. labels. Defanged input such as
// www[.]example[.]com only reveals its www. label after restoration, so this
// runs both before and after defanging.
func trimLabels(s string) string {
	for {
		switch {
		case strings.HasPrefix(s, "www."):
			s = s[len("www."):]
		case strings.HasPrefix(s, "*."):
			s = s[len("*."):]
		default:
			return s
		}
	}
}
