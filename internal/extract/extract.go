// Package extract reads blocklist source files and turns them into sets of
// normalized domains. Each supported source format has its own extractor;
// all of them delegate per-token cleanup to domain.Normalize and silently
// drop tokens that do not hold a domain.
package extract

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"blocklists/pkg/domain"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format identifies the layout of a source file.
type Format string

const (
	// FormatText is a plain list with one domain-ish token per line.
	FormatText Format = "text"
	// FormatCSV is a delimited export with an optional header row.
	FormatCSV Format = "csv"
	// FormatJSON is a STIX-like bundle or any JSON tree holding domain values.
	FormatJSON Format = "json"
)

// Extractor reads a source and returns the domains found in it.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (domain.Set, error)
}

// Func adapts a plain function to the Extractor interface.
type Func func(ctx context.Context, r io.Reader) (domain.Set, error)

// Extract calls f.
func (f Func) Extract(ctx context.Context, r io.Reader) (domain.Set, error) { return f(ctx, r) }

// Default returns the extractors for every supported format.
func Default() map[Format]Extractor {
	return map[Format]Extractor{
		FormatText: Func(Text),
		FormatCSV:  Func(CSV),
		FormatJSON: Func(TreeJSON),
	}
}

// FormatOf classifies a file found in a source directory by its extension.
// Only CSV and JSON exports are picked up from directories, plain-text lists
// are always named explicitly.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// checkEvery is how many lines or rows are processed between context checks.
const checkEvery = 1024

// readText reads r fully and returns its content as valid UTF-8. A byte order
// mark selects UTF-8 or UTF-16 decoding, other input is taken as UTF-8.
// Malformed byte sequences are dropped rather than failing the read.
func readText(r io.Reader) (string, error) {
	b, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return "", errors.Wrap(err, "could not read")
	}

	s := strings.ToValidUTF8(string(b), "")

	return strings.ReplaceAll(s, "\uFFFD", ""), nil
}

// isLineBreak reports whether r ends a line. The set matches what common
// text tooling treats as line boundaries, not only \n and \r.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}
