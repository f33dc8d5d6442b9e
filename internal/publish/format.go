package publish

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"blocklists/pkg/domain"

	"github.com/go-faster/errors"
)

// RulesVersion is the version written into every rule file header.
const RulesVersion = 1

// Header is the metadata block at the top of a uBlacklist rule file.
type Header struct {
	Name        string
	Description string
	Homepage    string
	License     string
	GeneratedAt time.Time
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`) //nolint: gochecknoglobals

// quote escapes backslashes and double quotes and wraps s in double quotes,
// which keeps the value a valid YAML double-quoted scalar.
func quote(s string) string { return `"` + quoteEscaper.Replace(s) + `"` }

// WriteList writes the domains sorted, one per line, with a trailing newline.
func WriteList(w io.Writer, set domain.Set) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(set.Sorted(), "\n") + "\n"); err != nil {
		return errors.Wrap(err, "could not write list")
	}

	return bw.Flush()
}

// WriteRules writes a uBlacklist subscription: a YAML front matter block
// followed by one *://*.<domain>/* rule per domain, sorted by domain.
func WriteRules(w io.Writer, set domain.Set, h Header) error {
	domains := set.Sorted()
	rules := make([]string, len(domains))
	for i, d := range domains {
		rules[i] = "*://*." + d + "/*"
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("---\n")
	_, _ = fmt.Fprintf(bw, "name: %s\n", quote(h.Name))
	_, _ = fmt.Fprintf(bw, "description: %s\n", quote(h.Description))
	_, _ = fmt.Fprintf(bw, "homepage: %s\n", quote(h.Homepage))
	_, _ = fmt.Fprintf(bw, "license: %s\n", quote(h.License))
	_, _ = fmt.Fprintf(bw, "version: %d\n", RulesVersion)
	_, _ = fmt.Fprintf(bw, "generated_at: %s\n", h.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	_, _ = fmt.Fprintf(bw, "domains_count: %d\n", len(domains))
	_, _ = bw.WriteString("---\n\n")
	_, _ = bw.WriteString(strings.Join(rules, "\n"))
	_, _ = bw.WriteString("\n")

	// bufio.Writer keeps the first write error and returns it from Flush
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "could not write rules")
	}

	return nil
}
