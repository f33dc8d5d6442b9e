package extract

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"blocklists/pkg/domain"
	"blocklists/pkg/serrors"

	"github.com/go-faster/errors"
)

// headerSynonyms are the header names, in priority order, that identify the
// column holding domains.
var headerSynonyms = []string{"domain", "domaine", "ndd", "fqdn", "host"} //nolint: gochecknoglobals

// CSV extracts domains from a delimited export. The delimiter is inferred with
// SniffDelimiter, failing with ErrUndetectableDialect when it cannot be.
//
// A first row with any non-blank cell is a header. The domain column is the
// first header cell matching a known synonym (domain, domaine, ndd, fqdn,
// host), or the first column when none matches. A blank first row means the
// file has no header and every row is data, read from the first column. Rows
// shorter than the domain column fall back to their first cell.
func CSV(ctx context.Context, r io.Reader) (domain.Set, error) {
	text, err := readText(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read csv source")
	}

	out := domain.NewSet()
	if strings.TrimSpace(text) == "" {
		return out, nil
	}
	text = lineFeeds(text)

	delim, err := SniffDelimiter(sample(text))
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return out, nil
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformedSource, err, "could not parse csv")
	}

	col := 0
	// encoding/csv skips blank lines, a record that does not start on the
	// first line means the file opened with an empty row and has no header.
	if line, _ := cr.FieldPos(0); line == 1 && isHeader(first) {
		col = domainColumn(first)
	} else {
		addCell(out, first, col)
	}

	for i := 1; ; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrMalformedSource, err, "could not parse csv")
		}
		addCell(out, row, col)
	}

	return out, nil
}

// lineFeeds turns every \r that does not start a \r\n pair into \n, since
// encoding/csv only ends records on \n. Quoted fields are left untouched.
func lineFeeds(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}

	var (
		b      strings.Builder
		quoted bool
	)
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			quoted = !quoted
		case c == '\r' && !quoted && (i+1 == len(text) || text[i+1] != '\n'):
			c = '\n'
		}
		b.WriteByte(c)
	}

	return b.String()
}

// isHeader reports whether the row has at least one non-blank cell.
func isHeader(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}

	return false
}

// domainColumn returns the index of the header cell naming the domain
// column, or 0 when the header has no known synonym.
func domainColumn(header []string) int {
	names := make([]string, len(header))
	for i, c := range header {
		names[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for _, key := range headerSynonyms {
		for i, name := range names {
			if name == key {
				return i
			}
		}
	}

	return 0
}

func addCell(out domain.Set, row []string, col int) {
	if len(row) == 0 {
		return
	}

	cell := row[0]
	if col < len(row) {
		cell = row[col]
	}
	out.AddRaw(cell)
}
