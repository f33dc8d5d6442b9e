package extract

import (
	"context"
	"io"
	"strings"

	"blocklists/pkg/domain"

	"github.com/go-faster/errors"
)

// Text extracts domains from a plain list, one token per line. Blank lines,
// # comments and lines that do not hold a domain are skipped.
func Text(ctx context.Context, r io.Reader) (domain.Set, error) {
	s, err := readText(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read text source")
	}

	out := domain.NewSet()
	for i, line := range strings.FieldsFunc(s, isLineBreak) {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out.AddRaw(line)
	}

	return out, nil
}
