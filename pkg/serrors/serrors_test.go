package serrors_test

import (
	"blocklists/pkg/serrors"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrInvalidConfig,
		serrors.ErrMalformedSource,
		serrors.ErrUndetectableDialect,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("unexpected EOF")

	e1 := serrors.With(serrors.ErrUndetectableDialect, "no delimiter in %d bytes", 12)
	require.Equal(t, "no delimiter in 12 bytes", e1.Error())

	e2 := serrors.Wrap(serrors.ErrMalformedSource, base, "parsing feed.json")
	require.Equal(t, "parsing feed.json: unexpected EOF", e2.Error())

	e3 := serrors.With(serrors.ErrNotFound, "")
	require.Equal(t, "NOT_FOUND", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrMalformedSource, base, "reading")

	require.ErrorIs(t, e, serrors.ErrMalformedSource)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUndetectableDialect)

	// kinds survive further wrapping with fmt.Errorf
	wrapped := fmt.Errorf("could not extract: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrMalformedSource)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Equal(t, serrors.ErrInternal, serrors.KindOf(errors.New("plain")))

	e := fmt.Errorf("outer: %w", serrors.With(serrors.ErrUndetectableDialect, "sniff"))
	require.Equal(t, serrors.ErrUndetectableDialect, serrors.KindOf(e))
}
