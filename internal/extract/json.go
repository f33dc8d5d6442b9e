package extract

import (
	"context"
	"io"
	"strings"

	"blocklists/pkg/domain"
	"blocklists/pkg/serrors"

	"github.com/go-faster/jx"
)

// stixDomainType is the STIX object type carrying a domain in its value field.
const stixDomainType = "domain-name"

// jsonKeys are the object keys, compared case-insensitively, whose string
// values are taken as domain candidates anywhere in the tree.
var jsonKeys = map[string]struct{}{ //nolint: gochecknoglobals
	"value":   {},
	"domain":  {},
	"domaine": {},
	"host":    {},
	"fqdn":    {},
}

// TreeJSON extracts domains from a STIX-like JSON document. The walk starts
// at the "objects" array of a bundle, at every element of a top-level array,
// or at a single top-level object. It collects the value of domain-name
// objects, plus every string stored under a value, domain, domaine, host or
// fqdn key at any depth, and descends into all other members.
//
// A document that is not valid JSON contributes no domains: an empty set is
// returned together with an ErrMalformedSource error the caller may log.
func TreeJSON(ctx context.Context, r io.Reader) (domain.Set, error) {
	out := domain.NewSet()

	text, err := readText(r)
	if err != nil {
		return out, serrors.Wrap(serrors.ErrMalformedSource, err, "could not read json")
	}
	buf := []byte(text)
	if err := jx.DecodeBytes(buf).Validate(); err != nil {
		return out, serrors.Wrap(serrors.ErrMalformedSource, err, "invalid json")
	}

	root, err := bundleObjects(buf)
	if err != nil {
		return out, serrors.Wrap(serrors.ErrMalformedSource, err, "could not read json root")
	}

	w := walker{ctx: ctx, out: out}
	if err := w.value(jx.DecodeBytes(root)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return domain.NewSet(), serrors.Wrap(serrors.ErrMalformedSource, err, "could not walk json")
	}

	return out, nil
}

// bundleObjects returns the raw "objects" array when buf is an object holding
// one, and buf itself otherwise. As with a map decode, the last duplicate key
// wins.
func bundleObjects(buf []byte) ([]byte, error) {
	d := jx.DecodeBytes(buf)
	if d.Next() != jx.Object {
		return buf, nil
	}

	var objects jx.Raw
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "objects" {
			return d.Skip()
		}
		if d.Next() != jx.Array {
			objects = nil

			return d.Skip()
		}
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		objects = append(jx.Raw(nil), raw...)

		return nil
	}); err != nil {
		return nil, err
	}

	if objects == nil {
		return buf, nil
	}

	return objects, nil
}

type walker struct {
	ctx context.Context
	out domain.Set
}

// value walks any JSON value, collecting from the objects found in it.
func (w walker) value(d *jx.Decoder) error {
	switch d.Next() {
	case jx.Object:
		return w.object(d)
	case jx.Array:
		return d.Arr(func(d *jx.Decoder) error { return w.value(d) })
	default:
		return d.Skip()
	}
}

// object walks one JSON object. Every member is visited: a match on one key
// never stops the walk, since siblings may hold further domains.
func (w walker) object(d *jx.Decoder) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	var (
		typ      string
		value    string
		hasValue bool
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.String {
			switch key {
			case "type":
				typ = ""
			case "value":
				hasValue = false
			}

			return w.value(d)
		}

		s, err := d.Str()
		if err != nil {
			return err
		}
		switch key {
		case "type":
			typ = s
		case "value":
			value, hasValue = s, true
		}
		if _, ok := jsonKeys[strings.ToLower(key)]; ok {
			w.out.AddRaw(s)
		}

		return nil
	}); err != nil {
		return err
	}

	if typ == stixDomainType && hasValue {
		w.out.AddRaw(value)
	}

	return nil
}
