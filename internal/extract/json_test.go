package extract_test

import (
	"blocklists/internal/extract"
	"blocklists/pkg/serrors"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeJSON(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "stix bundle",
			src:  `{"objects":[{"type":"domain-name","value":"evil.example"}]}`,
			want: []string{"evil.example"},
		},
		{
			name: "stix bundle with unrelated objects",
			src: `{"type":"bundle","id":"bundle--1","objects":[
				{"type":"identity","name":"Viginum"},
				{"type":"indicator","pattern":"[domain-name:value = 'x.example']"},
				{"type":"domain-name","id":"domain-name--2","value":"Evil[.]Example"},
				{"type":"url","value":"https://www.phish.example/login"}
			]}`,
			want: []string{"evil.example", "phish.example"},
		},
		{
			name: "siblings of objects are ignored in a bundle",
			src:  `{"host":"ignored.example","objects":[{"domain":"kept.example"}]}`,
			want: []string{"kept.example"},
		},
		{
			name: "objects that is a string walks the whole object",
			src:  `{"objects":"not a list","host":"root.example"}`,
			want: []string{"root.example"},
		},
		{
			name: "objects that is not a list walks the whole object",
			src:  `{"objects":{"fqdn":"nested.example"},"domaine":"root.example"}`,
			want: []string{"nested.example", "root.example"},
		},
		{
			name: "bare list",
			src:  `[{"domain":"a.example"},{"domaine":"b.example"},"c.example",[{"fqdn":"d.example"}]]`,
			want: []string{"a.example", "b.example", "d.example"},
		},
		{
			name: "bare object nested deep",
			src:  `{"report":{"sections":[{"items":[{"meta":{"host":"other.example"}}]}]}}`,
			want: []string{"other.example"},
		},
		{
			name: "keys are case-insensitive",
			src:  `{"Domain":"a.example","HOST":"b.example","FqDn":"c.example","VALUE":"d.example"}`,
			want: []string{"a.example", "b.example", "c.example", "d.example"},
		},
		{
			name: "siblings of a match are still visited",
			src:  `{"domain":"a.example","related":{"host":"b.example"},"aliases":[{"fqdn":"c.example"}]}`,
			want: []string{"a.example", "b.example", "c.example"},
		},
		{
			name: "non-string values under domain keys are walked",
			src:  `{"domain":{"value":"inner.example"},"host":["skip.example"],"fqdn":42}`,
			want: []string{"inner.example"},
		},
		{
			name: "unknown string keys are ignored",
			src:  `{"name":"named.example","url":"https://url.example/"}`,
			want: []string{},
		},
		{
			name: "domain-name object with type after value",
			src:  `[{"value":"late.example","type":"domain-name"}]`,
			want: []string{"late.example"},
		},
		{
			name: "garbage values are dropped",
			src:  `{"objects":[{"type":"domain-name","value":"not a domain"},{"value":""}]}`,
			want: []string{},
		},
		{
			name: "scalar root",
			src:  `"example.com"`,
			want: []string{},
		},
		{
			name: "null root",
			src:  `null`,
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extract.TreeJSON(context.Background(), strings.NewReader(tc.src))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Sorted())
		})
	}
}

func TestTreeJSON_Malformed(t *testing.T) {
	for _, src := range []string{"", "{", `{"objects":[}`, "not json", `{"a":1} trailing`} {
		got, err := extract.TreeJSON(context.Background(), strings.NewReader(src))
		require.ErrorIs(t, err, serrors.ErrMalformedSource, "input %q", src)
		require.NotNil(t, got)
		require.Zero(t, got.Len())
	}
}

func TestTreeJSON_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extract.TreeJSON(ctx, strings.NewReader(`{"domain":"a.example"}`))
	require.ErrorIs(t, err, context.Canceled)
}
