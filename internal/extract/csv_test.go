package extract_test

import (
	"blocklists/internal/extract"
	"blocklists/pkg/serrors"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "header with domaine column",
			src:  "domaine,note\nexemple.fr,x\n",
			want: []string{"exemple.fr"},
		},
		{
			name: "no header falls back to first column",
			src:  "premier.fr,x\nexemple.fr,y\n",
			// a non-blank first row is always consumed as the header
			want: []string{"exemple.fr"},
		},
		{
			name: "domain column not first",
			src:  "id;date;NDD;source\n1;2024-01-02;Exemple[.]fr;viginum\n2;2024-01-03;https://autre.fr/page;viginum\n",
			want: []string{"autre.fr", "exemple.fr"},
		},
		{
			name: "synonym priority order",
			src:  "host,fqdn,label\nh.example,f.example,x\n",
			want: []string{"f.example"},
		},
		{
			name: "header cells are trimmed and lower-cased",
			src:  "note\t  Domain  \nx\texample.com\n",
			want: []string{"example.com"},
		},
		{
			name: "unknown header uses first column",
			src:  "site,comment\nexample.com,foo\nother.example,bar\n",
			want: []string{"example.com", "other.example"},
		},
		{
			name: "short rows fall back to first cell",
			src:  "id,label,domain\n" + strings.Repeat("1,x,long.example\n", 9) + "short.example\n",
			want: []string{"long.example", "short.example"},
		},
		{
			name: "blank first row means no header",
			src:  " , \nexemple.fr,x\nautre.fr,y\n",
			want: []string{"autre.fr", "exemple.fr"},
		},
		{
			name: "leading empty line means no header",
			src:  "\nx,domain\nnot-a-domain,a.example\nb.example,c.example\n",
			want: []string{"b.example"},
		},
		{
			name: "single non-blank header cell is still a header",
			src:  ",,fqdn\n1,2,example.com\n",
			want: []string{"example.com"},
		},
		{
			name: "quoted fields",
			src:  "domain,note\n\"example.com\",\"a, b\"\n\"other.example\",c\n",
			want: []string{"example.com", "other.example"},
		},
		{
			name: "duplicates collapse",
			src:  "domain,n\nexample.com,1\nEXAMPLE.com,2\nwww.example.com,3\n",
			want: []string{"example.com"},
		},
		{
			name: "utf-8 bom before header",
			src:  "\xef\xbb\xbfdomain;n\nexample.com;1\n",
			want: []string{"example.com"},
		},
		{
			name: "carriage return line endings",
			src:  "domain,n\ra.example,1\rb.example,2\r",
			want: []string{"a.example", "b.example"},
		},
		{
			name: "crlf line endings",
			src:  "domain,n\r\na.example,1\r\nb.example,2\r\n",
			want: []string{"a.example", "b.example"},
		},
		{
			name: "carriage return inside quotes stays in the field",
			src:  "note,domain\r\"line\rbreak\",a.example\rx,b.example\r",
			want: []string{"a.example", "b.example"},
		},
		{
			name: "header only",
			src:  "domain,note\n",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extract.CSV(context.Background(), strings.NewReader(tc.src))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Sorted())
		})
	}
}

func TestCSV_Empty(t *testing.T) {
	for _, src := range []string{"", "\n\n", "   \n"} {
		got, err := extract.CSV(context.Background(), strings.NewReader(src))
		require.NoError(t, err)
		require.Zero(t, got.Len())
	}
}

func TestCSV_UndetectableDialect(t *testing.T) {
	_, err := extract.CSV(context.Background(), strings.NewReader("example.com\nother.example\n"))
	require.ErrorIs(t, err, serrors.ErrUndetectableDialect)
}

func TestCSV_ManyRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id;domaine\n")
	for i := 0; i < 3000; i++ {
		sb.WriteString("1;example.com\n")
	}
	sb.WriteString("2;last.example\n")

	got, err := extract.CSV(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, []string{"example.com", "last.example"}, got.Sorted())
}
