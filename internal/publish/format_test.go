package publish_test

import (
	"blocklists/internal/publish"
	"blocklists/pkg/domain"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var generatedAt = time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.FixedZone("CET", 3600))

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, publish.WriteList(&buf, domain.NewSet("b.example", "a.example", "c.example")))
	require.Equal(t, "a.example\nb.example\nc.example\n", buf.String())
}

func TestWriteList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, publish.WriteList(&buf, domain.NewSet()))
	require.Equal(t, "\n", buf.String())
}

func TestWriteList_LineCountMatchesSet(t *testing.T) {
	a := domain.NewSet("x.example", "y.example")
	b := domain.NewSet("y.example", "z.example")

	var buf bytes.Buffer
	merged := domain.NewSet().Merge(a).Merge(b)
	require.NoError(t, publish.WriteList(&buf, merged))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, merged.Len())
	require.Equal(t, []string{"x.example", "y.example", "z.example"}, lines)
}

func TestWriteRules(t *testing.T) {
	var buf bytes.Buffer
	err := publish.WriteRules(&buf, domain.NewSet("a.example"), publish.Header{
		Name:        "Foreign interference (Viginum)",
		Description: "Domains linked to foreign interference operations.",
		Homepage:    "https://github.com/GloomyD/blocklists",
		License:     "CC-BY-4.0",
		GeneratedAt: generatedAt,
	})
	require.NoError(t, err)

	want := `---
name: "Foreign interference (Viginum)"
description: "Domains linked to foreign interference operations."
homepage: "https://github.com/GloomyD/blocklists"
license: "CC-BY-4.0"
version: 1
generated_at: 2025-03-14T08:26:53Z
domains_count: 1
---

*://*.a.example/*
`
	require.Equal(t, want, buf.String())
}

func TestWriteRules_SortedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	set := domain.NewSet("c.example", "a.example", "b.example")
	require.NoError(t, publish.WriteRules(&buf, set, publish.Header{GeneratedAt: generatedAt}))

	_, body, ok := strings.Cut(buf.String(), "---\n\n")
	require.True(t, ok)
	require.Equal(t, "*://*.a.example/*\n*://*.b.example/*\n*://*.c.example/*\n", body)
	require.Contains(t, buf.String(), "domains_count: 3\n")
}

func TestWriteRules_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, publish.WriteRules(&buf, domain.NewSet(), publish.Header{GeneratedAt: generatedAt}))
	require.True(t, strings.HasSuffix(buf.String(), "domains_count: 0\n---\n\n\n"))
}

func TestWriteRules_FrontMatterIsYAML(t *testing.T) {
	h := publish.Header{
		Name:        `Say "hi" \o/`,
		Description: `C:\lists\"quoted"`,
		Homepage:    "https://example.com/a?b=\"c\"",
		License:     "CC-BY-4.0 # see: LICENSE",
		GeneratedAt: generatedAt,
	}

	var buf bytes.Buffer
	require.NoError(t, publish.WriteRules(&buf, domain.NewSet("a.example", "b.example"), h))

	parts := strings.SplitN(buf.String(), "---\n", 3)
	require.Len(t, parts, 3)

	var meta struct {
		Name         string    `yaml:"name"`
		Description  string    `yaml:"description"`
		Homepage     string    `yaml:"homepage"`
		License      string    `yaml:"license"`
		Version      int       `yaml:"version"`
		GeneratedAt  time.Time `yaml:"generated_at"`
		DomainsCount int       `yaml:"domains_count"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))

	require.Equal(t, h.Name, meta.Name)
	require.Equal(t, h.Description, meta.Description)
	require.Equal(t, h.Homepage, meta.Homepage)
	require.Equal(t, h.License, meta.License)
	require.Equal(t, publish.RulesVersion, meta.Version)
	require.True(t, meta.GeneratedAt.Equal(generatedAt.Truncate(time.Second)))
	require.Equal(t, 2, meta.DomainsCount)
}
