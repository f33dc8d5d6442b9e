package domain

// Category is a published blocklist. Each category is built from its own
// sources and gets its own output files; two categories may list the same
// domain.
type Category struct {
	// Slug is the stable identifier used in output file names.
	Slug string
	// Name is the human-readable list title shown by blocklist consumers.
	Name string
	// Description explains what kind of domains the list contains.
	Description string

	// SourceDirs are directories, relative to the sources root, that are
	// searched recursively for CSV and JSON exports.
	SourceDirs []string
	// SourceFiles are plain-text lists, relative to the sources root, with one
	// domain per line.
	SourceFiles []string
}

// DefaultCategories returns the category table the blocklists are built
// from. A fresh slice is returned on each call so callers cannot alter the
// table for others.
func DefaultCategories() []Category {
	return []Category{
		{
			Slug:        "ingerences",
			Name:        "Foreign interference (Viginum)",
			Description: "Domains linked to foreign interference operations (source: Viginum + manual additions).",
			SourceDirs:  []string{"viginum"},
			SourceFiles: []string{"ingerences_extended.source.txt"},
		},
		{
			Slug:        "complotistes",
			Name:        "Conspiracy content",
			Description: "Domains repeatedly sharing conspiracy/fake news content (manually curated).",
			SourceFiles: []string{"complotistes.source.txt"},
		},
		{
			Slug:        "ia-seo",
			Name:        "AI Slop / SEO spam",
			Description: "Domains producing low-quality AI-generated or SEO-spam content (manually curated).",
			SourceFiles: []string{"ia-seo.source.txt"},
		},
	}
}
