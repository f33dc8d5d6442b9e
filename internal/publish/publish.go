// Package publish turns domain sets into the distributed blocklist files: a
// flat list importable by DNS filters such as NextDNS and a uBlacklist rule
// subscription.
package publish

import (
	"context"
	"io"
	"time"

	"blocklists/pkg/domain"
	"blocklists/pkg/logger"
	"blocklists/pkg/storage"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ListName returns the file name of the flat domain list of a category.
func ListName(slug string) string { return slug + ".nextdns.txt" }

// RulesName returns the file name of the uBlacklist rule file of a category.
func RulesName(slug string) string { return slug + ".ublacklist.txt" }

// Options configure the metadata written into rule files.
type Options struct {
	// Homepage is the project URL advertised in rule file headers.
	Homepage string
	// License is the license identifier advertised in rule file headers.
	License string
	// Now returns the generation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Publisher writes both output formats of a category to a storage.
type Publisher struct {
	storage storage.Storage
	options Options
}

// New creates a Publisher writing to st.
func New(st storage.Storage, options Options) *Publisher {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Publisher{storage: st, options: options}
}

// Location returns where published files end up.
func (p *Publisher) Location() string { return p.storage.Location() }

// Publish writes the flat list and the rule file of category c. Both files
// are fully regenerated.
func (p *Publisher) Publish(ctx context.Context, c domain.Category, set domain.Set) error {
	header := Header{
		Name:        c.Name,
		Description: c.Description,
		Homepage:    p.options.Homepage,
		License:     p.options.License,
		GeneratedAt: p.options.Now(),
	}

	if err := p.storage.Put(ctx, ListName(c.Slug), func(w io.Writer) error {
		return WriteList(w, set)
	}); err != nil {
		return errors.Wrapf(err, "could not publish list of %s", c.Slug)
	}

	if err := p.storage.Put(ctx, RulesName(c.Slug), func(w io.Writer) error {
		return WriteRules(w, set, header)
	}); err != nil {
		return errors.Wrapf(err, "could not publish rules of %s", c.Slug)
	}

	logger.Debug(ctx, "category published",
		zap.Int("domains", set.Len()),
		zap.String("location", p.Location()))

	return nil
}
