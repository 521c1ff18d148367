// Package catalog holds the read-only collection of searchable crops, pests
// and diseases, and the sources it can be loaded from.
package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/agri365/agri365/internal/core/model"
)

var ErrInvalidEntry = errors.New("invalid catalog entry")

// Catalog is immutable after New and safe to share between goroutines.
type Catalog struct {
	entries []model.CatalogEntry
}

// New validates entries and copies them, so later changes to the input
// slice do not leak into the catalog.
func New(entries []model.CatalogEntry) (*Catalog, error) {
	out := make([]model.CatalogEntry, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, errors.Wrapf(ErrInvalidEntry, "entry %d: name is required", i)
		}
		if !e.Type.Valid() {
			t, ok := model.ParseEntryType(string(e.Type))
			if !ok {
				return nil, errors.Wrapf(ErrInvalidEntry, "entry %d (%s): unknown type %q", i, e.Name, e.Type)
			}
			e.Type = t
		}
		out = append(out, e.Clone())
	}
	return &Catalog{entries: out}, nil
}

// Load reads entries from src and builds a catalog from them.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return New(entries)
}

func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the catalog in its original order.
func (c *Catalog) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// Each calls fn for every entry in order, stopping at the first error.
// fn must not modify the entry's Tags.
func (c *Catalog) Each(fn func(i int, e model.CatalogEntry) error) error {
	for i, e := range c.entries {
		if err := fn(i, e); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) ByType(t model.EntryType) []model.CatalogEntry {
	var out []model.CatalogEntry
	for _, e := range c.entries {
		if e.Type == t {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Find looks up an entry by exact name, ignoring case and surrounding space.
// The first entry with that name wins whatever its type.
func (c *Catalog) Find(name string) (model.CatalogEntry, bool) {
	return c.find("", name)
}

// FindType is Find restricted to entries of type t.
func (c *Catalog) FindType(t model.EntryType, name string) (model.CatalogEntry, bool) {
	return c.find(t, name)
}

func (c *Catalog) find(t model.EntryType, name string) (model.CatalogEntry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range c.entries {
		if t != "" && e.Type != t {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return e.Clone(), true
		}
	}
	return model.CatalogEntry{}, false
}
