package catalog

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agri365/agri365/internal/core/model"
	"github.com/agri365/agri365/internal/driver"
)

// GraphSource reads :CatalogEntry nodes from a Memgraph/Neo4j database.
type GraphSource struct {
	Driver driver.GraphDriver
}

func (s GraphSource) Load(ctx context.Context) ([]model.CatalogEntry, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.ListCatalogEntriesQuery, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog entries")
	}

	entries := make([]model.CatalogEntry, 0, len(res.Records))
	for _, rec := range res.Records {
		entries = append(entries, recordToEntry(rec))
	}
	return entries, nil
}

// recordToEntry treats missing or null properties as empty values.
func recordToEntry(rec *neo4j.Record) model.CatalogEntry {
	e := model.CatalogEntry{
		Type:   model.EntryType(stringProp(rec, "type")),
		Name:   stringProp(rec, "name"),
		Target: stringProp(rec, "target"),
		Info:   stringProp(rec, "info"),
		Rec:    stringProp(rec, "rec"),
		Market: stringProp(rec, "market"),
	}
	if raw, ok := rec.Get("tags"); ok {
		switch tags := raw.(type) {
		case []interface{}:
			for _, t := range tags {
				if s, ok := t.(string); ok {
					e.Tags = append(e.Tags, s)
				}
			}
		case []string:
			e.Tags = append(e.Tags, tags...)
		}
	}
	return e
}

func stringProp(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SaveToGraph replaces the catalog stored in the graph with entries,
// preserving their order. The clear and the inserts run as one statement,
// so on error the previous catalog is left untouched.
func SaveToGraph(ctx context.Context, d driver.GraphDriver, entries []model.CatalogEntry) error {
	rows := make([]map[string]interface{}, 0, len(entries))
	for i, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		rows = append(rows, map[string]interface{}{
			"uuid":     uuid.New().String(),
			"type":     string(e.Type),
			"name":     e.Name,
			"target":   e.Target,
			"info":     e.Info,
			"rec":      e.Rec,
			"market":   e.Market,
			"tags":     tags,
			"position": i,
		})
	}

	params := map[string]interface{}{"entries": rows}
	if _, err := d.ExecuteQuery(ctx, driver.ReplaceCatalogQuery, params); err != nil {
		return errors.Wrapf(err, "replace catalog (%d entries)", len(entries))
	}
	return nil
}
