package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agri365/agri365/internal/core/model"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Source supplies catalog entries at startup.
type Source interface {
	Load(ctx context.Context) ([]model.CatalogEntry, error)
}

// StaticSource serves a fixed slice.
type StaticSource []model.CatalogEntry

func (s StaticSource) Load(ctx context.Context) ([]model.CatalogEntry, error) {
	out := make([]model.CatalogEntry, len(s))
	for i, e := range s {
		out[i] = e.Clone()
	}
	return out, nil
}

// File is the on-disk layout shared by every supported format: a list of
// entries under "entries".
type File struct {
	Entries []model.CatalogEntry `json:"entries" toml:"entries" yaml:"entries"`
}

// FileSource reads a catalog file. The format follows the extension:
// .toml, .yaml/.yml or .json.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file '%s'", s.Path)
	}
	return Decode(filepath.Ext(s.Path), data)
}

// Decode parses catalog data in the format named by ext (".toml", ".yaml",
// ".yml" or ".json", with or without the dot).
func Decode(ext string, data []byte) ([]model.CatalogEntry, error) {
	var f File
	var err error
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	case "json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s catalog", strings.TrimPrefix(ext, "."))
	}
	return f.Entries, nil
}
