package model

import "strings"

// EntryType classifies a catalog entry.
type EntryType string

const (
	TypeDisease EntryType = "disease"
	TypePest    EntryType = "pest"
	TypeCrop    EntryType = "crop"
)

// ParseEntryType accepts the type names case-insensitively.
func ParseEntryType(s string) (EntryType, bool) {
	switch t := EntryType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDisease, TypePest, TypeCrop:
		return t, true
	}
	return "", false
}

func (t EntryType) Valid() bool {
	switch t {
	case TypeDisease, TypePest, TypeCrop:
		return true
	}
	return false
}

// CatalogEntry is a searchable crop, pest or disease record.
// Target is the crop the entry applies to ("Universal" for pests that hit
// anything). Tags only widen the matchable surface.
type CatalogEntry struct {
	Type   EntryType `json:"type" toml:"type" yaml:"type"`
	Name   string    `json:"name" toml:"name" yaml:"name"`
	Target string    `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"`
	Info   string    `json:"info" toml:"info" yaml:"info"`
	Rec    string    `json:"rec,omitempty" toml:"rec,omitempty" yaml:"rec,omitempty"`
	Market string    `json:"market,omitempty" toml:"market,omitempty" yaml:"market,omitempty"`
	Tags   []string  `json:"tags,omitempty" toml:"tags,omitempty" yaml:"tags,omitempty"`
}

// Clone returns a copy that shares no memory with e.
func (e CatalogEntry) Clone() CatalogEntry {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}

// SearchFields lists the strings a query is scored against, in order:
// name, target, then each tag. Target is included even when empty.
func (e CatalogEntry) SearchFields() []string {
	fields := make([]string, 0, 2+len(e.Tags))
	fields = append(fields, e.Name, e.Target)
	return append(fields, e.Tags...)
}

// ScoredEntry is a catalog entry paired with its best match score for one
// query. The JSON form carries every entry field plus "score".
type ScoredEntry struct {
	CatalogEntry
	Score float64 `json:"score"`
}
