package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/core/catalog"
	"github.com/agri365/agri365/internal/core/model"
	"github.com/agri365/agri365/internal/core/similarity"
	"github.com/agri365/agri365/internal/logging"
)

const (
	// DefaultThreshold is the minimum score (exclusive) for a result.
	DefaultThreshold = 0.25

	// Algorithm names the scoring method in search responses.
	Algorithm = "Dice's Coefficient Fuzzy Search"
)

// ErrInvalidRequest is returned for a missing or empty query.
var ErrInvalidRequest = errors.New("invalid request")

type Options struct {
	// Threshold outside (0, 1) falls back to DefaultThreshold.
	Threshold float64
	// Limit caps the number of results; zero means no cap.
	Limit int
}

// Matcher ranks catalog entries against free-text queries. It holds no
// mutable state and may be used from many goroutines at once.
type Matcher struct {
	Catalog   *catalog.Catalog
	threshold float64
	limit     int
	log       *zap.Logger
}

func NewMatcher(c *catalog.Catalog, opts Options, log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	limit := opts.Limit
	if limit < 0 {
		limit = 0
	}
	return &Matcher{Catalog: c, threshold: threshold, limit: limit, log: log}
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// Search scores every catalog entry against query, keeps those scoring
// strictly above the threshold and returns them best first. Entries with
// equal scores stay in catalog order. No matches is an empty, non-nil
// slice.
func (m *Matcher) Search(ctx context.Context, query string) ([]model.ScoredEntry, error) {
	if query == "" {
		return nil, errors.WithHint(errors.Wrap(ErrInvalidRequest, "query required"),
			"send a non-empty \"query\" string")
	}
	start := time.Now()
	q := strings.ToLower(query)

	scored := make([]model.ScoredEntry, 0, m.Catalog.Len())
	err := m.Catalog.Each(func(i int, e model.CatalogEntry) error {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "search interrupted after %d entries", i)
		}
		scored = append(scored, model.ScoredEntry{CatalogEntry: e.Clone(), Score: ScoreEntry(q, e)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := rankScored(scored, m.threshold)
	if m.limit > 0 && len(results) > m.limit {
		results = results[:m.limit]
	}

	m.log.Debug("search completed",
		zap.String(logging.FieldQuery, query),
		zap.Int(logging.FieldCount, len(results)),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	return results, nil
}

// ScoreEntry returns the best similarity between query and any of the
// entry's searchable fields.
func ScoreEntry(query string, e model.CatalogEntry) float64 {
	best := 0.0
	for _, field := range e.SearchFields() {
		if s := similarity.Dice(query, field); s > best {
			best = s
		}
	}
	return best
}

// rankScored drops entries at or below threshold and stable-sorts the rest
// by descending score.
func rankScored(scored []model.ScoredEntry, threshold float64) []model.ScoredEntry {
	out := make([]model.ScoredEntry, 0, len(scored))
	for _, s := range scored {
		if s.Score > threshold {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
