package market

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/core/model"
)

const (
	SourceLive        = "AGMARKNET API (Real Data)"
	SourceCached      = "AGMARKNET API (Cached)"
	SourceUnavailable = "Mock Data (API unavailable)"
	SourceError       = "Mock Data (API Error)"
	SourceCommodity   = "AGMARKNET API"
	SourceNoData      = "No data"
)

type cachedPrices struct {
	prices    []model.Price
	fetchedAt time.Time
}

// Service answers price queries. Market-wide lookups are cached per
// state and market for the configured TTL; commodity lookups always go
// upstream.
type Service struct {
	fetcher  Fetcher
	cache    *gocache.Cache
	defaults model.PriceFilter
	log      *zap.Logger

	// Now is the clock used for timestamps and cache ages.
	Now func() time.Time
}

func NewService(f Fetcher, ttl time.Duration, defaults model.PriceFilter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		fetcher:  f,
		cache:    gocache.New(ttl, 2*ttl),
		defaults: defaults,
		log:      log,
		Now:      time.Now,
	}
}

func (s *Service) withDefaults(filter model.PriceFilter) model.PriceFilter {
	if filter.State == "" {
		filter.State = s.defaults.State
	}
	if filter.Market == "" {
		filter.Market = s.defaults.Market
	}
	return filter
}

func cacheKey(f model.PriceFilter) string {
	return f.State + "|" + f.Market
}

// Prices never fails: upstream problems fall back to the backup list and
// are reported in the Source and Error fields.
func (s *Service) Prices(ctx context.Context, filter model.PriceFilter) model.PriceReport {
	filter = s.withDefaults(filter)
	filter.Commodity = ""
	now := s.Now()
	key := cacheKey(filter)

	if v, ok := s.cache.Get(key); ok {
		hit := v.(cachedPrices)
		age := int(math.Round(now.Sub(hit.fetchedAt).Seconds()))
		return model.PriceReport{
			Data:      clonePrices(hit.prices),
			Source:    SourceCached,
			Timestamp: formatTime(now),
			CacheAge:  fmt.Sprintf("%d seconds", age),
		}
	}

	prices, err := s.fetcher.Fetch(ctx, filter)
	if err != nil {
		s.log.Error("error fetching market prices", zap.Error(err),
			zap.String("state", filter.State), zap.String("market", filter.Market))
		return model.PriceReport{
			Data:      s.Backup(),
			Source:    SourceError,
			Error:     err.Error(),
			Timestamp: formatTime(now),
		}
	}

	count := len(prices)
	report := model.PriceReport{
		Timestamp:   formatTime(now),
		RecordCount: &count,
		Filters:     &model.PriceFilter{State: filter.State, Market: filter.Market},
	}
	if count == 0 {
		report.Data = s.Backup()
		report.Source = SourceUnavailable
		return report
	}

	s.cache.SetDefault(key, cachedPrices{prices: clonePrices(prices), fetchedAt: now})
	report.Data = prices
	report.Source = SourceLive
	return report
}

// ByCommodity fetches prices for one commodity across markets in a state.
func (s *Service) ByCommodity(ctx context.Context, commodity, state string) (model.PriceReport, error) {
	if state == "" {
		state = s.defaults.State
	}
	filter := model.PriceFilter{State: state, Commodity: commodity}

	prices, err := s.fetcher.Fetch(ctx, filter)
	if err != nil {
		return model.PriceReport{}, errors.Wrapf(err, "fetch prices for %q", commodity)
	}

	report := model.PriceReport{
		Data:      prices,
		Source:    SourceCommodity,
		Timestamp: formatTime(s.Now()),
		Filters:   &filter,
	}
	if len(prices) == 0 {
		report.Data = []model.Price{}
		report.Source = SourceNoData
	}
	return report, nil
}

// Backup is the static price list used when the upstream API is down.
func (s *Service) Backup() []model.Price {
	ts := formatTime(s.Now())
	p := func(id, name string, lo, hi, modal, avg float64, trend string) model.Price {
		return model.Price{
			ID: id, Name: name, Market: "Ongole", State: "Andhra Pradesh",
			MinPrice: lo, MaxPrice: hi, ModalPrice: modal, AvgPrice: avg,
			Unit: unitPerKg, LastUpdated: ts, Trend: trend,
		}
	}
	return []model.Price{
		p("1", "Rice (Basmati)", 72, 78, 75, 75, "up"),
		p("2", "Chillies (Dried)", 95, 102, 98, 98.5, "up"),
		p("3", "Turmeric", 62, 68, 65, 65, "stable"),
		p("4", "Cotton", 50, 55, 52, 52.5, "up"),
		p("5", "Groundnut", 65, 70, 67, 67.5, "stable"),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func clonePrices(p []model.Price) []model.Price {
	return append([]model.Price(nil), p...)
}
