// Package bootstrap turns configuration into the long-lived components
// shared by the server and the CLI.
package bootstrap

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/config"
	"github.com/agri365/agri365/internal/core"
	"github.com/agri365/agri365/internal/core/catalog"
	"github.com/agri365/agri365/internal/core/model"
	"github.com/agri365/agri365/internal/driver"
	"github.com/agri365/agri365/internal/logging"
	"github.com/agri365/agri365/internal/market"
)

// DialGraph is swapped in tests.
var DialGraph = func(ctx context.Context, cfg config.MemgraphConfig, log *zap.Logger) (driver.GraphDriver, error) {
	return driver.NewMemgraphDriver(ctx, cfg.URI, cfg.User, cfg.Password, log)
}

// CatalogSource picks the source named in cfg. The returned close func
// releases any database connection and is never nil.
func CatalogSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Source, func(), error) {
	noop := func() {}
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return catalog.FileSource{Path: cfg.Catalog.Path}, noop, nil
	case config.CatalogMemgraph:
		d, err := DialGraph(ctx, cfg.Memgraph, log)
		if err != nil {
			return nil, noop, err
		}
		return catalog.GraphSource{Driver: d}, func() { _ = d.Close(context.Background()) }, nil
	default:
		return catalog.StaticSource(catalog.DefaultEntries()), noop, nil
	}
}

// OpenCatalog loads the configured catalog once. Database connections are
// closed before returning since the catalog is held in memory afterwards.
func OpenCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	src, closeSrc, err := CatalogSource(ctx, cfg, log)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s catalog source", cfg.Catalog.Source)
	}
	defer closeSrc()

	c, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded",
		zap.String(logging.FieldSource, cfg.Catalog.Source),
		zap.Int(logging.FieldCount, c.Len()))
	return c, nil
}

func NewMatcher(c *catalog.Catalog, cfg *config.Config, log *zap.Logger) *core.Matcher {
	return core.NewMatcher(c, core.Options{
		Threshold: cfg.Search.Threshold,
		Limit:     cfg.Search.Limit,
	}, log)
}

func NewMarketService(cfg *config.Config, log *zap.Logger) *market.Service {
	m := cfg.Market
	client := market.NewAgmarknetClient(m.BaseURL, m.ResourceID, m.APIKey, m.Timeout.Duration)
	return market.NewService(client, m.CacheTTL.Duration,
		model.PriceFilter{State: m.State, Market: m.Market}, log)
}
