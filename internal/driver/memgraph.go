package driver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	log    *zap.Logger
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string, log *zap.Logger) (*MemgraphDriver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrapf(err, "create driver for %s", uri)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.WithHint(
			errors.Wrapf(err, "connect to %s", uri),
			"check MEMGRAPH_URI and that the database is running")
	}

	log.Info("connected to memgraph", zap.String("uri", uri))
	return &MemgraphDriver{Driver: driver, log: log}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, errors.Wrap(err, "failed to execute query")
	}
	return *result, nil
}

func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :CatalogEntry(name);",
		"CREATE INDEX ON :CatalogEntry(type);",
		"CREATE INDEX ON :CatalogEntry(position);",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Memgraph errors when the index already exists.
			d.log.Warn("failed to create index", zap.String("query", q), zap.Error(err))
		}
	}

	return nil
}
