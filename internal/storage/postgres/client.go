package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
	"github.com/deeper-chain/deeper-archive/internal/utils/retry"
)

type (
	// Client is the narrow database surface used by the storage packages.
	Client interface {
		// Query runs the query and calls scan once per result row.
		Query(ctx context.Context, query string, args []any, scan ScanFn) error
		// QueryRow scans a single row into dest. ErrItemNotFound is returned when there is no row.
		QueryRow(ctx context.Context, query string, args []any, dest ...any) error
		Exec(ctx context.Context, query string, args ...any) (int64, error)
		// BulkInsert writes the rows in chunks of multi-row inserts and returns the number of inserted rows.
		BulkInsert(ctx context.Context, request *BulkInsertRequest) (int64, error)
		Close()
	}

	// Row is the subset of pgx.Row the scan callbacks need.
	Row interface {
		Scan(dest ...any) error
	}

	ScanFn func(row Row) error

	clientImpl struct {
		name    string
		pool    *pgxpool.Pool
		config  *config.DatabaseConfig
		retry   retry.Retry
		logger  *zap.Logger
		metrics *clientMetrics
	}

	clientMetrics struct {
		query      instrument.Call
		queryRow   instrument.Call
		exec       instrument.Call
		bulkInsert instrument.Call
		rowsWrite  tally.Counter
	}
)

var _ Client = (*clientImpl)(nil)

// NewClient connects a pool with the given settings. name is used to tag the metrics, e.g. "source".
func NewClient(
	ctx context.Context,
	name string,
	pgConfig *config.PostgresConfig,
	dbConfig *config.DatabaseConfig,
	logger *zap.Logger,
	scope tally.Scope,
) (Client, error) {
	poolConfig, err := pgxpool.ParseConfig(pgConfig.URL)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse %v database url: %w", name, err)
	}

	if pgConfig.MaxConns > 0 {
		poolConfig.MaxConns = pgConfig.MaxConns
	}
	if pgConfig.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = pgConfig.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, xerrors.Errorf("failed to create %v pool: %w", name, err)
	}

	logger = log.WithPackage(logger).With(zap.String("database", name))
	return &clientImpl{
		name:    name,
		pool:    pool,
		config:  dbConfig,
		retry:   dbConfig.Retry.NewRetry(retry.WithLogger(logger)),
		logger:  logger,
		metrics: newClientMetrics(scope.Tagged(map[string]string{"database": name})),
	}, nil
}

func newClientMetrics(scope tally.Scope) *clientMetrics {
	scope = scope.SubScope("postgres")
	notFound := instrument.WithFilter(func(err error) bool {
		return xerrors.Is(err, internal.ErrItemNotFound)
	})
	return &clientMetrics{
		query:      instrument.NewCall(scope, "query"),
		queryRow:   instrument.NewCall(scope, "query_row", notFound),
		exec:       instrument.NewCall(scope, "exec"),
		bulkInsert: instrument.NewCall(scope, "bulk_insert"),
		rowsWrite:  scope.Counter("rows_written"),
	}
}

func (c *clientImpl) Query(ctx context.Context, query string, args []any, scan ScanFn) error {
	return c.metrics.query.Instrument(ctx, func(ctx context.Context) error {
		rows, err := c.pool.Query(ctx, query, args...)
		if err != nil {
			return mapError(err)
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return xerrors.Errorf("failed to scan row: %w", err)
			}
		}

		if err := rows.Err(); err != nil {
			return mapError(err)
		}
		return nil
	})
}

func (c *clientImpl) QueryRow(ctx context.Context, query string, args []any, dest ...any) error {
	return c.metrics.queryRow.Instrument(ctx, func(ctx context.Context) error {
		if err := c.pool.QueryRow(ctx, query, args...).Scan(dest...); err != nil {
			if xerrors.Is(err, pgx.ErrNoRows) {
				return internal.ErrItemNotFound
			}
			return mapError(err)
		}
		return nil
	})
}

func (c *clientImpl) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := c.metrics.exec.Instrument(ctx, func(ctx context.Context) error {
		return c.retry.Retry(ctx, func(ctx context.Context) error {
			tag, err := c.pool.Exec(ctx, query, args...)
			if err != nil {
				return mapError(err)
			}
			affected = tag.RowsAffected()
			return nil
		})
	})
	return affected, err
}

func (c *clientImpl) BulkInsert(ctx context.Context, request *BulkInsertRequest) (int64, error) {
	if err := request.Validate(); err != nil {
		return 0, xerrors.Errorf("invalid bulk insert into %v: %w", request.Table, err)
	}

	var inserted int64
	err := c.metrics.bulkInsert.Instrument(ctx, func(ctx context.Context) error {
		maxRows := c.config.MaxRowsPerInsert(len(request.Columns))
		for _, chunk := range request.Chunks(maxRows) {
			query, args := chunk.SQL()
			err := c.retry.Retry(ctx, func(ctx context.Context) error {
				tag, err := c.pool.Exec(ctx, query, args...)
				if err != nil {
					return mapError(err)
				}
				inserted += tag.RowsAffected()
				return nil
			})
			if err != nil {
				return xerrors.Errorf("failed to insert %d rows into %v: %w", len(chunk.Rows), request.Table, err)
			}
		}
		return nil
	})
	if err != nil {
		return inserted, err
	}

	c.metrics.rowsWrite.Inc(inserted)
	c.logger.Debug(
		"bulk insert",
		zap.String("table", request.Table),
		zap.Int("rows", len(request.Rows)),
		zap.Int64("inserted", inserted),
	)
	return inserted, nil
}

func (c *clientImpl) Close() {
	c.pool.Close()
}
