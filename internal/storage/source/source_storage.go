package source

import (
	"context"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage/postgres"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	// SourceStorage reads the archive tables. It never writes.
	SourceStorage interface {
		// GetBlocks returns up to limit blocks with a number greater than after, in ascending order.
		GetBlocks(ctx context.Context, after uint64, limit uint64) ([]*BlockRecord, error)
		// GetExtrinsics returns the raw operations payload of every block in [from, to].
		GetExtrinsics(ctx context.Context, from uint64, to uint64) (map[uint64][]byte, error)
		// GetStorage returns every storage row recorded for a block in [from, to].
		GetStorage(ctx context.Context, from uint64, to uint64) ([]*api.StorageEntry, error)
		GetSchemas(ctx context.Context) ([]*schema.Schema, error)
		// GetLatestBlock returns the highest archived block number.
		GetLatestBlock(ctx context.Context) (uint64, error)
	}

	BlockRecord struct {
		Number      uint64
		SpecVersion uint32
	}

	SourceStorageParams struct {
		fx.In
		fxparams.Params
		Client postgres.Client `name:"source"`
	}

	sourceStorageImpl struct {
		client  postgres.Client
		logger  *zap.Logger
		metrics *sourceStorageMetrics
	}

	sourceStorageMetrics struct {
		getBlocks      instrument.Call
		getExtrinsics  instrument.Call
		getStorage     instrument.Call
		getSchemas     instrument.Call
		getLatestBlock instrument.Call
		storageRows    tally.Counter
	}
)

const (
	getBlocksQuery = `SELECT block_num, spec FROM blocks WHERE block_num > $1 ORDER BY block_num ASC LIMIT $2`

	getExtrinsicsQuery = `SELECT number, extrinsics::text FROM extrinsics WHERE number BETWEEN $1 AND $2 ORDER BY number ASC`

	getStorageQuery = `SELECT block_num, key, storage FROM storage WHERE block_num BETWEEN $1 AND $2 ORDER BY block_num ASC`

	getSchemasQuery = `SELECT version, meta FROM metadata ORDER BY version ASC`

	getLatestBlockQuery = `SELECT block_num FROM blocks ORDER BY block_num DESC LIMIT 1`
)

var _ SourceStorage = (*sourceStorageImpl)(nil)

func NewSourceStorage(params SourceStorageParams) (SourceStorage, error) {
	return &sourceStorageImpl{
		client:  params.Client,
		logger:  log.WithPackage(params.Logger),
		metrics: newSourceStorageMetrics(params.Metrics),
	}, nil
}

func newSourceStorageMetrics(scope tally.Scope) *sourceStorageMetrics {
	scope = scope.SubScope("source_storage")
	return &sourceStorageMetrics{
		getBlocks:      instrument.NewCall(scope, "get_blocks"),
		getExtrinsics:  instrument.NewCall(scope, "get_extrinsics"),
		getStorage:     instrument.NewCall(scope, "get_storage"),
		getSchemas:     instrument.NewCall(scope, "get_schemas"),
		getLatestBlock: instrument.NewCall(scope, "get_latest_block"),
		storageRows:    scope.Counter("storage_rows"),
	}
}

func (s *sourceStorageImpl) GetBlocks(ctx context.Context, after uint64, limit uint64) ([]*BlockRecord, error) {
	var blocks []*BlockRecord
	err := s.metrics.getBlocks.Instrument(ctx, func(ctx context.Context) error {
		blocks = make([]*BlockRecord, 0, limit)
		return s.client.Query(ctx, getBlocksQuery, []any{int64(after), int64(limit)}, func(row postgres.Row) error {
			var number int64
			var spec int32
			if err := row.Scan(&number, &spec); err != nil {
				return err
			}

			blocks = append(blocks, &BlockRecord{
				Number:      uint64(number),
				SpecVersion: uint32(spec),
			})
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to get blocks after %d: %v: %w", after, err.Error(), internal.ErrSourceFetch)
	}

	return blocks, nil
}

func (s *sourceStorageImpl) GetExtrinsics(ctx context.Context, from uint64, to uint64) (map[uint64][]byte, error) {
	payloads := make(map[uint64][]byte)
	err := s.metrics.getExtrinsics.Instrument(ctx, func(ctx context.Context) error {
		return s.client.Query(ctx, getExtrinsicsQuery, []any{int64(from), int64(to)}, func(row postgres.Row) error {
			var number int64
			var payload *string
			if err := row.Scan(&number, &payload); err != nil {
				return err
			}

			if payload != nil {
				payloads[uint64(number)] = []byte(*payload)
			}
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to get extrinsics in [%d, %d]: %v: %w", from, to, err.Error(), internal.ErrSourceFetch)
	}

	return payloads, nil
}

func (s *sourceStorageImpl) GetStorage(ctx context.Context, from uint64, to uint64) ([]*api.StorageEntry, error) {
	var entries []*api.StorageEntry
	err := s.metrics.getStorage.Instrument(ctx, func(ctx context.Context) error {
		return s.client.Query(ctx, getStorageQuery, []any{int64(from), int64(to)}, func(row postgres.Row) error {
			var number int64
			var key, data []byte
			if err := row.Scan(&number, &key, &data); err != nil {
				return err
			}

			entries = append(entries, &api.StorageEntry{
				BlockNumber: uint64(number),
				Key:         key,
				Data:        data,
			})
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to get storage in [%d, %d]: %v: %w", from, to, err.Error(), internal.ErrSourceFetch)
	}

	s.metrics.storageRows.Inc(int64(len(entries)))
	return entries, nil
}

func (s *sourceStorageImpl) GetSchemas(ctx context.Context) ([]*schema.Schema, error) {
	var schemas []*schema.Schema
	err := s.metrics.getSchemas.Instrument(ctx, func(ctx context.Context) error {
		return s.client.Query(ctx, getSchemasQuery, nil, func(row postgres.Row) error {
			var version int32
			var blob []byte
			if err := row.Scan(&version, &blob); err != nil {
				return err
			}

			schemas = append(schemas, &schema.Schema{
				SpecVersion: uint32(version),
				Blob:        blob,
			})
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to get schemas: %v: %w", err.Error(), internal.ErrSourceFetch)
	}

	return schemas, nil
}

func (s *sourceStorageImpl) GetLatestBlock(ctx context.Context) (uint64, error) {
	var number int64
	err := s.metrics.getLatestBlock.Instrument(ctx, func(ctx context.Context) error {
		return s.client.QueryRow(ctx, getLatestBlockQuery, nil, &number)
	})
	if err != nil {
		if xerrors.Is(err, internal.ErrItemNotFound) {
			return 0, err
		}
		return 0, xerrors.Errorf("failed to get latest block: %v: %w", err.Error(), internal.ErrSourceFetch)
	}

	return uint64(number), nil
}
