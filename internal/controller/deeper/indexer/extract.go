package indexer

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/syncgroup"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

type (
	blockExtractor[T any] func(batch *api.Batch, block *api.Block) []T

	// storageReader looks up and decodes the storage entries referenced by the extractors.
	storageReader struct {
		decoder schema.Decoder
		logger  *zap.Logger
		metrics *indexerMetrics
	}

	indexerMetrics struct {
		instrumentIndex instrument.Call
		facts           tally.Counter
		inserted        tally.Counter
		missingStorage  tally.Counter
		decodeErrors    tally.Counter
		skippedRecords  tally.Counter
	}
)

const (
	indexerScope = "indexer"
	domainTag    = "domain"

	indexMetric          = "index"
	factsMetric          = "facts"
	insertedMetric       = "inserted"
	missingStorageMetric = "missing_storage"
	decodeErrorsMetric   = "decode_errors"
	skippedRecordsMetric = "skipped_records"
)

func newIndexerMetrics(scope tally.Scope, domain api.Domain, logger *zap.Logger) *indexerMetrics {
	scope = scope.SubScope(indexerScope).Tagged(map[string]string{domainTag: domain.String()})
	return &indexerMetrics{
		instrumentIndex: instrument.NewCall(scope, indexMetric, instrument.WithLogger(logger, "indexer.index")),
		facts:           scope.Counter(factsMetric),
		inserted:        scope.Counter(insertedMetric),
		missingStorage:  scope.Counter(missingStorageMetric),
		decodeErrors:    scope.Counter(decodeErrorsMetric),
		skippedRecords:  scope.Counter(skippedRecordsMetric),
	}
}

// extractBlocks runs extract on every indexable block of the batch, at most parallelism blocks at a time,
// and concatenates the results in block order.
func extractBlocks[T any](ctx context.Context, batch *api.Batch, parallelism int, extract blockExtractor[T]) ([]T, error) {
	results := make([][]T, len(batch.Blocks))
	group, ctx := syncgroup.New(ctx, syncgroup.WithThrottling(parallelism))
	for i, block := range batch.Blocks {
		if !block.Indexable() {
			continue
		}

		i, block := i, block
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = extract(batch, block)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, xerrors.Errorf("failed to extract blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	var facts []T
	for _, result := range results {
		facts = append(facts, result...)
	}
	return facts, nil
}

// read returns the decoded storage value recorded for key at the block.
// A missing entry or a value that cannot be decoded yields false.
func (r *storageReader) read(batch *api.Batch, block *api.Block, key []byte) (*value.Value, bool) {
	entry, ok := batch.Lookup(block.Number, key)
	if !ok {
		r.metrics.missingStorage.Inc(1)
		return nil, false
	}

	v, err := r.decoder.DecodeStorage(block.Schema, key, entry.Data)
	if err != nil {
		r.metrics.decodeErrors.Inc(1)
		log := r.logger.Debug
		if xerrors.Is(err, schema.ErrUnsupportedSchema) {
			log = r.logger.Warn
		}
		log(
			"failed to decode storage entry",
			zap.Uint64("block", block.Number),
			zap.String("key", hexutil.Encode(key)),
			zap.Error(err),
		)
		return nil, false
	}

	return v, true
}

// skip records a fact that could not be extracted from a decoded value.
func (r *storageReader) skip(block *api.Block, msg string, fields ...zap.Field) {
	r.metrics.skippedRecords.Inc(1)
	r.logger.Debug(msg, append(fields, zap.Uint64("block", block.Number))...)
}

func isShapeMismatch(err error) bool {
	return xerrors.Is(err, value.ErrShapeMismatch)
}
