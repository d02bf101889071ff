package indexer

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
	"github.com/deeper-chain/deeper-archive/internal/extractor"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	// timestampIndexer writes the progress rows the watermark is derived from.
	// Unlike the fact indexers it covers every block of the batch, excluded and corrupted ones included.
	timestampIndexer struct {
		logger  *zap.Logger
		storage storage.WatermarkStorage
		metrics *indexerMetrics
	}

	TimestampIndexerParams struct {
		fx.In
		fxparams.Params
		Storage storage.WatermarkStorage
	}
)

func NewTimestampIndexer(params TimestampIndexerParams) internal.Indexer {
	logger := log.WithPackage(params.Logger).With(zap.Stringer(domainTag, api.DomainTimestamp))
	return &timestampIndexer{
		logger:  logger,
		storage: params.Storage,
		metrics: newIndexerMetrics(params.Metrics, api.DomainTimestamp, logger),
	}
}

func (i *timestampIndexer) Index(ctx context.Context, batch *api.Batch) (int64, error) {
	facts := make([]*api.ProgressFact, len(batch.Blocks))
	for j, block := range batch.Blocks {
		fact := &api.ProgressFact{BlockNumber: block.Number}
		if blockTime, ok := extractor.BlockTimestamp(block.Operations); ok {
			fact.BlockTime = &blockTime
		}
		facts[j] = fact
	}

	var inserted int64
	err := i.metrics.instrumentIndex.Instrument(ctx, func(ctx context.Context) error {
		i.metrics.facts.Inc(int64(len(facts)))

		var err error
		inserted, err = i.storage.PersistProgress(ctx, facts)
		if err != nil {
			return xerrors.Errorf("failed to persist %d progress facts: %w", len(facts), err)
		}

		i.metrics.inserted.Inc(inserted)
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to index progress of blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	return inserted, nil
}
