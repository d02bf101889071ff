package indexer

import (
	"context"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
	"github.com/deeper-chain/deeper-archive/internal/extractor"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	balanceIndexer struct {
		config        *config.Config
		logger        *zap.Logger
		storage       storage.FactStorage
		reader        *storageReader
		metrics       *indexerMetrics
		zeroFallbacks tally.Counter
	}

	BalanceIndexerParams struct {
		fx.In
		fxparams.Params
		Storage storage.FactStorage
		Decoder schema.Decoder
	}
)

const (
	zeroFallbacksMetric = "zero_fallbacks"
)

func NewBalanceIndexer(params BalanceIndexerParams) internal.Indexer {
	logger := log.WithPackage(params.Logger).With(zap.Stringer(domainTag, api.DomainBalance))
	metrics := newIndexerMetrics(params.Metrics, api.DomainBalance, logger)
	return &balanceIndexer{
		config:  params.Config,
		logger:  logger,
		storage: params.Storage,
		reader: &storageReader{
			decoder: params.Decoder,
			logger:  logger,
			metrics: metrics,
		},
		metrics:       metrics,
		zeroFallbacks: params.Metrics.SubScope(indexerScope).Counter(zeroFallbacksMetric),
	}
}

func (i *balanceIndexer) Index(ctx context.Context, batch *api.Batch) (int64, error) {
	var inserted int64
	err := i.metrics.instrumentIndex.Instrument(ctx, func(ctx context.Context) error {
		facts, err := extractBlocks(ctx, batch, i.config.Indexer.BlockParallelism, i.extract)
		if err != nil {
			return err
		}

		i.metrics.facts.Inc(int64(len(facts)))
		inserted, err = i.storage.PersistBalances(ctx, facts)
		if err != nil {
			return xerrors.Errorf("failed to persist %d balance facts: %w", len(facts), err)
		}

		i.metrics.inserted.Inc(inserted)
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to index balances of blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	return inserted, nil
}

func (i *balanceIndexer) extract(batch *api.Batch, block *api.Block) []*api.BalanceFact {
	accounts := extractor.BalanceAccounts(block.Operations)
	facts := make([]*api.BalanceFact, 0, accounts.Len())
	for _, account := range accounts.Accounts() {
		v, ok := i.reader.read(batch, block, chain.SystemAccountKey(account))
		if !ok {
			continue
		}

		state, err := extractor.BalanceState(v)
		if err != nil {
			if i.config.Indexer.StrictBalanceState || !isShapeMismatch(err) {
				i.reader.skip(block, "skipped balance state", zap.Stringer("account", account), zap.Error(err))
				continue
			}

			i.zeroFallbacks.Inc(1)
			i.logger.Warn(
				"unrecognized account record, writing zero balance",
				zap.Uint64("block", block.Number),
				zap.Stringer("account", account),
				zap.Error(err),
			)
		}

		facts = append(facts, &api.BalanceFact{
			BlockNumber:  block.Number,
			Account:      account,
			BalanceState: state,
		})
	}
	return facts
}
