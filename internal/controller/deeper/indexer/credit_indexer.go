package indexer

import (
	"context"

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
	creditIndexer struct {
		config  *config.Config
		storage storage.FactStorage
		reader  *storageReader
		metrics *indexerMetrics
	}

	CreditIndexerParams struct {
		fx.In
		fxparams.Params
		Storage storage.FactStorage
		Decoder schema.Decoder
	}
)

func NewCreditIndexer(params CreditIndexerParams) internal.Indexer {
	logger := log.WithPackage(params.Logger).With(zap.Stringer(domainTag, api.DomainCredit))
	metrics := newIndexerMetrics(params.Metrics, api.DomainCredit, logger)
	return &creditIndexer{
		config:  params.Config,
		storage: params.Storage,
		reader: &storageReader{
			decoder: params.Decoder,
			logger:  logger,
			metrics: metrics,
		},
		metrics: metrics,
	}
}

func (i *creditIndexer) Index(ctx context.Context, batch *api.Batch) (int64, error) {
	var inserted int64
	err := i.metrics.instrumentIndex.Instrument(ctx, func(ctx context.Context) error {
		facts, err := extractBlocks(ctx, batch, i.config.Indexer.BlockParallelism, i.extract)
		if err != nil {
			return err
		}

		i.metrics.facts.Inc(int64(len(facts)))
		inserted, err = i.storage.PersistCredits(ctx, facts)
		if err != nil {
			return xerrors.Errorf("failed to persist %d credit facts: %w", len(facts), err)
		}

		i.metrics.inserted.Inc(inserted)
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to index credits of blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	return inserted, nil
}

func (i *creditIndexer) extract(batch *api.Batch, block *api.Block) []*api.CreditFact {
	accounts := extractor.CreditAccounts(block.Operations)
	facts := make([]*api.CreditFact, 0, accounts.Len())
	for _, account := range accounts.Accounts() {
		v, ok := i.reader.read(batch, block, chain.UserCreditKey(account))
		if !ok {
			continue
		}

		credit, err := extractor.CreditState(v)
		if err != nil {
			i.reader.skip(block, "skipped credit state", zap.Stringer("account", account), zap.Error(err))
			continue
		}

		facts = append(facts, &api.CreditFact{
			BlockNumber: block.Number,
			Account:     account,
			Credit:      credit,
		})
	}
	return facts
}
