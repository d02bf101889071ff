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
	delegationIndexer struct {
		config  *config.Config
		storage storage.FactStorage
		reader  *storageReader
		metrics *indexerMetrics
	}

	DelegationIndexerParams struct {
		fx.In
		fxparams.Params
		Storage storage.FactStorage
		Decoder schema.Decoder
	}
)

func NewDelegationIndexer(params DelegationIndexerParams) internal.Indexer {
	logger := log.WithPackage(params.Logger).With(zap.Stringer(domainTag, api.DomainDelegation))
	metrics := newIndexerMetrics(params.Metrics, api.DomainDelegation, logger)
	return &delegationIndexer{
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

func (i *delegationIndexer) Index(ctx context.Context, batch *api.Batch) (int64, error) {
	var inserted int64
	err := i.metrics.instrumentIndex.Instrument(ctx, func(ctx context.Context) error {
		facts, err := extractBlocks(ctx, batch, i.config.Indexer.BlockParallelism, i.extract)
		if err != nil {
			return err
		}

		i.metrics.facts.Inc(int64(len(facts)))
		inserted, err = i.storage.PersistDelegations(ctx, facts)
		if err != nil {
			return xerrors.Errorf("failed to persist %d delegation facts: %w", len(facts), err)
		}

		i.metrics.inserted.Inc(inserted)
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to index delegations of blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	return inserted, nil
}

// extract writes one row per delegator whose record is present in the block's storage.
// A record without validators yields an empty list.
func (i *delegationIndexer) extract(batch *api.Batch, block *api.Block) []*api.DelegationFact {
	accounts := extractor.DelegationAccounts(block.Operations)
	facts := make([]*api.DelegationFact, 0, accounts.Len())
	for _, delegator := range accounts.Accounts() {
		v, ok := i.reader.read(batch, block, chain.DelegatorKey(delegator))
		if !ok {
			continue
		}

		facts = append(facts, &api.DelegationFact{
			BlockNumber: block.Number,
			Delegator:   delegator,
			Validators:  extractor.ValidatorSet(v),
		})
	}
	return facts
}
