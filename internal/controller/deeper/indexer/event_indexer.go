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
	eventIndexer struct {
		config  *config.Config
		storage storage.FactStorage
		reader  *storageReader
		metrics *indexerMetrics
	}

	EventIndexerParams struct {
		fx.In
		fxparams.Params
		Storage storage.FactStorage
		Decoder schema.Decoder
	}
)

func NewEventIndexer(params EventIndexerParams) internal.Indexer {
	logger := log.WithPackage(params.Logger).With(zap.Stringer(domainTag, api.DomainEvent))
	metrics := newIndexerMetrics(params.Metrics, api.DomainEvent, logger)
	return &eventIndexer{
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

func (i *eventIndexer) Index(ctx context.Context, batch *api.Batch) (int64, error) {
	var inserted int64
	err := i.metrics.instrumentIndex.Instrument(ctx, func(ctx context.Context) error {
		facts, err := extractBlocks(ctx, batch, i.config.Indexer.BlockParallelism, i.extract)
		if err != nil {
			return err
		}

		i.metrics.facts.Inc(int64(len(facts)))
		inserted, err = i.storage.PersistEvents(ctx, facts)
		if err != nil {
			return xerrors.Errorf("failed to persist %d event facts: %w", len(facts), err)
		}

		i.metrics.inserted.Inc(inserted)
		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to index events of blocks [%v, %v]: %w", batch.From(), batch.To(), err)
	}

	return inserted, nil
}

// extract reads the block's event list. Events are not tied to operations,
// so every indexable block is inspected.
func (i *eventIndexer) extract(batch *api.Batch, block *api.Block) []*api.EventFact {
	v, ok := i.reader.read(batch, block, chain.EventsKey())
	if !ok {
		return nil
	}

	records := extractor.EventRecords(v)
	facts := make([]*api.EventFact, len(records))
	for j, record := range records {
		facts[j] = &api.EventFact{
			BlockNumber: block.Number,
			EventRecord: *record,
		}
	}
	return facts
}
