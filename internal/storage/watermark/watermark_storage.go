package watermark

import (
	"context"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/storage/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage/postgres"
	"github.com/deeper-chain/deeper-archive/internal/storage/watermark/models"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	WatermarkStorageParams struct {
		fx.In
		fxparams.Params
		Client postgres.Client `name:"sink"`
	}

	// WatermarkStorage owns the progress table. The watermark is derived from it rather than stored separately,
	// so inserting the progress rows of a batch is what commits the batch.
	WatermarkStorage interface {
		PersistProgress(ctx context.Context, facts []*api.ProgressFact) (int64, error)
		// GetWatermark returns ErrItemNotFound when no block has been indexed yet.
		GetWatermark(ctx context.Context) (*api.Watermark, error)
	}

	watermarkStorageImpl struct {
		client  postgres.Client
		config  *config.Config
		logger  *zap.Logger
		metrics *watermarkStorageMetrics
	}

	watermarkStorageMetrics struct {
		watermarkHeightGauge   tally.Gauge
		instrumentGetWatermark instrument.Call
		instrumentPersist      instrument.Call
	}
)

const (
	watermarkHeightMetric = "watermark_height"
	getWatermarkName      = "get_watermark"
	persistProgressName   = "persist_progress"

	getWatermarkQuery = `SELECT MAX(block_num), MAX(block_time) FROM block_timestamp`
)

var _ WatermarkStorage = (*watermarkStorageImpl)(nil)

func NewWatermarkStorage(params WatermarkStorageParams) (WatermarkStorage, error) {
	return &watermarkStorageImpl{
		client:  params.Client,
		config:  params.Config,
		logger:  log.WithPackage(params.Logger),
		metrics: newWatermarkStorageMetrics(params.Metrics),
	}, nil
}

func newWatermarkStorageMetrics(scope tally.Scope) *watermarkStorageMetrics {
	scope = scope.SubScope("watermark_storage")
	return &watermarkStorageMetrics{
		watermarkHeightGauge:   scope.Gauge(watermarkHeightMetric),
		instrumentGetWatermark: instrument.NewCall(scope, getWatermarkName),
		instrumentPersist:      instrument.NewCall(scope, persistProgressName),
	}
}

func (s *watermarkStorageImpl) PersistProgress(ctx context.Context, facts []*api.ProgressFact) (int64, error) {
	if len(facts) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(facts))
	for i, fact := range facts {
		rows[i] = models.MakeProgressRow(fact)
	}

	var inserted int64
	if err := s.metrics.instrumentPersist.Instrument(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = s.client.BulkInsert(ctx, &postgres.BulkInsertRequest{
			Table:           postgres.TableTimestamp,
			Columns:         models.ProgressColumns,
			Rows:            rows,
			ConflictColumns: models.ProgressConflictColumns,
		})
		return err
	}); err != nil {
		return inserted, xerrors.Errorf("failed to persist progress of %d blocks: %v: %w", len(facts), err.Error(), internal.ErrSinkWrite)
	}

	s.metrics.watermarkHeightGauge.Update(float64(facts[len(facts)-1].BlockNumber))
	return inserted, nil
}

func (s *watermarkStorageImpl) GetWatermark(ctx context.Context) (*api.Watermark, error) {
	var entry models.WatermarkEntry
	if err := s.metrics.instrumentGetWatermark.Instrument(ctx, func(ctx context.Context) error {
		return s.client.QueryRow(ctx, getWatermarkQuery, nil, &entry.Height, &entry.LastBlockTime)
	}); err != nil {
		return nil, xerrors.Errorf("failed to get watermark: %w", err)
	}

	if entry.Empty() {
		return nil, internal.ErrItemNotFound
	}

	watermark := entry.AsAPI(time.Now().UTC())
	s.metrics.watermarkHeightGauge.Update(float64(watermark.Height))
	return watermark, nil
}
