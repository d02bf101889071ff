package crontask

import (
	"context"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
	"github.com/deeper-chain/deeper-archive/internal/utils/syncgroup"
)

const (
	slaScope  = "sla"
	slaMetric = "sla"

	outOfSLAMsg = "out_of_sla"
	expectedTag = "expected"
	actualTag   = "actual"

	severityTag = "severity"
	sev1        = "sev1"
	sev2        = "sev2"

	resultTypeTag     = "result_type"
	resultTypeSuccess = "success"
	resultTypeError   = "error"

	slaTypeTag               = "sla_type"
	blockHeightDeltaMetric   = "block_height_delta"
	timeSinceLastBlockMetric = "time_since_last_block"

	slaTypeLoggerTag = "slaType"
)

var (
	errSkipped = xerrors.New("skipped")
)

type (
	SLATaskParams struct {
		fx.In
		fxparams.Params
		Watermarker   internal.Watermarker
		SourceStorage storage.SourceStorage
	}

	slaTask struct {
		enabled       bool
		spec          string
		watermarker   internal.Watermarker
		sourceStorage storage.SourceStorage
		cfg           *config.Config
		logger        *zap.Logger
		metrics       *slaMetrics
		now           func() time.Time
	}

	slaMetrics struct {
		blockHeightDelta            tally.Gauge
		blockHeightDeltaWithinSLA   tally.Counter
		blockHeightDeltaOutOfSLA    tally.Counter
		timeSinceLastBlock          tally.Gauge
		timeSinceLastBlockWithinSLA tally.Counter
		timeSinceLastBlockOutOfSLA  tally.Counter
	}
)

func NewSLATask(params SLATaskParams) (internal.CronTask, error) {
	return &slaTask{
		enabled:       !params.Config.Cron.DisableSLA,
		spec:          params.Config.Cron.SLASpec,
		watermarker:   params.Watermarker,
		sourceStorage: params.SourceStorage,
		cfg:           params.Config,
		logger:        log.WithPackage(params.Logger),
		metrics:       newSLAMetrics(params.Metrics),
		now:           time.Now,
	}, nil
}

func newSLAMetrics(rootScope tally.Scope) *slaMetrics {
	scope := rootScope.SubScope(slaScope)

	newSLACounter := func(sla string, severity string, resultType string) tally.Counter {
		return rootScope.Tagged(map[string]string{
			slaTypeTag:    sla,
			severityTag:   severity,
			resultTypeTag: resultType,
		}).Counter(slaMetric)
	}

	return &slaMetrics{
		blockHeightDelta:            scope.Gauge(blockHeightDeltaMetric),
		blockHeightDeltaWithinSLA:   newSLACounter(blockHeightDeltaMetric, sev1, resultTypeSuccess),
		blockHeightDeltaOutOfSLA:    newSLACounter(blockHeightDeltaMetric, sev1, resultTypeError),
		timeSinceLastBlock:          scope.Gauge(timeSinceLastBlockMetric),
		timeSinceLastBlockWithinSLA: newSLACounter(timeSinceLastBlockMetric, sev2, resultTypeSuccess),
		timeSinceLastBlockOutOfSLA:  newSLACounter(timeSinceLastBlockMetric, sev2, resultTypeError),
	}
}

func (t *slaTask) Name() string {
	return "sla"
}

func (t *slaTask) Spec() string {
	return t.spec
}

func (t *slaTask) Parallelism() int64 {
	return 1
}

func (t *slaTask) Enabled() bool {
	return t.enabled
}

func (t *slaTask) DelayStartDuration() time.Duration {
	return 0
}

func (t *slaTask) Run(ctx context.Context) error {
	now := t.now()
	sla := t.cfg.SLA
	group, ctx := syncgroup.New(ctx)

	var watermark *api.Watermark
	group.Go(func() error {
		w, err := t.watermarker.Get(ctx)
		if err != nil {
			return xerrors.Errorf("failed to get watermark: %w", err)
		}
		watermark = w
		return nil
	})

	var latestBlock uint64
	group.Go(func() error {
		height, err := t.sourceStorage.GetLatestBlock(ctx)
		if err != nil {
			if xerrors.Is(err, storage.ErrItemNotFound) {
				t.logger.Info("no block archived yet")
				return errSkipped
			}
			return xerrors.Errorf("failed to get latest archived block: %w", err)
		}
		latestBlock = height
		return nil
	})

	if err := group.Wait(); err != nil {
		if xerrors.Is(err, errSkipped) {
			return nil
		}
		return xerrors.Errorf("failed to finish sla task: %w", err)
	}

	// Clamped at zero while the archive lags behind the watermark.
	var blockHeightDelta uint64
	if latestBlock > watermark.Height {
		blockHeightDelta = latestBlock - watermark.Height
	}
	t.metrics.blockHeightDelta.Update(float64(blockHeightDelta))
	if blockHeightDelta < sla.BlockHeightDelta {
		t.metrics.blockHeightDeltaWithinSLA.Inc(1)
	} else {
		t.metrics.blockHeightDeltaOutOfSLA.Inc(1)
		t.logger.Warn(
			outOfSLAMsg,
			zap.Uint64("watermark", watermark.Height),
			zap.Uint64("archiveHeight", latestBlock),
			zap.String(slaTypeLoggerTag, blockHeightDeltaMetric),
			zap.Uint64(expectedTag, sla.BlockHeightDelta),
			zap.Uint64(actualTag, blockHeightDelta),
		)
	}

	var timeSinceLastBlock time.Duration
	if !watermark.LastBlockTime.IsZero() {
		timeSinceLastBlock = now.Sub(watermark.LastBlockTime)
		t.metrics.timeSinceLastBlock.Update(timeSinceLastBlock.Seconds())
		if timeSinceLastBlock < sla.TimeSinceLastBlock {
			t.metrics.timeSinceLastBlockWithinSLA.Inc(1)
		} else {
			t.metrics.timeSinceLastBlockOutOfSLA.Inc(1)
			t.logger.Warn(
				outOfSLAMsg,
				zap.Uint64("watermark", watermark.Height),
				zap.Time("lastBlockTime", watermark.LastBlockTime),
				zap.String(slaTypeLoggerTag, timeSinceLastBlockMetric),
				zap.String(expectedTag, sla.TimeSinceLastBlock.String()),
				zap.String(actualTag, timeSinceLastBlock.String()),
			)
		}
	}

	t.logger.Info(
		"finished sla task",
		zap.Uint64("blockHeightDelta", blockHeightDelta),
		zap.String("timeSinceLastBlock", timeSinceLastBlock.String()),
	)

	return nil
}
