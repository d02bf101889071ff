package workflow

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/workflow/activity"
)

type (
	// Ingestor runs one batch of the indexer pipeline: select the range after the watermark,
	// join its storage, extract every enabled domain and finally advance the watermark.
	Ingestor struct {
		baseWorkflow
		rangeSelector   *activity.RangeSelector
		storageJoiner   *activity.StorageJoiner
		transformer     *activity.Transformer
		watermarkWriter *activity.WatermarkWriter
	}

	IngestorParams struct {
		fx.In
		fxparams.Params
		RangeSelector   *activity.RangeSelector
		StorageJoiner   *activity.StorageJoiner
		Transformer     *activity.Transformer
		WatermarkWriter *activity.WatermarkWriter
	}

	IngestorRequest struct {
		BatchSize          uint64       `validate:"required"`
		Domains            []api.Domain `validate:"required,min=1"`
		Parallelism        int
		HaltOnCorruptBlock bool
	}

	IngestorResult struct {
		// From and To are zero when there was nothing to index.
		From      uint64
		To        uint64
		Watermark uint64
		Blocks    int
		Excluded  int
		Corrupted int
		Inserted  map[api.Domain]int64
		// Degraded is set when the operations or the storage of the range could not be fetched.
		Degraded bool
		Halted   bool
		// Partial is set when the request skipped a fact domain. The watermark is left untouched.
		Partial bool
	}
)

const (
	ingestorName = "ingestor"

	ingestorWatermarkGauge          = "watermark"
	ingestorTimeSinceLastBlockGauge = "time_since_last_block"
	ingestorBlockCounter            = "blocks"
	ingestorExcludedCounter         = "excluded_blocks"
	ingestorCorruptedCounter        = "corrupted_blocks"
	ingestorDegradedCounter         = "degraded_batches"
	ingestorInsertedCounter         = "inserted"
	ingestorDomainTag               = "domain"
)

func NewIngestor(params IngestorParams) *Ingestor {
	return &Ingestor{
		baseWorkflow:    newBaseWorkflow(ingestorName, params.Config, params.Logger, params.Metrics),
		rangeSelector:   params.RangeSelector,
		storageJoiner:   params.StorageJoiner,
		transformer:     params.Transformer,
		watermarkWriter: params.WatermarkWriter,
	}
}

// NewRequest builds a request over every fact domain from the indexer config.
func (w *Ingestor) NewRequest() *IngestorRequest {
	cfg := w.config.Indexer
	return &IngestorRequest{
		BatchSize:          cfg.BatchSize,
		Domains:            append([]api.Domain(nil), api.FactDomains...),
		Parallelism:        cfg.Parallelism,
		HaltOnCorruptBlock: cfg.HaltOnCorruptBlock,
	}
}

// Partial reports whether some fact domain is left out of the request.
// The watermark is shared by all the domains, so a partial run must not advance it.
func (r *IngestorRequest) Partial() bool {
	requested := make(map[api.Domain]struct{}, len(r.Domains))
	for _, domain := range r.Domains {
		requested[domain] = struct{}{}
	}

	for _, domain := range api.FactDomains {
		if _, ok := requested[domain]; !ok {
			return true
		}
	}
	return false
}

func (w *Ingestor) Execute(ctx context.Context, request *IngestorRequest) (*IngestorResult, error) {
	var result *IngestorResult
	err := w.executeWorkflow(ctx, request, func(ctx context.Context) error {
		var err error
		result, err = w.execute(ctx, request)
		return err
	})
	return result, err
}

func (w *Ingestor) execute(ctx context.Context, request *IngestorRequest) (*IngestorResult, error) {
	selected, err := w.rangeSelector.Execute(ctx, &activity.RangeSelectorRequest{
		BatchSize: request.BatchSize,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to select range: %w", err)
	}

	batch := selected.Batch
	result := &IngestorResult{
		Watermark: batch.Watermark,
		Blocks:    len(batch.Blocks),
		Excluded:  selected.Excluded,
		Corrupted: selected.Corrupted,
		Inserted:  make(map[api.Domain]int64),
	}
	if batch.Empty() {
		w.reportWatermark(selected.Watermark)
		return result, nil
	}

	result.From = batch.From()
	result.To = batch.To()
	logger := w.logger.With(zap.Uint64("from", result.From), zap.Uint64("to", result.To))
	logger.Info(
		"selected range",
		zap.Uint64("watermark", batch.Watermark),
		zap.Int("excluded", selected.Excluded),
		zap.Int("corrupted", selected.Corrupted),
	)

	joined, err := w.storageJoiner.Execute(ctx, &activity.StorageJoinerRequest{
		Batch: batch,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to join storage: %w", err)
	}
	result.Degraded = selected.Degraded || joined.Degraded

	transformed, err := w.transformer.Execute(ctx, &activity.TransformerRequest{
		Batch:       batch,
		Domains:     request.Domains,
		Parallelism: request.Parallelism,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to transform batch: %w", err)
	}
	result.Inserted = transformed.Inserted

	if request.Partial() {
		result.Partial = true
		w.reportResult(result)
		logger.Warn(
			"partial run, watermark not advanced",
			zap.Uint64("watermark", result.Watermark),
			zap.Any("domains", request.Domains),
			zap.Reflect("inserted", result.Inserted),
		)
		return result, nil
	}

	written, err := w.watermarkWriter.Execute(ctx, &activity.WatermarkWriterRequest{
		Batch:              batch,
		HaltOnCorruptBlock: request.HaltOnCorruptBlock,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to advance watermark: %w", err)
	}
	result.Watermark = written.Watermark
	result.Halted = written.Halted

	w.reportResult(result)
	logger.Info(
		"processed batch",
		zap.Uint64("watermark", result.Watermark),
		zap.Int("blocks", result.Blocks),
		zap.Int("storageEntries", joined.Entries),
		zap.Bool("degraded", result.Degraded),
		zap.Bool("halted", result.Halted),
		zap.Reflect("inserted", result.Inserted),
	)
	return result, nil
}

func (w *Ingestor) reportWatermark(watermark *api.Watermark) {
	w.metrics.Gauge(ingestorWatermarkGauge).Update(float64(watermark.Height))
	if !watermark.LastBlockTime.IsZero() {
		w.metrics.Gauge(ingestorTimeSinceLastBlockGauge).Update(time.Since(watermark.LastBlockTime).Seconds())
	}
}

func (w *Ingestor) reportResult(result *IngestorResult) {
	w.metrics.Gauge(ingestorWatermarkGauge).Update(float64(result.Watermark))
	w.metrics.Counter(ingestorBlockCounter).Inc(int64(result.Blocks))
	w.metrics.Counter(ingestorExcludedCounter).Inc(int64(result.Excluded))
	w.metrics.Counter(ingestorCorruptedCounter).Inc(int64(result.Corrupted))
	if result.Degraded {
		w.metrics.Counter(ingestorDegradedCounter).Inc(1)
	}

	for domain, n := range result.Inserted {
		w.metrics.Tagged(map[string]string{ingestorDomainTag: domain.String()}).Counter(ingestorInsertedCounter).Inc(n)
	}
}
