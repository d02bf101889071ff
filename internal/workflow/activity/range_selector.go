package activity

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
)

type (
	// RangeSelector reads the watermark and selects the next blocks to index,
	// each paired with the schema active at its height and its parsed operations.
	RangeSelector struct {
		baseActivity
		config     *config.Config
		controller controller.Controller
		source     storage.SourceStorage
	}

	RangeSelectorParams struct {
		fx.In
		fxparams.Params
		Controller    controller.Controller
		SourceStorage storage.SourceStorage
	}

	RangeSelectorRequest struct {
		BatchSize uint64 `validate:"required"`
	}

	RangeSelectorResponse struct {
		Watermark *api.Watermark
		Batch     *api.Batch
		Excluded  int
		Corrupted int
		// Degraded is set when the operations of the range could not be fetched.
		Degraded bool
	}
)

func NewRangeSelector(params RangeSelectorParams) *RangeSelector {
	return &RangeSelector{
		baseActivity: newBaseActivity(ActivityRangeSelector, params.Logger, params.Metrics),
		config:       params.Config,
		controller:   params.Controller,
		source:       params.SourceStorage,
	}
}

func (a *RangeSelector) Execute(ctx context.Context, request *RangeSelectorRequest) (*RangeSelectorResponse, error) {
	var response *RangeSelectorResponse
	err := a.executeActivity(ctx, request, func(ctx context.Context) error {
		var err error
		response, err = a.execute(ctx, request)
		return err
	})
	return response, err
}

func (a *RangeSelector) execute(ctx context.Context, request *RangeSelectorRequest) (*RangeSelectorResponse, error) {
	watermark, err := a.controller.Watermarker().Get(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to read watermark: %w", err)
	}

	records, err := a.source.GetBlocks(ctx, watermark.Height, request.BatchSize)
	if err != nil {
		return nil, xerrors.Errorf("failed to select blocks after %v: %w", watermark.Height, err)
	}

	response := &RangeSelectorResponse{
		Watermark: watermark,
		Batch:     api.NewBatch(watermark.Height, nil),
	}
	if len(records) == 0 {
		a.logger.Info("no new blocks", zap.Uint64("watermark", watermark.Height))
		return response, nil
	}

	schemas, err := a.source.GetSchemas(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to read schemas: %w", err)
	}
	catalog := schema.NewCatalog(schemas, a.config.Chain.MinSpecVersion)

	from, to := records[0].Number, records[len(records)-1].Number
	payloads, err := a.source.GetExtrinsics(ctx, from, to)
	if err != nil {
		if a.config.Indexer.AbortOnOperationsError {
			return nil, xerrors.Errorf("failed to read operations of blocks [%v, %v]: %w", from, to, err)
		}

		a.logger.Warn("indexing without operations", zap.Uint64("from", from), zap.Uint64("to", to), zap.Error(err))
		payloads = nil
		response.Degraded = true
	}

	blocks := make([]*api.Block, len(records))
	for i, record := range records {
		block := &api.Block{
			Number:      record.Number,
			SpecVersion: record.SpecVersion,
		}

		if payload, ok := payloads[record.Number]; ok {
			result, err := extrinsic.Parse(payload)
			if err != nil {
				block.Corrupted = true
				response.Corrupted += 1
				a.logger.Warn("corrupt operations payload", zap.Uint64("block", block.Number), zap.Error(err))
			} else {
				block.Operations = result.Operations
				if result.Skipped > 0 || result.BadArguments > 0 {
					a.logger.Debug(
						"skipped unreadable operations",
						zap.Uint64("block", block.Number),
						zap.Int("skipped", result.Skipped),
						zap.Int("badArguments", result.BadArguments),
					)
				}
			}
		}

		s, err := catalog.Resolve(record.SpecVersion)
		if err != nil {
			block.Excluded = true
			response.Excluded += 1
			a.logger.Warn("excluding block", zap.Uint64("block", block.Number), zap.Error(err))
		} else {
			block.Schema = s
		}

		blocks[i] = block
	}

	response.Batch = api.NewBatch(watermark.Height, blocks)
	return response, nil
}
