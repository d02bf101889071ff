package activity

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
)

type (
	// WatermarkWriter inserts the progress rows of the batch. The watermark is derived from these rows,
	// so this is the commit point of the batch and must run after every fact domain succeeded.
	WatermarkWriter struct {
		baseActivity
		controller controller.Controller
	}

	WatermarkWriterParams struct {
		fx.In
		fxparams.Params
		Controller controller.Controller
	}

	WatermarkWriterRequest struct {
		Batch *api.Batch `validate:"required"`
		// HaltOnCorruptBlock keeps the watermark below the first corrupt block of the batch.
		HaltOnCorruptBlock bool
	}

	WatermarkWriterResponse struct {
		Watermark uint64
		Inserted  int64
		// Halted is set when progress stopped at a corrupt block.
		Halted bool
	}
)

func NewWatermarkWriter(params WatermarkWriterParams) *WatermarkWriter {
	return &WatermarkWriter{
		baseActivity: newBaseActivity(ActivityWatermarkWriter, params.Logger, params.Metrics),
		controller:   params.Controller,
	}
}

func (a *WatermarkWriter) Execute(ctx context.Context, request *WatermarkWriterRequest) (*WatermarkWriterResponse, error) {
	var response *WatermarkWriterResponse
	err := a.executeActivity(ctx, request, func(ctx context.Context) error {
		var err error
		response, err = a.execute(ctx, request)
		return err
	})
	return response, err
}

func (a *WatermarkWriter) execute(ctx context.Context, request *WatermarkWriterRequest) (*WatermarkWriterResponse, error) {
	batch := request.Batch
	response := &WatermarkWriterResponse{Watermark: batch.Watermark}
	if batch.Empty() {
		return response, nil
	}

	if batch.From() <= batch.Watermark {
		return nil, xerrors.Errorf("watermark cannot be moved backwards (from=%v, watermark=%v)", batch.From(), batch.Watermark)
	}

	blocks := batch.Blocks
	if request.HaltOnCorruptBlock {
		for i, block := range blocks {
			if block.Corrupted {
				a.logger.Warn(
					"halting at corrupt block",
					zap.Uint64("block", block.Number),
					zap.Uint64("watermark", batch.Watermark),
				)
				blocks = blocks[:i]
				response.Halted = true
				break
			}
		}
	}

	if len(blocks) == 0 {
		return response, nil
	}

	indexer, err := a.controller.Indexer(api.DomainTimestamp)
	if err != nil {
		return nil, xerrors.Errorf("failed to get progress indexer: %w", err)
	}

	inserted, err := indexer.Index(ctx, api.NewBatch(batch.Watermark, blocks))
	if err != nil {
		return nil, xerrors.Errorf("failed to write progress: %w", err)
	}

	response.Watermark = blocks[len(blocks)-1].Number
	response.Inserted = inserted
	return response, nil
}
