package internal

import (
	"context"

	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/storage"
)

type (
	Watermarker interface {
		Get(ctx context.Context) (*api.Watermark, error)
		GetInitialWatermark() *api.Watermark
	}

	WatermarkerParams struct {
		fx.In
		Storage storage.WatermarkStorage
	}

	watermarker struct {
		storage storage.WatermarkStorage
	}
)

func NewWatermarker(params WatermarkerParams) Watermarker {
	return &watermarker{
		storage: params.Storage,
	}
}

func (w *watermarker) Get(ctx context.Context) (*api.Watermark, error) {
	watermark, err := w.storage.GetWatermark(ctx)
	if err != nil {
		if xerrors.Is(err, storage.ErrItemNotFound) {
			return w.GetInitialWatermark(), nil
		}

		return nil, xerrors.Errorf("failed to get watermark: %w", err)
	}

	if watermark.Empty() {
		return w.GetInitialWatermark(), nil
	}

	return watermark, nil
}

func (w *watermarker) GetInitialWatermark() *api.Watermark {
	return api.NewWatermark(api.InitialHeight)
}
