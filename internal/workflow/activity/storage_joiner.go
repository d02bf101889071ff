package activity

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
)

type (
	// StorageJoiner attaches the storage rows of the selected range to the batch.
	StorageJoiner struct {
		baseActivity
		source storage.SourceStorage
	}

	StorageJoinerParams struct {
		fx.In
		fxparams.Params
		SourceStorage storage.SourceStorage
	}

	StorageJoinerRequest struct {
		Batch *api.Batch `validate:"required"`
	}

	StorageJoinerResponse struct {
		Entries  int
		Degraded bool
	}
)

func NewStorageJoiner(params StorageJoinerParams) *StorageJoiner {
	return &StorageJoiner{
		baseActivity: newBaseActivity(ActivityStorageJoiner, params.Logger, params.Metrics),
		source:       params.SourceStorage,
	}
}

func (a *StorageJoiner) Execute(ctx context.Context, request *StorageJoinerRequest) (*StorageJoinerResponse, error) {
	var response *StorageJoinerResponse
	err := a.executeActivity(ctx, request, func(ctx context.Context) error {
		var err error
		response, err = a.execute(ctx, request)
		return err
	})
	return response, err
}

// execute fails only when the context is done. Any other fetch error leaves the batch without storage,
// so no state facts are derived from it.
func (a *StorageJoiner) execute(ctx context.Context, request *StorageJoinerRequest) (*StorageJoinerResponse, error) {
	batch := request.Batch
	if batch.Empty() {
		return &StorageJoinerResponse{}, nil
	}

	entries, err := a.source.GetStorage(ctx, batch.From(), batch.To())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		a.logger.Warn(
			"failed to fetch storage, continuing without it",
			zap.Uint64("from", batch.From()),
			zap.Uint64("to", batch.To()),
			zap.Error(err),
		)
		return &StorageJoinerResponse{Degraded: true}, nil
	}

	batch.JoinStorage(entries)
	return &StorageJoinerResponse{Entries: len(entries)}, nil
}
