package activity

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/syncgroup"
)

type (
	// Transformer runs the fact indexers of the requested domains over the batch.
	// Domains run in parallel and share the batch read-only.
	Transformer struct {
		baseActivity
		controller controller.Controller
	}

	TransformerParams struct {
		fx.In
		fxparams.Params
		Controller controller.Controller
	}

	TransformerRequest struct {
		Batch       *api.Batch   `validate:"required"`
		Domains     []api.Domain `validate:"required,min=1"`
		Parallelism int
	}

	TransformerResponse struct {
		// Inserted is the number of new rows per domain.
		Inserted map[api.Domain]int64
	}
)

func NewTransformer(params TransformerParams) *Transformer {
	return &Transformer{
		baseActivity: newBaseActivity(ActivityTransformer, params.Logger, params.Metrics),
		controller:   params.Controller,
	}
}

func (a *Transformer) Execute(ctx context.Context, request *TransformerRequest) (*TransformerResponse, error) {
	var response *TransformerResponse
	err := a.executeActivity(ctx, request, func(ctx context.Context) error {
		var err error
		response, err = a.execute(ctx, request)
		return err
	})
	return response, err
}

func (a *Transformer) execute(ctx context.Context, request *TransformerRequest) (*TransformerResponse, error) {
	for _, domain := range request.Domains {
		if !domain.IsFactDomain() {
			return nil, xerrors.Errorf("domain %v is not a fact domain: %w", domain, api.ErrNotAllowed)
		}
	}

	var mu sync.Mutex
	inserted := make(map[api.Domain]int64, len(request.Domains))
	group, ctx := syncgroup.New(ctx, syncgroup.WithThrottling(request.Parallelism))
	for _, domain := range request.Domains {
		domain := domain
		group.Go(func() error {
			indexer, err := a.controller.Indexer(domain)
			if err != nil {
				return xerrors.Errorf("failed to get indexer: %w", err)
			}

			n, err := indexer.Index(ctx, request.Batch)
			if err != nil {
				return xerrors.Errorf("failed to index domain %v: %w", domain, err)
			}

			mu.Lock()
			inserted[domain] = n
			mu.Unlock()

			a.logger.Debug(
				"indexed domain",
				zap.Stringer("domain", domain),
				zap.Uint64("from", request.Batch.From()),
				zap.Uint64("to", request.Batch.To()),
				zap.Int64("inserted", n),
			)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &TransformerResponse{Inserted: inserted}, nil
}
