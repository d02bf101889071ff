package controller

import (
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
)

// NOTE: The interfaces are defined in an internal package to avoid cyclic imports.
type (
	// Controller is a facade to the chain-agnostic interfaces.
	// The chain-specific implementation is injected at runtime.
	Controller = internal.Controller

	// Watermarker reads the resume point of the pipeline.
	Watermarker = internal.Watermarker

	// Indexer extracts and persists the facts of one domain.
	Indexer = internal.Indexer

	// CronTask defines the interface of a periodic task.
	CronTask = internal.CronTask

	ControllerParams struct {
		fx.In
		fxparams.Params
		Deeper Controller `name:"deeper"`
	}
)

func NewController(params ControllerParams) (Controller, error) {
	var controller Controller
	blockchain := params.Config.Chain.Blockchain
	switch blockchain {
	case config.Blockchain:
		controller = params.Deeper
	}

	if controller == nil {
		return nil, xerrors.Errorf("controller is not implemented: %v", blockchain)
	}

	return controller, nil
}
