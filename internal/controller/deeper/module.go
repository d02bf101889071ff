package deeper

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/controller/deeper/crontask"
	"github.com/deeper-chain/deeper-archive/internal/controller/deeper/indexer"
)

var Module = fx.Options(
	fx.Provide(fx.Annotated{
		Name:   "deeper",
		Target: NewController,
	}),
	indexer.Module,
	crontask.Module,
)
